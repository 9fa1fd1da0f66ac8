// Package scraper runs the recipe extraction pipeline: for each recipe URL,
// render the page, extract fields, and accumulate records into the store.
package scraper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/extract"
	"github.com/culinary-data/recipe-crawler/internal/fetch"
	"github.com/culinary-data/recipe-crawler/internal/recipe"
	"github.com/culinary-data/recipe-crawler/internal/stats"
)

// Renderer loads a page with JavaScript executed and returns the DOM snapshot.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (fetch.Page, error)
}

// RobotsPolicy reports whether a URL may be fetched.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// RetryPolicy decides whether and when failed fetches are retried.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// Sink receives extracted recipe records.
type Sink interface {
	Upsert(records []recipe.Recipe) error
}

// Options tunes the scrape run.
type Options struct {
	// Delay is the fixed politeness pause between pages. The site's declared
	// crawl delay overrides it when larger.
	Delay time.Duration
}

// Scraper drives the per-URL pipeline sequentially.
type Scraper struct {
	renderer Renderer
	robots   RobotsPolicy
	retry    RetryPolicy
	sink     Sink
	recorder *stats.Recorder
	logger   *zap.Logger
	opts     Options

	seen sync.Map
}

// New constructs a Scraper. robots may be nil to skip the admission check.
func New(
	renderer Renderer,
	robots RobotsPolicy,
	retry RetryPolicy,
	sink Sink,
	recorder *stats.Recorder,
	opts Options,
	logger *zap.Logger,
) *Scraper {
	return &Scraper{
		renderer: renderer,
		robots:   robots,
		retry:    retry,
		sink:     sink,
		recorder: recorder,
		logger:   logger,
		opts:     opts,
	}
}

// Run processes urls in order. Per-page failures are logged and skipped; the
// accumulated records are flushed to the sink once at the end so the output
// file is rewritten atomically. Returns the number of records stored.
func (s *Scraper) Run(ctx context.Context, urls []string) (int, error) {
	records := make([]recipe.Recipe, 0, len(urls))

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("scrape interrupted", zap.Int("processed", i), zap.Error(err))
			break
		}
		if i > 0 {
			s.pause(ctx)
		}

		rec, ok := s.scrapeOne(ctx, rawURL, i+1, len(urls))
		if ok {
			records = append(records, rec)
		}
	}

	if err := s.sink.Upsert(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Scraper) scrapeOne(ctx context.Context, rawURL string, pos, total int) (recipe.Recipe, bool) {
	if _, dup := s.seen.LoadOrStore(rawURL, struct{}{}); dup {
		s.recorder.PageSkipped()
		return recipe.Recipe{}, false
	}
	if s.robots != nil && !s.robots.Allowed(ctx, rawURL) {
		s.logger.Warn("URL disallowed by robots.txt", zap.String("url", rawURL))
		s.recorder.PageSkipped()
		return recipe.Recipe{}, false
	}

	s.logger.Info("scraping recipe page",
		zap.String("url", rawURL),
		zap.Int("pos", pos),
		zap.Int("total", total),
	)

	start := time.Now()
	page, err := s.renderWithRetry(ctx, rawURL)
	dur := time.Since(start)
	if err != nil {
		s.logger.Error("page fetch failed", zap.String("url", rawURL), zap.Error(err))
		s.recorder.PageFailed(page.StatusCode, dur)
		return recipe.Recipe{}, false
	}

	rec, err := extract.Recipe(rawURL, string(page.Body))
	if err != nil {
		s.logger.Error("page parse failed", zap.String("url", rawURL), zap.Error(err))
		s.recorder.PageFailed(page.StatusCode, dur)
		return recipe.Recipe{}, false
	}
	if len(rec.Ingredients) == 0 {
		// Not a recipe page, or the selectors found nothing. Dropped, same as
		// a record without ingredients in the flat file would be useless.
		s.logger.Warn("no ingredients extracted; dropping record", zap.String("url", rawURL))
		s.recorder.PageSkipped()
		return recipe.Recipe{}, false
	}

	s.recorder.PageSucceeded(page.StatusCode, dur)
	s.logger.Debug("recipe extracted",
		zap.String("url", rawURL),
		zap.String("title", rec.Title),
		zap.Int("ingredients", len(rec.Ingredients)),
		zap.Int("instructions", len(rec.Instructions)),
	)
	return rec, true
}

func (s *Scraper) renderWithRetry(ctx context.Context, rawURL string) (fetch.Page, error) {
	var lastErr error
	var page fetch.Page
	for attempt := 0; ; attempt++ {
		page, lastErr = s.renderer.Render(ctx, rawURL)
		if lastErr == nil {
			return page, nil
		}
		if !s.retry.ShouldRetry(lastErr, attempt+1) {
			return page, lastErr
		}
		s.recorder.Retried()
		backoff := s.retry.Backoff(attempt)
		s.logger.Warn("retrying page fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(lastErr),
		)
		if err := sleepCtx(ctx, backoff); err != nil {
			return page, lastErr
		}
	}
}

func (s *Scraper) pause(ctx context.Context) {
	_ = sleepCtx(ctx, s.opts.Delay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// EffectiveDelay picks the larger of the configured delay and the site's
// declared crawl delay.
func EffectiveDelay(configured, crawlDelay time.Duration) time.Duration {
	if crawlDelay > configured {
		return crawlDelay
	}
	return configured
}
