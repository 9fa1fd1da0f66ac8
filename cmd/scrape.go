package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/extract"
	"github.com/culinary-data/recipe-crawler/internal/recipe"
	"github.com/culinary-data/recipe-crawler/internal/robots"
	"github.com/culinary-data/recipe-crawler/internal/scraper"
	"github.com/culinary-data/recipe-crawler/internal/stats"
)

// newScrapeCmd runs the content extraction pipeline end to end.
func newScrapeCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape recipe pages into the flat JSON file",
		Long: `Collects recipe URLs from the sitemaps, loads each page in a headless
browser, extracts structured recipe fields, and accumulates the records into
the recipes JSON file. Per-page failures are logged and skipped.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.cfg.Scrape.Limit
			}

			stats.InitMetrics()

			explorer, err := buildExplorer(a)
			if err != nil {
				return err
			}
			urls, err := explorer.RecipeURLs(
				cmd.Context(),
				a.cfg.Site.SitemapIndexURL,
				a.cfg.Site.SitemapFilter,
				a.cfg.Site.RecipePath,
				limit,
			)
			if err != nil {
				return fmt.Errorf("collect recipe URLs: %w", err)
			}
			if len(urls) == 0 {
				return errors.New("no recipe URLs found in the sitemaps")
			}
			a.logger.Info("recipe URLs collected", zap.Int("count", len(urls)))

			delay := a.cfg.PageDelay()
			if a.cfg.Scrape.HonorCrawlDelay {
				checker := robots.NewChecker(a.cfg.Site.UserAgent, a.cfg.RequestTimeout(), a.logger)
				report, err := checker.Analyze(cmd.Context(), a.cfg.Site.SitemapIndexURL, nil)
				if err == nil && report.Error == "" {
					delay = scraper.EffectiveDelay(delay, report.CrawlDelay())
				}
			}

			renderer, err := extract.NewChromedpRenderer(extract.RendererOptions{
				UserAgent:      a.cfg.Site.UserAgent,
				Timeout:        a.cfg.RenderTimeout(),
				MaxConcurrency: a.cfg.Scrape.RenderConcurrency,
				QPS:            a.cfg.Scrape.RenderDomainQPS,
			}, a.logger)
			if err != nil {
				return fmt.Errorf("init renderer: %w", err)
			}
			defer func() {
				if cerr := renderer.Close(); cerr != nil {
					a.logger.Warn("close renderer failed", zap.Error(cerr))
				}
			}()

			store, err := recipe.NewStore(a.cfg.RecipesPath(), a.logger)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}

			policy := robots.NewEnforcer(
				a.cfg.Scrape.RespectRobots,
				a.cfg.Site.UserAgent,
				a.cfg.RequestTimeout(),
				a.logger,
			)
			recorder := stats.NewRecorder(uuid.NewString())

			engine := scraper.New(
				renderer,
				policy,
				scraper.NewExponentialRetryPolicy(a.cfg.Scrape.MaxRetries),
				store,
				recorder,
				scraper.Options{Delay: delay},
				a.logger,
			)

			stored, err := engine.Run(cmd.Context(), urls)
			runStats := recorder.Finish()
			if werr := stats.Write(runStats, a.cfg.RunStatsPath()); werr != nil {
				a.logger.Warn("write run stats failed", zap.Error(werr))
			}
			if err != nil {
				return fmt.Errorf("run scraper: %w", err)
			}

			a.logger.Info("scrape finished",
				zap.String("run_id", runStats.RunID),
				zap.Int("stored", stored),
				zap.Int("attempted", runStats.Attempted),
				zap.Int("failed", runStats.Failed),
				zap.Int("retries", runStats.Retries),
				zap.Float64("success_rate", runStats.SuccessRate()),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum pages to scrape (default: scrape.limit)")
	return cmd
}
