// Package robots fetches and analyzes a site's robots.txt for crawlability.
package robots

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

const maxRobotsBytes = 1 << 20

// PathCheck records whether a concrete path is allowed for the user agent.
type PathCheck struct {
	Path    string `json:"path"`
	Allowed bool   `json:"allowed"`
}

// Report summarizes the robots.txt directives relevant to the crawler. It is
// informational: the dashboard displays it, the scraper only reads CrawlDelay.
type Report struct {
	SiteURL       string      `json:"site_url"`
	UserAgent     string      `json:"user_agent"`
	FetchedAt     time.Time   `json:"fetched_at"`
	StatusCode    int         `json:"status_code"`
	Allowed       []string    `json:"allowed"`
	Disallowed    []string    `json:"disallowed"`
	Sitemaps      []string    `json:"sitemaps"`
	CrawlDelaySec float64     `json:"crawl_delay_seconds"`
	PathChecks    []PathCheck `json:"path_checks,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// CrawlDelay converts the reported delay into a duration.
func (r Report) CrawlDelay() time.Duration {
	return time.Duration(r.CrawlDelaySec * float64(time.Second))
}

// Checker downloads and analyzes robots.txt.
type Checker struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewChecker builds a Checker for the given user agent.
func NewChecker(userAgent string, timeout time.Duration, logger *zap.Logger) *Checker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Checker{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Analyze fetches robots.txt for siteURL and classifies checkPaths against the
// group matching the configured user agent. Fetch failures produce a report
// with the error recorded rather than an error return, so the dashboard can
// still display what happened.
func (c *Checker) Analyze(ctx context.Context, siteURL string, checkPaths []string) (Report, error) {
	report := Report{
		SiteURL:   siteURL,
		UserAgent: c.userAgent,
		FetchedAt: time.Now().UTC(),
	}

	parsed, err := url.Parse(siteURL)
	if err != nil {
		return Report{}, fmt.Errorf("parse site url %s: %w", siteURL, err)
	}
	robotsURL := *parsed
	robotsURL.Path = path.Join("/", "robots.txt")
	robotsURL.RawQuery = ""
	robotsURL.Fragment = ""

	status, body, err := c.download(ctx, robotsURL.String())
	if err != nil {
		c.logger.Warn("robots fetch failed", zap.String("host", parsed.Host), zap.Error(err))
		report.Error = err.Error()
		return report, nil
	}
	report.StatusCode = status

	scanDirectives(&report, body)

	data, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		report.Error = fmt.Sprintf("parse robots: %v", err)
		return report, nil
	}
	group := data.FindGroup(c.userAgent)
	if group != nil {
		report.CrawlDelaySec = group.CrawlDelay.Seconds()
		for _, p := range checkPaths {
			report.PathChecks = append(report.PathChecks, PathCheck{
				Path:    p,
				Allowed: group.Test(p),
			})
		}
	}
	return report, nil
}

func (c *Checker) download(ctx context.Context, robotsURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("new robots request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch robots: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close robots response body", zap.Error(cerr))
		}
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read robots body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// scanDirectives collects the raw allow/disallow/sitemap lines so the report
// mirrors the file as served, independent of user-agent group resolution.
func scanDirectives(report *Report, body []byte) {
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "allow":
			if value != "" {
				report.Allowed = append(report.Allowed, value)
			}
		case "disallow":
			if value != "" {
				report.Disallowed = append(report.Disallowed, value)
			}
		case "sitemap":
			if value != "" {
				report.Sitemaps = append(report.Sitemaps, value)
			}
		}
	}
}

// WriteSummary persists a report as indented JSON for the dashboard.
func WriteSummary(report Report, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create summary dir for %s: %w", target, err)
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal robots summary: %w", err)
	}
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return fmt.Errorf("write robots summary %s: %w", target, err)
	}
	return nil
}

// ReadSummary loads a previously written report. A missing file returns
// ok=false with no error.
func ReadSummary(target string) (Report, bool, error) {
	payload, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, false, nil
		}
		return Report{}, false, fmt.Errorf("read robots summary %s: %w", target, err)
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return Report{}, false, fmt.Errorf("parse robots summary %s: %w", target, err)
	}
	return report, true, nil
}
