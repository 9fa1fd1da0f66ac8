package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/robots"
)

// newRobotsCmd analyzes the target site's robots.txt and writes the summary
// consumed by the dashboard.
func newRobotsCmd() *cobra.Command {
	var checkPaths []string

	cmd := &cobra.Command{
		Use:   "robots",
		Short: "Analyze robots.txt crawlability for the target site",
		Long: `Fetches and parses robots.txt for the configured site, reports the
allow/disallow rules, declared sitemaps and crawl delay, classifies the
recipe path, and writes the summary JSON used by the dashboard.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp()
			if err != nil {
				return err
			}

			paths := checkPaths
			if len(paths) == 0 {
				paths = []string{a.cfg.Site.RecipePath}
			}

			checker := robots.NewChecker(a.cfg.Site.UserAgent, a.cfg.RequestTimeout(), a.logger)
			report, err := checker.Analyze(cmd.Context(), a.cfg.Site.SitemapIndexURL, paths)
			if err != nil {
				return err
			}

			printReport(cmd, report)

			if err := robots.WriteSummary(report, a.cfg.RobotsPath()); err != nil {
				return err
			}
			a.logger.Info("robots summary written",
				zap.String("path", a.cfg.RobotsPath()),
				zap.Int("allowed_rules", len(report.Allowed)),
				zap.Int("disallowed_rules", len(report.Disallowed)),
			)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&checkPaths, "check", nil, "paths to classify against robots.txt (default: the recipe path)")
	return cmd
}

func printReport(cmd *cobra.Command, report robots.Report) {
	out := cmd.OutOrStdout()
	if report.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", report.Error)
		return
	}
	fmt.Fprintf(out, "Status: %d\n", report.StatusCode)
	fmt.Fprintf(out, "Allowed rules: %d\n", len(report.Allowed))
	fmt.Fprintf(out, "Disallowed rules: %d\n", len(report.Disallowed))
	if len(report.Sitemaps) > 0 {
		fmt.Fprintf(out, "Sitemaps:\n  %s\n", strings.Join(report.Sitemaps, "\n  "))
	}
	if report.CrawlDelaySec > 0 {
		fmt.Fprintf(out, "Crawl delay: %.1fs\n", report.CrawlDelaySec)
	}
	for _, check := range report.PathChecks {
		verdict := "disallowed"
		if check.Allowed {
			verdict = "allowed"
		}
		fmt.Fprintf(out, "Path %s: %s\n", check.Path, verdict)
	}
}
