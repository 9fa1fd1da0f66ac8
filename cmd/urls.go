package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newURLsCmd extracts recipe page URLs from the recipe sitemaps.
func newURLsCmd() *cobra.Command {
	var (
		sitemapURL string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Extract recipe page URLs from the sitemaps",
		Long: `Walks the recipe sitemaps and prints recipe page URLs. By default the
sitemap index is explored and children matching the configured filter are
parsed; --sitemap parses a single sitemap instead.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.cfg.Scrape.Limit
			}

			explorer, err := buildExplorer(a)
			if err != nil {
				return err
			}

			var urls []string
			if sitemapURL != "" {
				entries, err := explorer.FetchURLSet(cmd.Context(), sitemapURL)
				if err != nil {
					return err
				}
				for _, entry := range entries {
					urls = append(urls, entry.Loc)
					if len(urls) >= limit {
						break
					}
				}
			} else {
				urls, err = explorer.RecipeURLs(
					cmd.Context(),
					a.cfg.Site.SitemapIndexURL,
					a.cfg.Site.SitemapFilter,
					a.cfg.Site.RecipePath,
					limit,
				)
				if err != nil {
					return err
				}
			}

			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			a.logger.Info("recipe URLs collected", zap.Int("count", len(urls)))
			return nil
		},
	}

	cmd.Flags().StringVar(&sitemapURL, "sitemap", "", "parse a single sitemap URL instead of the index")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum URLs to print (default: scrape.limit)")
	return cmd
}
