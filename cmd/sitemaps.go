package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/fetch"
	"github.com/culinary-data/recipe-crawler/internal/sitemap"
)

// newSitemapsCmd lists the child sitemaps declared by the site's sitemap index.
func newSitemapsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "sitemaps",
		Short: "List child sitemaps from the sitemap index",
		Long: `Fetches the root sitemap index and prints the child sitemap URLs it
declares, optionally filtered by a substring.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp()
			if err != nil {
				return err
			}

			explorer, err := buildExplorer(a)
			if err != nil {
				return err
			}

			refs, err := explorer.FetchIndex(cmd.Context(), a.cfg.Site.SitemapIndexURL)
			if err != nil {
				return err
			}

			printed := 0
			for _, ref := range refs {
				if filter != "" && !containsFold(ref.Loc, filter) {
					continue
				}
				if ref.LastMod != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ref.Loc, ref.LastMod)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), ref.Loc)
				}
				printed++
			}
			a.logger.Info("sitemap index explored",
				zap.String("index", a.cfg.Site.SitemapIndexURL),
				zap.Int("total", len(refs)),
				zap.Int("printed", printed),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only print sitemaps whose URL contains this substring")
	return cmd
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func buildExplorer(a *app) (*sitemap.Explorer, error) {
	fetcher, err := fetch.NewCollyFetcher(fetch.Options{
		UserAgent:      a.cfg.Site.UserAgent,
		RequestTimeout: a.cfg.RequestTimeout(),
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	return sitemap.NewExplorer(fetcher, a.logger), nil
}
