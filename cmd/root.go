// Package cmd defines the CLI commands for the recipecrawler executable.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/config"
	"github.com/culinary-data/recipe-crawler/internal/logging"
)

var cfgFile string

// app bundles the services every subcommand needs.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

var current *app

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipecrawler",
		Short: "A recipe scraper and analytics dashboard for tasteofhome.com.",
		Long: `recipecrawler is a linear scraping pipeline for the TasteOfHome recipe
site: it explores the sitemap index, collects recipe URLs, checks robots.txt
crawlability, extracts recipe fields with a headless browser, and serves an
analytics dashboard over the resulting flat JSON files.`,

		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			current = &app{cfg: cfg, logger: logger}
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if current != nil {
				_ = current.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults + RECIPECRAWLER_* env)")

	cmd.AddCommand(newSitemapsCmd())
	cmd.AddCommand(newURLsCmd())
	cmd.AddCommand(newRobotsCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newDashboardCmd())

	return cmd
}

func resolveApp() (*app, error) {
	if current == nil {
		return nil, errors.New("application services not initialized")
	}
	return current, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
