package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/dashboard"
	"github.com/culinary-data/recipe-crawler/internal/recipe"
	"github.com/culinary-data/recipe-crawler/internal/stats"
)

// newDashboardCmd serves the analytics dashboard over the scraped data files.
func newDashboardCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the recipe analytics dashboard",
		Long: `Starts an HTTP server exposing the scraped recipe data: a browser UI at /,
JSON APIs under /api/, and Prometheus metrics at /metrics. The server reads
the data files on each request, so a scrape run in another terminal shows up
without a restart.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp()
			if err != nil {
				return err
			}
			if port <= 0 {
				port = a.cfg.Server.Port
			}

			stats.InitMetrics()

			store, err := recipe.NewStore(a.cfg.RecipesPath(), a.logger)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}

			server := dashboard.NewServer(store, dashboard.Options{
				RobotsPath:     a.cfg.RobotsPath(),
				RunStatsPath:   a.cfg.RunStatsPath(),
				RequestTimeout: a.cfg.ServerTimeout(),
			}, a.logger)

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("dashboard listening", zap.String("addr", httpServer.Addr))
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve dashboard: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("shutting down dashboard")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown dashboard: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: server.port)")
	return cmd
}
