package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.SitemapIndexURL != "https://www.tasteofhome.com/sitemap_index.xml" {
		t.Fatalf("unexpected sitemap index URL: %q", cfg.Site.SitemapIndexURL)
	}
	if cfg.Site.SitemapFilter != "recipe-sitemap" {
		t.Fatalf("unexpected sitemap filter: %q", cfg.Site.SitemapFilter)
	}
	if cfg.Site.RecipePath != "/recipes/" {
		t.Fatalf("unexpected recipe path: %q", cfg.Site.RecipePath)
	}
	if cfg.Scrape.Limit != 100 {
		t.Fatalf("unexpected scrape limit: %d", cfg.Scrape.Limit)
	}
	if got := cfg.PageDelay(); got != 2*time.Second {
		t.Fatalf("expected 2s page delay, got %v", got)
	}
	if got := cfg.RecipesPath(); got != filepath.Join("data", "recipes.json") {
		t.Fatalf("unexpected recipes path: %q", got)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
site:
  sitemap_index_url: https://example.com/sitemap.xml
  sitemap_filter: recipes
  user_agent: test-agent
scrape:
  limit: 5
  delay_seconds: 0
  render_timeout_seconds: 10
  respect_robots: false
output:
  data_dir: out
server:
  port: 9999
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.SitemapIndexURL != "https://example.com/sitemap.xml" {
		t.Fatalf("expected sitemap override, got %q", cfg.Site.SitemapIndexURL)
	}
	if cfg.Site.UserAgent != "test-agent" {
		t.Fatalf("expected user agent override, got %q", cfg.Site.UserAgent)
	}
	if cfg.Scrape.Limit != 5 || cfg.Scrape.RespectRobots {
		t.Fatalf("expected scrape overrides to apply: %+v", cfg.Scrape)
	}
	if cfg.PageDelay() != 0 {
		t.Fatalf("expected zero page delay, got %v", cfg.PageDelay())
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Development {
		t.Fatalf("expected development logging disabled")
	}
	if got := cfg.RobotsPath(); got != filepath.Join("out", "robots_summary.json") {
		t.Fatalf("unexpected robots path: %q", got)
	}
	if got := cfg.RenderTimeout(); got != 10*time.Second {
		t.Fatalf("expected 10s render timeout, got %v", got)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Site: SiteConfig{
			SitemapIndexURL: "https://example.com/sitemap.xml",
			UserAgent:       "agent",
		},
		Scrape: ScrapeConfig{
			Limit:             10,
			RequestTimeoutSec: 10,
			RenderTimeoutSec:  20,
			RenderConcurrency: 1,
		},
		Output: OutputConfig{DataDir: "data"},
		Server: ServerConfig{Port: 8080, RequestTimeoutSec: 60},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing sitemap index",
			cfg: func() Config {
				c := base
				c.Site.SitemapIndexURL = ""
				return c
			}(),
			want: "site.sitemap_index_url",
		},
		{
			name: "missing user agent",
			cfg: func() Config {
				c := base
				c.Site.UserAgent = ""
				return c
			}(),
			want: "site.user_agent",
		},
		{
			name: "invalid limit",
			cfg: func() Config {
				c := base
				c.Scrape.Limit = 0
				return c
			}(),
			want: "scrape.limit",
		},
		{
			name: "negative delay",
			cfg: func() Config {
				c := base
				c.Scrape.DelaySeconds = -1
				return c
			}(),
			want: "scrape.delay_seconds",
		},
		{
			name: "invalid render concurrency",
			cfg: func() Config {
				c := base
				c.Scrape.RenderConcurrency = 0
				return c
			}(),
			want: "scrape.render_concurrency",
		},
		{
			name: "missing data dir",
			cfg: func() Config {
				c := base
				c.Output.DataDir = ""
				return c
			}(),
			want: "output.data_dir",
		},
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
