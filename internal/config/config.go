// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Output  OutputConfig  `mapstructure:"output"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SiteConfig identifies the crawl target.
type SiteConfig struct {
	SitemapIndexURL string `mapstructure:"sitemap_index_url"`
	SitemapFilter   string `mapstructure:"sitemap_filter"`
	RecipePath      string `mapstructure:"recipe_path"`
	UserAgent       string `mapstructure:"user_agent"`
}

// ScrapeConfig governs the extraction pipeline.
type ScrapeConfig struct {
	Limit             int     `mapstructure:"limit"`
	DelaySeconds      int     `mapstructure:"delay_seconds"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_seconds"`
	RenderTimeoutSec  int     `mapstructure:"render_timeout_seconds"`
	RenderConcurrency int     `mapstructure:"render_concurrency"`
	RenderDomainQPS   float64 `mapstructure:"render_domain_qps"`
	MaxRetries        int     `mapstructure:"max_retries"`
	RespectRobots     bool    `mapstructure:"respect_robots"`
	HonorCrawlDelay   bool    `mapstructure:"honor_crawl_delay"`
}

// OutputConfig sets where the flat JSON artifacts land.
type OutputConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	RecipesFile  string `mapstructure:"recipes_file"`
	RobotsFile   string `mapstructure:"robots_file"`
	RunStatsFile string `mapstructure:"run_stats_file"`
}

// ServerConfig controls the dashboard HTTP server.
type ServerConfig struct {
	Port              int `mapstructure:"port"`
	RequestTimeoutSec int `mapstructure:"request_timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RECIPECRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.sitemap_index_url", "https://www.tasteofhome.com/sitemap_index.xml")
	v.SetDefault("site.sitemap_filter", "recipe-sitemap")
	v.SetDefault("site.recipe_path", "/recipes/")
	v.SetDefault("site.user_agent", "recipe-crawler/0.1")
	v.SetDefault("scrape.limit", 100)
	v.SetDefault("scrape.delay_seconds", 2)
	v.SetDefault("scrape.request_timeout_seconds", 15)
	v.SetDefault("scrape.render_timeout_seconds", 25)
	v.SetDefault("scrape.render_concurrency", 1)
	v.SetDefault("scrape.render_domain_qps", 0.5)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.respect_robots", true)
	v.SetDefault("scrape.honor_crawl_delay", true)
	v.SetDefault("output.data_dir", "data")
	v.SetDefault("output.recipes_file", "recipes.json")
	v.SetDefault("output.robots_file", "robots_summary.json")
	v.SetDefault("output.run_stats_file", "run_stats.json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.SitemapIndexURL == "" {
		return fmt.Errorf("site.sitemap_index_url must be set")
	}
	if c.Site.UserAgent == "" {
		return fmt.Errorf("site.user_agent must be set")
	}
	if c.Scrape.Limit <= 0 {
		return fmt.Errorf("scrape.limit must be > 0")
	}
	if c.Scrape.DelaySeconds < 0 {
		return fmt.Errorf("scrape.delay_seconds must be >= 0")
	}
	if c.Scrape.RequestTimeoutSec <= 0 {
		return fmt.Errorf("scrape.request_timeout_seconds must be > 0")
	}
	if c.Scrape.RenderTimeoutSec <= 0 {
		return fmt.Errorf("scrape.render_timeout_seconds must be > 0")
	}
	if c.Scrape.RenderConcurrency <= 0 {
		return fmt.Errorf("scrape.render_concurrency must be > 0")
	}
	if c.Scrape.RenderDomainQPS < 0 {
		return fmt.Errorf("scrape.render_domain_qps must be >= 0")
	}
	if c.Scrape.MaxRetries < 0 {
		return fmt.Errorf("scrape.max_retries must be >= 0")
	}
	if c.Output.DataDir == "" {
		return fmt.Errorf("output.data_dir must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSec <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	return nil
}

// RequestTimeout converts the scrape HTTP timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Scrape.RequestTimeoutSec) * time.Second
}

// RenderTimeout converts the render timeout into a duration.
func (c Config) RenderTimeout() time.Duration {
	return time.Duration(c.Scrape.RenderTimeoutSec) * time.Second
}

// PageDelay is the fixed politeness delay between page fetches.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.Scrape.DelaySeconds) * time.Second
}

// ServerTimeout is the per-request timeout for the dashboard server.
func (c Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

// RecipesPath returns the full path of the recipes JSON file.
func (c Config) RecipesPath() string {
	return filepath.Join(c.Output.DataDir, c.Output.RecipesFile)
}

// RobotsPath returns the full path of the robots summary JSON file.
func (c Config) RobotsPath() string {
	return filepath.Join(c.Output.DataDir, c.Output.RobotsFile)
}

// RunStatsPath returns the full path of the run statistics JSON file.
func (c Config) RunStatsPath() string {
	return filepath.Join(c.Output.DataDir, c.Output.RunStatsFile)
}
