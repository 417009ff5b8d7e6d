package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"newswatch/internal/domain"
)

const (
	configPathEnv    = "NEWSWATCH_CONFIG"
	databasePathEnv  = "DATABASE_PATH"
	logLevelEnv      = "LOG_LEVEL"
	scraperTimeout   = "SCRAPER_TIMEOUT"
	renderEnabledEnv = "RENDER_ENABLED"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sites     []SiteConfig    `yaml:"sites"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls operational log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ScraperConfig tunes fetch behavior shared by all sites.
type ScraperConfig struct {
	TimeoutSeconds       int  `yaml:"timeoutSeconds"`
	MaxRetries           int  `yaml:"maxRetries"`
	RenderEnabled        bool `yaml:"renderEnabled"`
	RenderTimeoutSeconds int  `yaml:"renderTimeoutSeconds"`
}

// Timeout resolves the static fetch timeout.
func (s ScraperConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RenderTimeout resolves the full-page render timeout.
func (s ScraperConfig) RenderTimeout() time.Duration {
	return time.Duration(s.RenderTimeoutSeconds) * time.Second
}

// SchedulerConfig controls auto-scrape bootstrapping.
type SchedulerConfig struct {
	Enabled                bool `yaml:"enabled"`
	DefaultIntervalSeconds int  `yaml:"defaultIntervalSeconds"`
}

// SelectorConfig carries the four per-field selector chains. Empty chains
// fall back to built-in defaults during normalization.
type SelectorConfig struct {
	Title    []string `yaml:"title"`
	Date     []string `yaml:"date"`
	Content  []string `yaml:"content"`
	Category []string `yaml:"category"`
}

// ProxyConfig holds per-scheme proxy overrides for one site.
type ProxyConfig struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// SiteConfig describes a single site to scrape.
type SiteConfig struct {
	Name            string         `yaml:"name"`
	URL             string         `yaml:"url"`
	FeedURL         string         `yaml:"feedUrl"`
	Category        string         `yaml:"category"`
	Selectors       SelectorConfig `yaml:"selectors"`
	Render          bool           `yaml:"render"`
	Proxy           ProxyConfig    `yaml:"proxy"`
	Active          *bool          `yaml:"active"`
	AutoScrape      bool           `yaml:"autoScrape"`
	IntervalSeconds int            `yaml:"intervalSeconds"`
}

// Site converts the YAML form into a normalized domain site.
func (sc SiteConfig) Site() domain.Site {
	site := domain.Site{
		Name:              sc.Name,
		URL:               sc.URL,
		FeedURL:           sc.FeedURL,
		Category:          sc.Category,
		TitleSelectors:    sc.Selectors.Title,
		DateSelectors:     sc.Selectors.Date,
		ContentSelectors:  sc.Selectors.Content,
		CategorySelectors: sc.Selectors.Category,
		UseRender:         sc.Render,
		ProxyHTTP:         sc.Proxy.HTTP,
		ProxyHTTPS:        sc.Proxy.HTTPS,
		Active:            sc.Active == nil || *sc.Active,
		AutoScrape:        sc.AutoScrape,
		ScrapeInterval:    time.Duration(sc.IntervalSeconds) * time.Second,
	}
	site.Normalize()
	return site
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(scraperTimeout); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			c.Scraper.TimeoutSeconds = seconds
		}
	}

	if v := os.Getenv(renderEnabledEnv); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Scraper.RenderEnabled = enabled
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scraper.TimeoutSeconds > 0 {
		base.Scraper.TimeoutSeconds = override.Scraper.TimeoutSeconds
	}
	if override.Scraper.MaxRetries > 0 {
		base.Scraper.MaxRetries = override.Scraper.MaxRetries
	}
	if override.Scraper.RenderEnabled {
		base.Scraper.RenderEnabled = true
	}
	if override.Scraper.RenderTimeoutSeconds > 0 {
		base.Scraper.RenderTimeoutSeconds = override.Scraper.RenderTimeoutSeconds
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.DefaultIntervalSeconds > 0 {
		base.Scheduler.DefaultIntervalSeconds = override.Scheduler.DefaultIntervalSeconds
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "newswatch.db"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Scraper: ScraperConfig{
			TimeoutSeconds:       30,
			MaxRetries:           3,
			RenderEnabled:        false,
			RenderTimeoutSeconds: 10,
		},
		Scheduler: SchedulerConfig{
			Enabled:                true,
			DefaultIntervalSeconds: 3600,
		},
	}
}
