package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "ARTICLES_RENDERER_CONFIG"
	apiOriginEnv   = "API_ORIGIN"
	logLevelEnv    = "LOG_LEVEL"
	concurrencyEnv = "RENDER_CONCURRENCY"

	defaultDetailPath = "article.html"
)

// Config holds high-level settings required across the application.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Logging LoggingConfig `yaml:"logging"`
	Render  RenderConfig  `yaml:"render"`
	Pages   []PageConfig  `yaml:"pages"`
}

// APIConfig describes how to reach the articles API.
type APIConfig struct {
	// Origin resolves root-relative endpoints such as /articles.
	Origin            string        `yaml:"origin"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"userAgent"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RenderConfig tunes the page renderer.
type RenderConfig struct {
	Concurrency int    `yaml:"concurrency"`
	DetailPath  string `yaml:"detailPath"`
}

// PageConfig describes one page to render.
type PageConfig struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	// URL is the page location; the detail page reads ?id= from it.
	URL          string   `yaml:"url"`
	Initializers []string `yaml:"initializers"`
}

// Load reads YAML configuration from path (or $ARTICLES_RENDERER_CONFIG) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(apiOriginEnv); v != "" {
		c.API.Origin = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(concurrencyEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", concurrencyEnv, v)
		}
		c.Render.Concurrency = n
	}

	return nil
}

func mergeConfig(base, override Config) Config {
	if override.API.Origin != "" {
		base.API.Origin = override.API.Origin
	}
	if override.API.Timeout > 0 {
		base.API.Timeout = override.API.Timeout
	}
	if override.API.UserAgent != "" {
		base.API.UserAgent = override.API.UserAgent
	}
	if override.API.RequestsPerSecond > 0 {
		base.API.RequestsPerSecond = override.API.RequestsPerSecond
	}
	if override.API.Burst > 0 {
		base.API.Burst = override.API.Burst
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Render.Concurrency > 0 {
		base.Render.Concurrency = override.Render.Concurrency
	}
	if override.Render.DetailPath != "" {
		base.Render.DetailPath = override.Render.DetailPath
	}

	if len(override.Pages) > 0 {
		base.Pages = override.Pages
	}

	return base
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Origin:    "http://localhost:8000",
			Timeout:   15 * time.Second,
			UserAgent: "ArticlesRenderer/1.0",
			Burst:     1,
		},
		Logging: LoggingConfig{Level: "info"},
		Render: RenderConfig{
			Concurrency: 4,
			DetailPath:  defaultDetailPath,
		},
	}
}
