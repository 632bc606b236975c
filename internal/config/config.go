// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Places    ProviderConfig  `yaml:"places" mapstructure:"places"`
	Yelp      ProviderConfig  `yaml:"yelp" mapstructure:"yelp"`
	Serp      ProviderConfig  `yaml:"serp" mapstructure:"serp"`
	Hunter    ProviderConfig  `yaml:"hunter" mapstructure:"hunter"`
	Snov      SnovConfig      `yaml:"snov" mapstructure:"snov"`
	OpenCorp  ProviderConfig  `yaml:"opencorp" mapstructure:"opencorp"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Waterfall WaterfallConfig `yaml:"waterfall" mapstructure:"waterfall"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the enrichment cache backend.
type CacheConfig struct {
	// Backend is memory, sqlite, or postgres.
	Backend     string `yaml:"backend" mapstructure:"backend"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ProviderConfig holds one upstream API's credentials and rate settings.
type ProviderConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Rate    float64 `yaml:"rate" mapstructure:"rate"` // requests per second
	Burst   int     `yaml:"burst" mapstructure:"burst"`
}

// SnovConfig holds OAuth client credentials for the Snov API.
type SnovConfig struct {
	ClientID     string  `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string  `yaml:"client_secret" mapstructure:"client_secret"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	Rate         float64 `yaml:"rate" mapstructure:"rate"`
	Burst        int     `yaml:"burst" mapstructure:"burst"`
}

// DiscoveryConfig configures the anchor-discovery stage.
type DiscoveryConfig struct {
	PageLimit int `yaml:"page_limit" mapstructure:"page_limit"`
}

// WaterfallConfig points at an optional waterfall-order override file.
type WaterfallConfig struct {
	ConfigPath string `yaml:"config_path" mapstructure:"config_path"`
}

// FetchConfig configures the shared page fetcher.
type FetchConfig struct {
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	HostRate    float64 `yaml:"host_rate" mapstructure:"host_rate"`
	HostBurst   int     `yaml:"host_burst" mapstructure:"host_burst"`
}

// EnrichConfig configures batch processing.
type EnrichConfig struct {
	Workers          int `yaml:"workers" mapstructure:"workers"`
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.path", "enrich-cache.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("enrich.workers", 4)
	v.SetDefault("enrich.failure_threshold", 5)
	v.SetDefault("discovery.page_limit", 2)
	v.SetDefault("fetch.user_agent", "enrich-cli/1.0 (contact enrichment)")
	v.SetDefault("fetch.timeout_secs", 20)
	v.SetDefault("fetch.host_rate", 2)
	v.SetDefault("fetch.host_burst", 2)
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.rate", 10)
	v.SetDefault("places.burst", 5)
	v.SetDefault("yelp.base_url", "https://api.yelp.com/v3")
	v.SetDefault("yelp.rate", 4)
	v.SetDefault("yelp.burst", 2)
	v.SetDefault("serp.base_url", "https://serpapi.com")
	v.SetDefault("serp.rate", 1)
	v.SetDefault("serp.burst", 1)
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("hunter.rate", 1)
	v.SetDefault("hunter.burst", 1)
	v.SetDefault("snov.base_url", "https://api.snov.io")
	v.SetDefault("snov.rate", 1)
	v.SetDefault("snov.burst", 1)
	v.SetDefault("opencorp.base_url", "https://api.opencorporates.com/v0.4")
	v.SetDefault("opencorp.rate", 1)
	v.SetDefault("opencorp.burst", 1)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given run mode. Modes: enrich
// (batch CLI), serve (webhook server), classify (offline, no credentials).
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "classify":
		// Offline mode needs nothing external.
	case "enrich", "serve":
		check(c.Places.Key != "", "places.key is required")
		check(c.Enrich.Workers >= 1 && c.Enrich.Workers <= 32, "enrich.workers must be between 1 and 32")
		switch c.Cache.Backend {
		case "memory":
		case "sqlite":
			check(c.Cache.Path != "", "cache.path is required for the sqlite backend")
		case "postgres":
			check(c.Cache.DatabaseURL != "", "cache.database_url is required for the postgres backend")
		default:
			problems = append(problems, "cache.backend must be memory, sqlite, or postgres")
		}
		if mode == "serve" {
			check(c.Server.Port > 0, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
