package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Feed   FeedConfig
	Search SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FeedConfig holds catalog feed configuration
type FeedConfig struct {
	URL             string        `mapstructure:"url"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// SearchConfig holds search engine configuration
type SearchConfig struct {
	DefaultLimit   int    `mapstructure:"default_limit"`
	MaxLimit       int    `mapstructure:"max_limit"`
	BrandParam     string `mapstructure:"brand_param"`
	UserCountParam string `mapstructure:"user_count_param"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/septicstore/")

	// Environment variable settings
	v.SetEnvPrefix("SEPTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Feed defaults
	v.SetDefault("feed.url", "https://lenkanal.ru/bitrix/catalog_export/fid.xml")
	v.SetDefault("feed.fetch_timeout", "30s")
	v.SetDefault("feed.refresh_interval", "1h")

	// Search defaults
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 200)
	v.SetDefault("search.brand_param", "Brand")
	v.SetDefault("search.user_count_param", "User count")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Feed.URL == "" {
		return fmt.Errorf("feed URL is required (set SEPTIC_FEED_URL)")
	}
	if u, err := url.Parse(config.Feed.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("feed URL must be an absolute URL, got: %s", config.Feed.URL)
	}

	if config.Feed.FetchTimeout <= 0 {
		return fmt.Errorf("feed fetch timeout must be positive, got: %s", config.Feed.FetchTimeout)
	}

	if config.Feed.RefreshInterval < time.Minute {
		return fmt.Errorf("feed refresh interval must be at least 1m, got: %s", config.Feed.RefreshInterval)
	}

	if config.Search.MaxLimit > 0 && config.Search.DefaultLimit > config.Search.MaxLimit {
		return fmt.Errorf("search default limit %d exceeds max limit %d",
			config.Search.DefaultLimit, config.Search.MaxLimit)
	}

	return nil
}
