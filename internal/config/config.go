// Package config loads and validates runtime configuration at startup.
// Fail-fast: a malformed value makes Load return an error and the process exits.
// Missing provider credentials are not an error: the service runs offline and
// serves the fallback catalogue.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the opportunity service.
// It is read once and never changes for the lifetime of the process.
type Config struct {
	Port     string `mapstructure:"opportunity_port"`
	GRPCPort string `mapstructure:"grpc_port"`

	AdzunaAppID          string `mapstructure:"adzuna_app_id"`
	AdzunaAppKey         string `mapstructure:"adzuna_app_key"`
	AdzunaCountry        string `mapstructure:"adzuna_country"` // e.g. "gb", "us", "fr"
	AdzunaBaseURL        string `mapstructure:"adzuna_base_url"`
	AdzunaResultsPerPage int    `mapstructure:"adzuna_results_per_page"`

	GeocoderBaseURL string        `mapstructure:"geocoder_base_url"`
	GeocodeCacheTTL time.Duration `mapstructure:"geocode_cache_ttl"`

	HTTPClientTimeout time.Duration `mapstructure:"http_client_timeout"`

	RedisURL    string `mapstructure:"redis_url"`
	DatabaseURL string `mapstructure:"database_url"`

	ProviderProbeSpec string `mapstructure:"provider_probe_spec"`
	CataloguePath     string `mapstructure:"catalogue_path"`
	ProfilePath       string `mapstructure:"profile_path"`
	LogLevel          string `mapstructure:"log_level"`

	// Comma-separated; "*" allows any origin.
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

var keys = []string{
	"opportunity_port", "grpc_port",
	"adzuna_app_id", "adzuna_app_key", "adzuna_country", "adzuna_base_url", "adzuna_results_per_page",
	"geocoder_base_url", "geocode_cache_ttl",
	"http_client_timeout",
	"redis_url", "database_url",
	"provider_probe_spec", "catalogue_path", "profile_path", "log_level",
	"cors_allowed_origins",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("opportunity_port", "8080")
	v.SetDefault("grpc_port", "9090")
	v.SetDefault("adzuna_app_id", "")
	v.SetDefault("adzuna_app_key", "")
	v.SetDefault("adzuna_country", "gb")
	v.SetDefault("adzuna_base_url", "https://api.adzuna.com/v1/api/jobs")
	v.SetDefault("adzuna_results_per_page", 20)
	v.SetDefault("geocoder_base_url", "https://api.postcodes.io")
	v.SetDefault("geocode_cache_ttl", time.Hour)
	v.SetDefault("http_client_timeout", 15*time.Second)
	v.SetDefault("redis_url", "")
	v.SetDefault("database_url", "")
	v.SetDefault("provider_probe_spec", "@every 30m")
	v.SetDefault("catalogue_path", "")
	v.SetDefault("profile_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "*")
}

// Load reads an optional .env file, then environment variables, then the
// optional YAML file at path. Environment variables win over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about; bind them
	// explicitly so Unmarshal sees environment overrides.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("OPPORTUNITY_PORT must not be empty")
	}
	if c.AdzunaCountry == "" {
		return fmt.Errorf("ADZUNA_COUNTRY must not be empty")
	}
	if c.AdzunaResultsPerPage < 1 {
		return fmt.Errorf("ADZUNA_RESULTS_PER_PAGE must be a positive integer, got %d", c.AdzunaResultsPerPage)
	}
	if c.HTTPClientTimeout <= 0 {
		return fmt.Errorf("HTTP_CLIENT_TIMEOUT must be positive, got %s", c.HTTPClientTimeout)
	}
	if c.GeocodeCacheTTL <= 0 {
		return fmt.Errorf("GEOCODE_CACHE_TTL must be positive, got %s", c.GeocodeCacheTTL)
	}
	if _, err := cron.ParseStandard(c.ProviderProbeSpec); err != nil {
		return fmt.Errorf("PROVIDER_PROBE_SPEC %q: %w", c.ProviderProbeSpec, err)
	}
	return nil
}

// HasProviderCredentials reports whether live search is enabled.
func (c *Config) HasProviderCredentials() bool {
	return c.AdzunaAppID != "" && c.AdzunaAppKey != ""
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blank entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
