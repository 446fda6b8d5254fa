// opportunity-service aggregates live job listings with a curated fallback
// catalogue and serves them, together with an application tracker, over HTTP.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"biocareer/opportunity-service/internal/cache"
	"biocareer/opportunity-service/internal/catalogue"
	"biocareer/opportunity-service/internal/config"
	"biocareer/opportunity-service/internal/feed"
	"biocareer/opportunity-service/internal/geo"
	"biocareer/opportunity-service/internal/httpserver"
	"biocareer/opportunity-service/internal/scraper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "opportunity-service",
	Short:         "Job opportunity aggregation and matching service",
	Version:       httpserver.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.AddCommand(serveCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}

// pipeline is the search stack shared by serve and search.
type pipeline struct {
	fetcher   *scraper.AdzunaFetcher
	catalogue *catalogue.Catalogue
	feed      *feed.Service
}

// newPipeline wires fetcher, geocoder, normalizer and fallback. geoCache may
// be nil.
func newPipeline(cfg *config.Config, geoCache cache.Cache, logger *zap.Logger) (*pipeline, error) {
	cat, err := catalogue.Load(cfg.CataloguePath)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.HTTPClientTimeout}
	fetcher := scraper.NewAdzunaFetcher(
		cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry,
		cfg.AdzunaBaseURL, cfg.AdzunaResultsPerPage, client, logger,
	)
	if !cfg.HasProviderCredentials() {
		logger.Info("provider credentials not set, serving the fallback catalogue only")
	}
	geocoder := geo.NewGeocoder(cfg.GeocoderBaseURL, client, geoCache, cfg.GeocodeCacheTTL, logger)
	normalizer := scraper.NewNormalizer(cfg.AdzunaCountry, scraper.RandomScorer)

	return &pipeline{
		fetcher:   fetcher,
		catalogue: cat,
		feed:      feed.NewService(fetcher, geocoder, normalizer, cat, logger),
	}, nil
}
