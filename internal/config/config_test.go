package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biocareer/opportunity-service/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gb", cfg.AdzunaCountry)
	assert.Equal(t, 20, cfg.AdzunaResultsPerPage)
	assert.Equal(t, time.Hour, cfg.GeocodeCacheTTL)
	assert.Equal(t, 15*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, "@every 30m", cfg.ProviderProbeSpec)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.False(t, cfg.HasProviderCredentials())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADZUNA_COUNTRY", "us")
	t.Setenv("ADZUNA_APP_ID", "id")
	t.Setenv("ADZUNA_APP_KEY", "key")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "us", cfg.AdzunaCountry)
	assert.Equal(t, 3*time.Second, cfg.HTTPClientTimeout)
	assert.True(t, cfg.HasProviderCredentials())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "opportunity_port: \"9000\"\ncors_allowed_origins: \"http://a.test, ,http://b.test\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("adzuna_country: fr\n"), 0o600))
	t.Setenv("ADZUNA_COUNTRY", "de")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.AdzunaCountry)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"ADZUNA_RESULTS_PER_PAGE": "0",
		"HTTP_CLIENT_TIMEOUT":     "-1s",
		"GEOCODE_CACHE_TTL":       "0s",
		"PROVIDER_PROBE_SPEC":     "sometimes",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load("")
			assert.Error(t, err)
		})
	}
}
