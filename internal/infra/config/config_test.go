package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, defaultConfig().Validate())
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
forecast:
  provider: kma
  days: 3
  kma:
    serviceKey: from-file
geocode:
  cacheTtl: 1h
`), 0o600))

	chdir(t, dir)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("KMA_SERVICE_KEY", "from-env")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderKMA, cfg.Forecast.Provider)
	require.Equal(t, 3, cfg.Forecast.Days)
	require.Equal(t, "from-env", cfg.Forecast.KMA.ServiceKey)
	require.Equal(t, time.Hour, cfg.Geocode.CacheTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, ":8080", cfg.HTTP.Address)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FORECAST_DAYS=5\n"), 0o600))
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("FORECAST_DAYS", "")
	require.NoError(t, os.Unsetenv("FORECAST_DAYS"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Forecast.Days)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown provider": func(c *Config) { c.Forecast.Provider = "darksky" },
		"too many days":    func(c *Config) { c.Forecast.Days = 30 },
		"short key":        func(c *Config) { c.Credentials.EncryptionKey = "abc" },
		"redis no addr":    func(c *Config) { c.Cache.Redis.Enabled = true },
		"geocode no agent": func(c *Config) { c.Geocode.UserAgent = " " },
		"bad rate limit":   func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
