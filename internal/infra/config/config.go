package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Forecast providers selectable through forecast.provider.
const (
	ProviderOpenMeteo = "openmeteo"
	ProviderKMA       = "kma"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Forecast    ForecastConfig    `yaml:"forecast"`
	Geocode     GeocodeConfig     `yaml:"geocode"`
	Cache       CacheConfig       `yaml:"cache"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// ForecastConfig selects and tunes the upstream weather provider.
type ForecastConfig struct {
	Provider         string           `yaml:"provider"`
	Timeout          time.Duration    `yaml:"timeout"`
	Days             int              `yaml:"days"`
	FallbackLocation string           `yaml:"fallbackLocation"`
	OpenMeteo        OpenMeteoConfig  `yaml:"openMeteo"`
	KMA              KMAConfig        `yaml:"kma"`
	Resilience       ResilienceConfig `yaml:"resilience"`
}

// OpenMeteoConfig points at the Open-Meteo forecast endpoint.
type OpenMeteoConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// KMAConfig points at the KMA village forecast endpoint.
type KMAConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	ServiceKey string `yaml:"serviceKey"`
}

// ResilienceConfig drives retries against upstream APIs.
type ResilienceConfig struct {
	MaxRetries     int           `yaml:"maxRetries"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
}

// GeocodeConfig controls reverse geocoding through Nominatim.
type GeocodeConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BaseURL           string        `yaml:"baseUrl"`
	UserAgent         string        `yaml:"userAgent"`
	Language          string        `yaml:"language"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	CacheTTL          time.Duration `yaml:"cacheTtl"`
}

// CacheConfig groups shared cache backends.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// CredentialsConfig controls server-side storage of provider keys.
type CredentialsConfig struct {
	EncryptionKey string         `yaml:"encryptionKey"`
	Postgres      PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a .env file, a YAML file and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("FORECAST_PROVIDER"); v != "" {
		cfg.Forecast.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("FORECAST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.Timeout = parsed
		}
	}
	if v := os.Getenv("FORECAST_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.Days = parsed
		}
	}
	if v := os.Getenv("OPEN_METEO_BASE_URL"); v != "" {
		cfg.Forecast.OpenMeteo.BaseURL = v
	}
	if v := os.Getenv("KMA_BASE_URL"); v != "" {
		cfg.Forecast.KMA.BaseURL = v
	}
	if v := os.Getenv("KMA_SERVICE_KEY"); v != "" {
		cfg.Forecast.KMA.ServiceKey = v
	}
	if v := os.Getenv("FORECAST_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.Resilience.MaxRetries = parsed
		}
	}
	if v := os.Getenv("GEOCODE_ENABLED"); v != "" {
		cfg.Geocode.Enabled = parseBool(v)
	}
	if v := os.Getenv("GEOCODE_BASE_URL"); v != "" {
		cfg.Geocode.BaseURL = v
	}
	if v := os.Getenv("GEOCODE_USER_AGENT"); v != "" {
		cfg.Geocode.UserAgent = v
	}
	if v := os.Getenv("GEOCODE_LANGUAGE"); v != "" {
		cfg.Geocode.Language = v
	}
	if v := os.Getenv("GEOCODE_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Geocode.CacheTTL = parsed
		}
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("CREDENTIALS_ENCRYPTION_KEY"); v != "" {
		cfg.Credentials.EncryptionKey = v
	}
	if v := os.Getenv("CREDENTIALS_POSTGRES_DSN"); v != "" {
		cfg.Credentials.Postgres.DSN = v
	}
	if v := os.Getenv("CREDENTIALS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Credentials.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CREDENTIALS_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Credentials.Postgres.MinConns = int32(parsed)
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/healthz",
				},
			},
		},
		Forecast: ForecastConfig{
			Provider:         ProviderOpenMeteo,
			Timeout:          10 * time.Second,
			Days:             8,
			FallbackLocation: "My location",
			OpenMeteo: OpenMeteoConfig{
				BaseURL: "https://api.open-meteo.com/v1/forecast",
			},
			KMA: KMAConfig{
				BaseURL: "https://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getVilageFcst",
			},
			Resilience: ResilienceConfig{
				MaxRetries:     2,
				InitialBackoff: 200 * time.Millisecond,
				MaxBackoff:     2 * time.Second,
			},
		},
		Geocode: GeocodeConfig{
			Enabled:           true,
			BaseURL:           "https://nominatim.openstreetmap.org/reverse",
			UserAgent:         "outfitcast/1.0",
			Language:          "en",
			RequestsPerSecond: 1,
			CacheTTL:          24 * time.Hour,
		},
		Cache: CacheConfig{
			Redis: RedisConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		Credentials: CredentialsConfig{
			Postgres: PostgresConfig{
				DSN:      "",
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.Forecast.Provider {
	case ProviderOpenMeteo, ProviderKMA:
	default:
		return fmt.Errorf("forecast.provider must be %q or %q, got %q", ProviderOpenMeteo, ProviderKMA, c.Forecast.Provider)
	}
	if c.Forecast.Days < 1 || c.Forecast.Days > 16 {
		return errors.New("forecast.days must be between 1 and 16")
	}
	if c.Forecast.Timeout <= 0 {
		return errors.New("forecast.timeout must be positive")
	}
	if c.Forecast.Resilience.MaxRetries < 0 {
		return errors.New("forecast.resilience.maxRetries cannot be negative")
	}
	if c.Forecast.Resilience.InitialBackoff <= 0 {
		return errors.New("forecast.resilience.initialBackoff must be positive")
	}
	if c.Geocode.Enabled {
		if strings.TrimSpace(c.Geocode.UserAgent) == "" {
			return errors.New("geocode.userAgent cannot be empty")
		}
		if c.Geocode.RequestsPerSecond <= 0 {
			return errors.New("geocode.requestsPerSecond must be positive")
		}
		if c.Geocode.CacheTTL < 0 {
			return errors.New("geocode.cacheTtl cannot be negative")
		}
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if key := c.Credentials.EncryptionKey; key != "" && len(key) != 32 {
		return errors.New("credentials.encryptionKey must be exactly 32 bytes")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
