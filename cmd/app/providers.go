package main

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/outfitcast/internal/domain/credential"
	"github.com/yanqian/outfitcast/internal/domain/outfit"
	"github.com/yanqian/outfitcast/internal/infra/config"
	"github.com/yanqian/outfitcast/internal/infra/credentialrepo"
	"github.com/yanqian/outfitcast/internal/infra/geocode/nominatim"
	"github.com/yanqian/outfitcast/internal/infra/placestore"
	"github.com/yanqian/outfitcast/internal/infra/upstream"
	"github.com/yanqian/outfitcast/internal/infra/weather/kma"
	"github.com/yanqian/outfitcast/internal/infra/weather/openmeteo"
)

func provideOutfitConfig(cfg *config.Config) outfit.Config {
	return outfit.Config{
		DefaultServiceKey: cfg.Forecast.KMA.ServiceKey,
		FallbackLocation:  cfg.Forecast.FallbackLocation,
	}
}

func provideBackoff(cfg *config.Config) upstream.BackoffConfig {
	return upstream.BackoffConfig{
		MaxRetries:      cfg.Forecast.Resilience.MaxRetries,
		InitialInterval: cfg.Forecast.Resilience.InitialBackoff,
		MaxInterval:     cfg.Forecast.Resilience.MaxBackoff,
	}
}

func provideForecastSource(cfg *config.Config, logger *slog.Logger) outfit.ForecastSource {
	client := upstream.NewClient(cfg.Forecast.Provider, cfg.Forecast.Timeout, provideBackoff(cfg), logger)
	if cfg.Forecast.Provider == config.ProviderKMA {
		logger.Info("forecast provider selected", "provider", config.ProviderKMA)
		return kma.NewClient(cfg.Forecast.KMA.BaseURL, client)
	}
	logger.Info("forecast provider selected", "provider", config.ProviderOpenMeteo)
	return openmeteo.NewClient(cfg.Forecast.OpenMeteo.BaseURL, cfg.Forecast.Days, client)
}

func providePlaceStore(cfg *config.Config, logger *slog.Logger) placestore.Store {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return placestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return placestore.NewMemoryStore()
		}
		return valkeyPlaceStore(client, cfg.Cache.Redis.Addr, logger)
	}
	return placestore.NewMemoryStore()
}

// pingValkey is replaced in tests.
var pingValkey = func(ctx context.Context, client valkey.Client) error {
	return client.Do(ctx, client.B().Ping().Build()).Error()
}

// valkeyPlaceStore takes ownership of client and closes it when the server
// does not answer.
func valkeyPlaceStore(client valkey.Client, addr string, logger *slog.Logger) placestore.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pingValkey(ctx, client); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return placestore.NewMemoryStore()
	}
	logger.Info("place valkey store enabled", "addr", addr)
	return placestore.NewValkeyStore(client, "place")
}

func providePlaceResolver(cfg *config.Config, store placestore.Store, logger *slog.Logger) outfit.PlaceResolver {
	if !cfg.Geocode.Enabled {
		logger.Info("reverse geocoding disabled, using fallback location")
		return noPlaces{}
	}
	client := upstream.NewClient("nominatim", cfg.Forecast.Timeout, provideBackoff(cfg), logger)
	geocoder := nominatim.NewClient(nominatim.Config{
		BaseURL:           cfg.Geocode.BaseURL,
		UserAgent:         cfg.Geocode.UserAgent,
		Language:          cfg.Geocode.Language,
		RequestsPerSecond: cfg.Geocode.RequestsPerSecond,
	}, client)
	return placestore.NewCachedResolver(geocoder, store, cfg.Geocode.CacheTTL, logger)
}

// noPlaces resolves nothing so the outfit service uses its fallback name.
type noPlaces struct{}

func (noPlaces) Resolve(context.Context, float64, float64) (string, error) { return "", nil }

func provideCredentialConfig(cfg *config.Config, logger *slog.Logger) (credential.Config, error) {
	key := cfg.Credentials.EncryptionKey
	if key == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return credential.Config{}, err
		}
		key = string(raw)
		logger.Warn("credentials.encryptionKey not set, stored keys will not survive a restart")
	}
	return credential.Config{EncryptionKey: key}, nil
}

func provideCredentialRepository(cfg *config.Config, logger *slog.Logger) credential.Repository {
	fallback := credentialrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Credentials.Postgres.DSN)
	if dsn == "" {
		logger.Info("credentials postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Credentials.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Credentials.Postgres.MaxConns
	}
	if cfg.Credentials.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Credentials.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("credentials postgres repository enabled")
	return credentialrepo.NewPostgresRepository(pool)
}

func provideKeyResolver(svc credential.Service) outfit.KeyResolver {
	return svc
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
