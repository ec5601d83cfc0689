package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/psn-tools/psnemu/internal/dependencies/clock"
	"github.com/psn-tools/psnemu/internal/dependencies/random"
	"github.com/psn-tools/psnemu/internal/metrics"
	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/services/account"
	"github.com/psn-tools/psnemu/internal/services/identity"
	"github.com/psn-tools/psnemu/internal/storage"
	"github.com/psn-tools/psnemu/internal/storage/memory"
	redisstorage "github.com/psn-tools/psnemu/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	IdentityService *identity.Service
	AccountService  *account.Service

	// Observability
	Metrics         *metrics.Collector
	MetricsRegistry *prometheus.Registry
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// IdentityConfig holds token lifetimes (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// ServiceName and Environment label metrics (optional)
	ServiceName string
	Environment string
}

// New creates a new application with all dependencies wired and the
// credential table seeded
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg, logger)

	if err := seedCredentials(store, clk); err != nil {
		return nil, err
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry, prometheus.Labels{
		"service":     orDefault(cfg.ServiceName, "psn-partner-emulator"),
		"environment": orDefault(cfg.Environment, "dev"),
	})

	identityService := identity.New(store, clk, rnd, cfg.IdentityConfig, logger)
	accountService := account.New(store, clk, rnd, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		IdentityService: identityService,
		AccountService:  accountService,
		Metrics:         collector,
		MetricsRegistry: registry,
	}
}

// seedCredentials loads the static demo credential table into storage
func seedCredentials(store storage.Storage, clk clock.Clock) error {
	ctx := context.Background()
	for _, cred := range model.SeedCredentials(clk.Now()) {
		if err := store.SaveCredential(ctx, cred); err != nil {
			return err
		}
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
