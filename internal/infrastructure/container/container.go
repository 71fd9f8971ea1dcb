// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/alchemorsel/recipe-explorer/internal/application/dashboard"
	"github.com/alchemorsel/recipe-explorer/internal/application/discovery"
	"github.com/alchemorsel/recipe-explorer/internal/application/saved"
	"github.com/alchemorsel/recipe-explorer/internal/application/user"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/config"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/cocktaildb"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/httpx"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/mealdb"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/external/spoonacular"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/server"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/postgres"
	redisStore "github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/security"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/healthcheck"
	"github.com/alchemorsel/recipe-explorer/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPath is the optional config file location; empty searches the
// default paths.
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	StorageModule,
	UpstreamModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging. app.log_level is re-applied whenever the
// config file changes.
var LoggerModule = fx.Options(
	fx.Provide(
		func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
			return logger.NewWithLevel(logger.Config{
				Level:       cfg.App.LogLevel,
				Format:      cfg.App.LogFormat,
				Development: cfg.App.Debug,
			})
		},
	),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
	fx.Invoke(func(cfg *config.Config, level zap.AtomicLevel, log *zap.Logger) {
		cfg.WatchLogLevel(func(text string) {
			next := logger.ParseLevel(text)
			if next != level.Level() {
				level.SetLevel(next)
				log.Info("Log level changed", zap.String("level", next.String()))
			}
		})
	}),
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) outbound.DiscoveryMetrics { return m },
	func(m *monitoring.MetricsCollector) httpx.CallObserver { return m },
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    "recipe-explorer",
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
)

// StorageModule provides the user database and the saved-recipe store
var StorageModule = fx.Provide(
	NewDatabase,
	NewStorage,
	func(s *Storage) outbound.KeyValueStore { return s.KV },
	gormRepo.NewUserRepository,
)

// UpstreamModule provides the third-party API clients
var UpstreamModule = fx.Provide(
	func(cfg *config.Config, observer httpx.CallObserver, log *zap.Logger) *spoonacular.Client {
		return spoonacular.NewClient(upstreamConfig(cfg, cfg.Upstream.SpoonacularBaseURL), cfg.Upstream.SpoonacularAPIKey, observer, log)
	},
	func(c *spoonacular.Client) outbound.RecipeSearchClient { return c },
	func(c *spoonacular.Client) outbound.IngredientDetector { return c },
	fx.Annotate(
		func(cfg *config.Config, observer httpx.CallObserver, log *zap.Logger) *cocktaildb.Client {
			return cocktaildb.NewClient(upstreamConfig(cfg, cfg.Upstream.CocktailBaseURL), cfg.Upstream.RapidAPIKey, cfg.Upstream.CocktailHost, observer, log)
		},
		fx.As(new(outbound.DrinkClient)),
	),
	fx.Annotate(
		func(cfg *config.Config, observer httpx.CallObserver, log *zap.Logger) *mealdb.Client {
			return mealdb.NewClient(upstreamConfig(cfg, cfg.Upstream.MealDBBaseURL), cfg.Upstream.RapidAPIKey, cfg.Upstream.MealDBHost, observer, log)
		},
		fx.As(new(outbound.DessertClient)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *security.TokenService {
			return security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration, log)
		},
		fx.As(new(outbound.TokenService)),
	),
	func(repo outbound.UserRepository, tokens outbound.TokenService, cfg *config.Config, log *zap.Logger) inbound.UserService {
		return user.NewUserService(repo, tokens, cfg.Auth.BCryptCost, log)
	},
	func(
		search outbound.RecipeSearchClient,
		drinks outbound.DrinkClient,
		desserts outbound.DessertClient,
		metrics outbound.DiscoveryMetrics,
		_ *monitoring.TracingProvider,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.DiscoveryService {
		timeout := cfg.Discovery.FetchTimeout
		details := discovery.NewDetailFetcher(search, metrics, timeout, log)
		pairings := discovery.NewPairingFetcher(drinks, desserts, nil, metrics, timeout, log)
		return discovery.NewService(search, details, pairings, discovery.Options{
			CandidateLimit: cfg.Discovery.CandidateLimit,
			MaxConcurrency: cfg.Discovery.MaxConcurrency,
		}, metrics, log)
	},
	func(kv outbound.KeyValueStore, log *zap.Logger) inbound.SavedRecipeService {
		return saved.NewStore(kv, nil, log)
	},
	func(
		disc inbound.DiscoveryService,
		store inbound.SavedRecipeService,
		detector outbound.IngredientDetector,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.DashboardService {
		return dashboard.NewController(disc, store, detector, cfg.Dashboard.DisplayLimit, log)
	},
)

// HTTPModule provides health checks and the HTTP server
var HTTPModule = fx.Provide(
	NewHealthCheck,
	func(
		cfg *config.Config,
		log *zap.Logger,
		dash inbound.DashboardService,
		store inbound.SavedRecipeService,
		users inbound.UserService,
		tokens outbound.TokenService,
		health *healthcheck.HealthCheck,
		metrics *monitoring.MetricsCollector,
	) *server.Server {
		return server.NewServer(cfg, log, server.Dependencies{
			Dashboard: dash,
			Saved:     store,
			Users:     users,
			Tokens:    tokens,
			Health:    health,
			Metrics:   metrics,
		})
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

func upstreamConfig(cfg *config.Config, baseURL string) httpx.Config {
	return httpx.Config{
		BaseURL:           baseURL,
		Timeout:           cfg.Upstream.Timeout,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
	}
}

// NewDatabase opens the SQL database holding user accounts, and the
// key-value table when storage.backend is sqlite or postgres. The memory
// and redis backends keep users in a private in-memory SQLite database.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		db, err = postgres.Connect(cfg, log)
		if err == nil && cfg.Database.AutoMigrate {
			err = migrate(db, cfg.Database.Database, log)
		}
	case config.StorageSQLite:
		db, err = sqlite.SetupDatabase(cfg.Database.SQLitePath,
			gormRepo.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQuery))
	default:
		db, err = sqlite.SetupDatabase(sqlite.MemoryPath,
			gormRepo.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQuery))
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func migrate(db *gorm.DB, databaseName string, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	m, err := migrations.New(sqlDB, databaseName, log)
	if err != nil {
		return err
	}
	return m.Up()
}

// Storage is the selected saved-recipe backend. Redis is set only for the
// redis backend.
type Storage struct {
	Backend string
	KV      outbound.KeyValueStore
	Redis   redis.UniversalClient
}

// NewStorage builds the key-value store named by storage.backend
func NewStorage(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Storage, error) {
	s := &Storage{Backend: cfg.Storage.Backend}

	switch cfg.Storage.Backend {
	case config.StorageRedis:
		client, err := redisStore.NewClient(&cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		s.Redis = client
		s.KV = redisStore.NewKeyValueStore(client, cfg.Redis.KeyNamespace, log)
	case config.StoragePostgres, config.StorageSQLite:
		s.KV = gormRepo.NewKeyValueStore(db, log)
	default:
		s.KV = memory.NewKeyValueStore()
	}

	log.Info("Saved-recipe storage ready", zap.String("backend", s.Backend))
	return s, nil
}

// NewHealthCheck registers a check for every backing service in use
func NewHealthCheck(cfg *config.Config, db *gorm.DB, storage *Storage, log *zap.Logger) (*healthcheck.HealthCheck, error) {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.SetCacheTTL(cfg.Monitoring.HealthCacheTTL)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	hc.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

	if storage.Redis != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(storage.Redis))
	}

	if cfg.Upstream.SpoonacularAPIKey == "" {
		hc.Register("spoonacular", healthcheck.NewCustomChecker(func(context.Context) (healthcheck.Status, string, interface{}) {
			return healthcheck.StatusDegraded, "API key not configured", nil
		}))
	}
	return hc, nil
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	srv *server.Server,
	tracing *monitoring.TracingProvider,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Recipe Explorer",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("storage_backend", cfg.Storage.Backend),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Recipe Explorer")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown tracing", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
