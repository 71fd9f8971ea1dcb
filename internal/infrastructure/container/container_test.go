package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/config"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/server"
	gormRepo "github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/memory"
	redisStore "github.com/alchemorsel/recipe-explorer/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/pkg/healthcheck"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "Recipe Explorer", Version: "test"},
		Storage: config.StorageConfig{Backend: backend},
		Database: config.DatabaseConfig{
			SQLitePath: ":memory:",
			LogLevel:   "silent",
		},
		Redis: config.RedisConfig{KeyNamespace: "test:"},
	}
}

func openDatabase(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	lc := fxtest.NewLifecycle(t)
	db, err := NewDatabase(lc, cfg, zap.NewNop())
	require.NoError(t, err)
	lc.RequireStart()
	t.Cleanup(lc.RequireStop)
	return db
}

func TestNewStorage_Backends(t *testing.T) {
	tests := []struct {
		backend string
		check   func(t *testing.T, s *Storage)
	}{
		{config.StorageMemory, func(t *testing.T, s *Storage) {
			assert.IsType(t, &memory.KeyValueStore{}, s.KV)
			assert.Nil(t, s.Redis)
		}},
		{config.StorageSQLite, func(t *testing.T, s *Storage) {
			assert.IsType(t, &gormRepo.KeyValueStore{}, s.KV)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := testConfig(tt.backend)
			db := openDatabase(t, cfg)

			s, err := NewStorage(fxtest.NewLifecycle(t), cfg, db, zap.NewNop())

			require.NoError(t, err)
			assert.Equal(t, tt.backend, s.Backend)
			tt.check(t, s)
		})
	}
}

func TestNewStorage_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StorageRedis)
	cfg.Redis.Host = mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Redis.Port = port

	lc := fxtest.NewLifecycle(t)
	s, err := NewStorage(lc, cfg, openDatabase(t, cfg), zap.NewNop())
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	assert.IsType(t, &redisStore.KeyValueStore{}, s.KV)
	require.NotNil(t, s.Redis)

	ctx := context.Background()
	require.NoError(t, s.KV.Set(ctx, "k", "v"))
	assert.True(t, mr.Exists("test:k"))

	hc, err := NewHealthCheck(cfg, openDatabase(t, cfg), s, zap.NewNop())
	require.NoError(t, err)
	report := hc.Check(ctx)
	require.Len(t, report.Checks, 3)
	assert.Equal(t, "database", report.Checks[0].Name)
	assert.Equal(t, "redis", report.Checks[1].Name)
	assert.Equal(t, "spoonacular", report.Checks[2].Name)
}

func TestNewHealthCheck_CacheTTL(t *testing.T) {
	tests := []struct {
		name        string
		ttl         time.Duration
		wantRedisUp bool
	}{
		{"cached report survives outage", time.Hour, true},
		{"zero ttl rechecks", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr := miniredis.RunT(t)
			cfg := testConfig(config.StorageRedis)
			cfg.Redis.Host = mr.Host()
			port, err := strconv.Atoi(mr.Port())
			require.NoError(t, err)
			cfg.Redis.Port = port
			cfg.Monitoring.HealthCacheTTL = tt.ttl

			db := openDatabase(t, cfg)
			lc := fxtest.NewLifecycle(t)
			s, err := NewStorage(lc, cfg, db, zap.NewNop())
			require.NoError(t, err)
			lc.RequireStart()
			defer lc.RequireStop()

			hc, err := NewHealthCheck(cfg, db, s, zap.NewNop())
			require.NoError(t, err)
			ctx := context.Background()
			require.Equal(t, healthcheck.StatusHealthy, hc.Check(ctx).Checks[1].Status)

			mr.Close()
			got := hc.Check(ctx).Checks[1].Status
			assert.Equal(t, tt.wantRedisUp, got == healthcheck.StatusHealthy)
		})
	}
}

func TestModule_BuildsApplication(t *testing.T) {
	t.Setenv("EXPLORER_SERVER_PORT", "18473")
	t.Setenv("EXPLORER_APP_LOG_LEVEL", "error")

	var (
		srv       *server.Server
		dashboard inbound.DashboardService
	)
	app := fxtest.New(t,
		Module,
		fx.Supply(ConfigPath("")),
		fx.Populate(&srv, &dashboard),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, dashboard)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEqual(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database"`)
}
