package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-coworking-reservation/internal/api"
	"github.com/sanosuguru/go-coworking-reservation/internal/api/handler"
	"github.com/sanosuguru/go-coworking-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-coworking-reservation/internal/api/router"
	"github.com/sanosuguru/go-coworking-reservation/internal/application"
	"github.com/sanosuguru/go-coworking-reservation/internal/config"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-coworking-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-coworking-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-coworking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-coworking-reservation/internal/worker"
)

// @title Coworking Reservation API
// @version 1.0
// @description コワーキングスペースのエリア予約API
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		logger.Error("サーバーが異常終了しました", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// storage は選択したストレージ実装一式
type storage struct {
	txManager    transaction.Manager
	spaces       coworking.Repository
	areas        area.Repository
	reservations reservation.Repository
	health       []handler.HealthCheck
	close        func()
}

func run() error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定が不正です: %w", err)
	}

	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)
	m := metrics.Init()

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.close()

	var (
		lockManager redisinfra.LockManagerInterface
		cache       application.AvailabilityCache
		redisClient *goredis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(&redisinfra.Config{
			URL:      cfg.Redis.URL,
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		lockManager = redisinfra.NewLockManager(redisClient)
		store.health = append(store.health, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) },
		})
		logger.Info("Redis接続成功", zap.String("addr", cfg.Redis.Addr()))
	}

	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		cache = redisinfra.NewAvailabilityCache(redisClient, cfg.Cache.TTL)
	case config.CacheDriverMemory:
		cache = memory.NewAvailabilityCache(cfg.Cache.TTL)
	}

	catalog := application.NewAreaCatalog(store.spaces, store.areas)
	availabilityService := application.NewAvailabilityService(catalog, store.reservations, clk, cache, m)
	spaceService := application.NewSpaceService(store.spaces, clk)
	areaService := application.NewAreaService(store.txManager, store.spaces, store.areas, application.NewCapacityValidator(store.areas), clk)
	reservationService := application.NewReservationService(store.txManager, store.reservations, store.spaces, availabilityService, lockManager, clk, m)

	sweeper := worker.NewExpirationSweeper(reservationService, cfg.Sweeper.Interval,
		worker.WithRunOnStart(cfg.Sweeper.RunOnStart),
		worker.WithRunTimeout(cfg.Sweeper.Timeout),
		worker.WithMetrics(m),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	router.Register(e, router.Handlers{
		Reservation:  handler.NewReservationHandler(reservationService),
		Availability: handler.NewAvailabilityHandler(availabilityService),
		Space:        handler.NewSpaceHandler(spaceService),
		Area:         handler.NewAreaHandler(areaService),
		Admin:        handler.NewAdminHandler(spaceService, reservationService),
		Health:       handler.NewHealthHandler(store.health...),
	}, router.Options{
		RateLimit:  cfg.RateLimit,
		Admin:      cfg.Admin,
		Metrics:    cfg.Metrics,
		Collectors: m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Server.Port
		logger.Info("サーバー起動", zap.String("addr", addr), zap.String("storage", cfg.Database.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("サーバー起動エラー: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sweeper.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("サーバーをシャットダウンしています...")
		sweeper.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
		}
		logger.Info("サーバーが正常にシャットダウンしました")
		return nil
	})

	return g.Wait()
}

func openStorage(cfg *config.Config) (*storage, error) {
	switch cfg.Database.Driver {
	case config.StorageDriverMemory:
		logger.Warn("インメモリストレージで起動します。再起動するとデータは失われます")
		s := memory.NewStore()
		return &storage{
			txManager:    s,
			spaces:       memory.NewSpaceRepository(s),
			areas:        memory.NewAreaRepository(s),
			reservations: memory.NewReservationRepository(s),
			close:        func() {},
		}, nil
	default:
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("データベース接続成功", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))
		return &storage{
			txManager:    postgres.NewTxManager(db),
			spaces:       postgres.NewSpaceRepository(db),
			areas:        postgres.NewAreaRepository(db),
			reservations: postgres.NewReservationRepository(db),
			health:       []handler.HealthCheck{dbHealthCheck(db)},
			close:        func() { _ = db.Close() },
		}, nil
	}
}

func dbHealthCheck(db *sqlx.DB) handler.HealthCheck {
	return handler.HealthCheck{
		Name:  "database",
		Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}
}
