package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-registration/internal/api"
	"github.com/sanosuguru/go-event-registration/internal/api/handler"
	"github.com/sanosuguru/go-event-registration/internal/api/middleware"
	"github.com/sanosuguru/go-event-registration/internal/application"
	"github.com/sanosuguru/go-event-registration/internal/config"
	"github.com/sanosuguru/go-event-registration/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-registration/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-registration/internal/pkg/logger"
	"github.com/sanosuguru/go-event-registration/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-registration/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.App.Env)
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	healthChecks := []handler.HealthCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
	}

	// Redis は任意。無効または接続できない場合はロックとキャッシュなしで起動する
	var (
		lockManager redisinfra.LockManagerInterface
		countCache  redisinfra.CountCacheInterface
	)
	if cfg.Redis.Enabled {
		rc := redisinfra.NewClient(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisinfra.Ping(ctx, rc)
		cancel()
		if err != nil {
			logger.Warn("Redis に接続できないためキャッシュとロックを無効化します", zap.Error(err))
			_ = rc.Close()
		} else {
			defer rc.Close()
			lockManager = redisinfra.NewLockManager(rc)
			countCache = redisinfra.NewCountCache(rc)
			healthChecks = append(healthChecks, handler.HealthCheck{
				Name:  "redis",
				Check: func(ctx context.Context) error { return redisinfra.Ping(ctx, rc) },
			})
			logger.Info("Redis 接続完了", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// リポジトリ
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	txManager := postgres.NewTxManager(db)

	// サービス
	eventService := application.NewEventService(eventRepo, registrationRepo, countCache)
	registrationService := application.NewRegistrationService(txManager, eventRepo, registrationRepo, lockManager, countCache)

	// Echo インスタンス作成
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e, m)

	limiter := middleware.NewRateLimiter(middleware.LimiterConfig{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})

	handler.RegisterRoutes(e, handler.Handlers{
		Event:        handler.NewEventHandler(eventService),
		Registration: handler.NewRegistrationHandler(registrationService),
		Health:       handler.NewHealthHandler(healthChecks...),
	}, limiter.Middleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	// バックグラウンドワーカー
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	reporter := worker.NewStatsReporter(eventService, registrationService, m, cfg.Worker.StatsReportInterval)
	go reporter.Start(workerCtx)

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバー起動", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	reporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
