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

	"garden-assistant/internal/api"
	"garden-assistant/internal/api/handlers/health"
	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/ai/openrouter"
	"garden-assistant/internal/core/ai/provider"
	"garden-assistant/internal/core/ai/queue"
	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/core/profile"
	"garden-assistant/internal/infrastructure/config"
	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/infrastructure/store"
	"garden-assistant/internal/infrastructure/store/redisstore"
	"garden-assistant/internal/infrastructure/telemetry"
	"garden-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		// logger 尚未初始化時仍要讓錯誤出現在終端
		fmt.Fprintln(os.Stderr, err)
		common.LogFatal("Server exited with error", zap.Error(err))
	}
}

func run() error {
	// 載入設定（.env 可選）
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("profile_backend", cfg.Store.ProfileBackend),
		zap.Int("schema_version", cfg.Profile.SchemaVersion),
	)

	m, err := metrics.New(nil)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	reporter, err := telemetry.New(telemetry.Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.App.Version,
		SampleRate:  cfg.Sentry.SampleRate,
	})
	if err != nil {
		return err
	}
	defer reporter.Flush(2 * time.Second)

	// 關聯式資料庫：植物類型、植株，以及 gorm 後端的快取紀錄
	db, err := store.Open(store.Options{
		Driver:        cfg.Store.Driver,
		DSN:           cfg.Store.DSN,
		SlowThreshold: cfg.Store.SlowThreshold,
		Debug:         cfg.App.Debug,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	checks := map[string]health.Pinger{"database": db}
	profileStore, closeProfileStore, err := openProfileStore(cfg, db, checks)
	if err != nil {
		return err
	}
	defer closeProfileStore()

	// 生成器與隊列
	client := openrouter.NewClient(provider.Config{
		APIKey:      cfg.OpenRouter.APIKey,
		Model:       cfg.OpenRouter.Model,
		MaxTokens:   cfg.OpenRouter.MaxTokens,
		Temperature: cfg.OpenRouter.Temperature,
		Timeout:     cfg.OpenRouter.Timeout,
		BaseURL:     cfg.OpenRouter.BaseURL,
		Title:       cfg.App.Name,
	})
	defer client.Close()
	generator := openrouter.NewGenerator(client, m)

	q := queue.NewManager(queue.Options{
		Workers: cfg.Queue.Workers,
		MaxSize: cfg.Queue.MaxSize,
		Metrics: m,
	})
	defer q.Close()

	idCache := cache.NewIdentificationCache(cache.IdentificationOptions{
		TTL:             cfg.Cache.TTL,
		MaxSize:         cfg.Cache.MaxSize,
		CleanupInterval: cfg.Cache.CleanupInterval,
		Metrics:         m,
	})
	defer idCache.Close()

	profiles := profile.NewService(profile.Deps{
		Cache:     cache.NewProfileCache(profileStore, m),
		Types:     db,
		Generator: generator,
		Queue:     q,
		Reporter:  reporter,
	}, profile.Options{
		SchemaVersion:     cfg.Profile.SchemaVersion,
		SingleFlight:      cfg.Profile.SingleFlight,
		GenerationTimeout: cfg.Profile.GenerationTimeout,
	})

	router := api.SetupRouter(cfg, api.Services{
		Profiles:   profiles,
		Identifier: profile.NewIdentifier(idCache, generator, q),
		Resolver:   identity.NewResolver(db),
		Queue:      q,
		Metrics:    m,
		Checks:     checks,
		Reporter:   reporter,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	common.LogInfo("Server exited")
	return nil
}

// openProfileStore 依設定選擇快取紀錄的儲存後端
func openProfileStore(cfg *config.Config, db *store.Store, checks map[string]health.Pinger) (cache.RecordStore, func(), error) {
	switch cfg.Store.ProfileBackend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		checks["redis"] = rs
		return rs, func() { _ = rs.Close() }, nil
	case config.BackendMemory:
		common.LogWarn("快取紀錄使用記憶體後端，重啟後將遺失")
		return cache.NewMemoryStore(), func() {}, nil
	default:
		return db, func() {}, nil
	}
}
