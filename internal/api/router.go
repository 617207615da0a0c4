package api

import (
	"context"
	"net/http"
	"time"

	"garden-assistant/internal/api/handlers/garden"
	"garden-assistant/internal/api/handlers/health"
	"garden-assistant/internal/api/middleware"
	"garden-assistant/internal/core/ai/queue"
	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/core/profile"
	"garden-assistant/internal/infrastructure/config"
	"garden-assistant/internal/infrastructure/metrics"
	"garden-assistant/internal/infrastructure/telemetry"
	"garden-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 預設請求超時
	defaultRequestTimeout = 120 * time.Second
	// 預設請求體大小限制 (1MB)
	defaultMaxBodySize = 1 << 20
)

// Services 路由使用的服務
type Services struct {
	Profiles   *profile.Service
	Identifier *profile.Identifier
	Resolver   *identity.Resolver
	Queue      *queue.Manager
	Metrics    *metrics.Metrics
	Checks     map[string]health.Pinger
	Reporter   telemetry.Reporter
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery(svc.Reporter))
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    common.ErrCodeRequestTimeout,
				Message: "Request timeout",
				Details: timeout.String(),
			})
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, svc.Queue, svc.Checks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if cfg.Metrics.Enabled && svc.Metrics != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(svc.Metrics.Handler()))
	}

	// API 路由組
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(middleware.Deduplication(cfg.DedupWindow))

	garden.NewHandler(garden.Options{
		Profiles:   svc.Profiles,
		Identifier: svc.Identifier,
		Resolver:   svc.Resolver,
		Debug:      cfg.App.Debug,
	}).Register(v1)

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	return router
}
