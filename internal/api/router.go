package api

import (
	"time"

	healthHandler "recipe-box/internal/api/handlers/health"
	recipeHandler "recipe-box/internal/api/handlers/recipe"
	"recipe-box/internal/api/middleware"
	recipeService "recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store recipeService.Store, rdb *redis.Client) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置（前端直接打 API，全開）
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// POST 去重
	if cfg.DedupWindow > 0 {
		router.Use(middleware.Deduplication(cfg, rdb))
	}

	// 初始化服務與處理程序
	service := recipeService.NewService(store)
	recipes := recipeHandler.NewHandler(service)
	health := healthHandler.NewHandler(store, cfg.App.Version)

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// 食譜路由
	recipeGroup := router.Group("/recipes")
	{
		recipeGroup.POST("", recipes.HandleCreate)
		recipeGroup.GET("", recipes.HandleFind)
		recipeGroup.GET("/best/:days", recipes.HandleBest)
		recipeGroup.GET("/:id", recipes.HandleRetrieve)
		recipeGroup.POST("/:id/ratings", recipes.HandleRate)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("dedup_redis", rdb != nil),
		zap.Int64("max_body_size", cfg.Server.MaxBodySize),
	)

	return router
}
