package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-box/internal/api"
	"recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/infrastructure/memory"
	"recipe-box/internal/infrastructure/mongodb"
	"recipe-box/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 初始化儲存層：有 Mongo URI 走文件庫，否則用行程內記憶體儲存
	var store recipe.Store
	if cfg.Mongo.URI != "" {
		mongoStore, err := mongodb.New(context.Background(), cfg.Mongo)
		if err != nil {
			common.LogFatal("Failed to initialize mongo store", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
			defer cancel()
			if err := mongoStore.Close(ctx); err != nil {
				common.LogError("Failed to close mongo store", zap.Error(err))
			}
		}()
		store = mongoStore
	} else {
		common.LogWarn("MONGO_URI 未設定，改用記憶體儲存（資料不落地）")
		store = memory.New()
	}

	// 初始化去重用的 Redis（可選）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			common.LogFatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	// 設置路由
	router := api.SetupRouter(cfg, store, rdb)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
