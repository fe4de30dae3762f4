package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"
)

var (
	// 請求緩存，用於去重（未設定 Redis 時的行程內後備）
	requestCache = struct {
		sync.RWMutex
		requests map[string]time.Time
	}{
		requests: make(map[string]time.Time),
	}

	// 啟動自動清理 goroutine（只啟動一次）
	cleanupOnce sync.Once
)

// 啟動自動清理 goroutine
func startDeduplicationCleanup(cfg *config.Config) {
	cleanupOnce.Do(func() {
		interval := 10 * time.Minute
		window := 1 * time.Second
		if cfg != nil && cfg.DedupWindow > 0 {
			window = cfg.DedupWindow
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				now := time.Now()
				requestCache.Lock()
				for k, t := range requestCache.requests {
					if now.Sub(t) > 10*window {
						delete(requestCache.requests, k)
					}
				}
				requestCache.Unlock()
			}
		}()
	})
}

// Deduplication 請求去重中間件。同一指紋（方法＋路徑＋請求體哈希）的
// POST 在去重視窗內只放行一次。有 rdb 時以 Redis SETNX 判斷，
// 多副本部署下共用一份視窗；否則退回行程內的 map。
func Deduplication(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	if rdb == nil {
		startDeduplicationCleanup(cfg)
	}
	return func(c *gin.Context) {
		dedupWindow := 1 * time.Second
		if cfg != nil && cfg.DedupWindow > 0 {
			dedupWindow = cfg.DedupWindow
		}

		// 只處理 POST 請求
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			// 讀取請求體
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			// 計算哈希
			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		if rdb != nil {
			// SETNX 帶視窗 TTL：設定失敗代表視窗內已見過同一請求
			ok, err := rdb.SetNX(c.Request.Context(), "dedup:"+fingerprint, 1, dedupWindow).Result()
			if err != nil {
				// Redis 失效時放行，不因去重把正常流量擋下
				common.LogWarn("Dedup store unavailable", zap.Error(err))
				c.Next()
				return
			}
			if !ok {
				rejectDuplicate(c)
				return
			}
			c.Next()
			return
		}

		// 檢查是否是重複請求
		now := time.Now()
		requestCache.RLock()
		if lastTime, exists := requestCache.requests[fingerprint]; exists {
			if now.Sub(lastTime) <= dedupWindow {
				requestCache.RUnlock()
				rejectDuplicate(c)
				return
			}
		}
		requestCache.RUnlock()

		// 記錄請求
		requestCache.Lock()
		requestCache.requests[fingerprint] = now
		requestCache.Unlock()

		c.Next()
	}
}

func rejectDuplicate(c *gin.Context) {
	c.JSON(429, gin.H{
		"error": "Request too frequent",
		"code":  common.ErrCodeTooManyRequests,
	})
	c.Abort()
}
