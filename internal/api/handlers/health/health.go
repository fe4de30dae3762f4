package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Store     string                 `json:"store"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理程序，探測儲存層可用性
type Handler struct {
	store   recipe.Store
	version string
}

// NewHandler 創建健康檢查處理程序
func NewHandler(store recipe.Store, version string) *Handler {
	return &Handler{
		store:   store,
		version: version,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	storeStatus := "ok"
	status := http.StatusOK
	if err := h.store.Ping(c.Request.Context()); err != nil {
		common.LogError("Store ping failed", zap.Error(err))
		storeStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	// 構建響應
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Store:     storeStatus,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if storeStatus != "ok" {
		response.Status = "degraded"
	}

	c.JSON(status, response)
}

// ReadinessCheck 就緒檢查處理器，儲存層可達才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
