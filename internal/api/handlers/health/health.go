package health

import (
	"net/http"
	"runtime"
	"time"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/core/readmodel"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 健康檢查處理器
type Handler struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	store   *readmodel.Store
}

// NewHandler 建立健康檢查處理器
func NewHandler(cfg *config.Config, c *catalog.Catalog, store *readmodel.Store) *Handler {
	return &Handler{cfg: cfg, catalog: c, store: store}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime"`
	Catalog   map[string]any `json:"catalog"`
	Cache     map[string]any `json:"cache"`
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: map[string]any{
			"ingredients": h.catalog.IngredientCount(),
			"recipes":     h.catalog.RecipeCount(),
		},
		Cache: h.store.Stats(),
	}

	// 記錄請求
	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器；目錄沒有任何食譜視為未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.catalog.RecipeCount() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog is empty",
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
