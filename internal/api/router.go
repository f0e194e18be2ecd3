package api

import (
	"context"
	"net/http"
	"time"

	"pantry-chef/internal/api/handlers/health"
	pantryHandler "pantry-chef/internal/api/handlers/pantry"
	"pantry-chef/internal/api/middleware"
	"pantry-chef/internal/core/app"
	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/core/readmodel"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，這個服務只收 JSON
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, service *app.Service, cat *catalog.Catalog, store *readmodel.Store) (*gin.Engine, error) {
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

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, cat, store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		h := pantryHandler.NewHandler(service)

		// 用戶與個人檔案
		api.POST("/users", middleware.Deduplication(time.Second), h.HandleCreateUser)
		users := api.Group("/users/:id")
		{
			users.GET("/profile", h.HandleGetProfile)
			users.PUT("/profile", h.HandleUpdateProfile)
			users.PUT("/appliances", h.HandleUpdateAppliances)

			// 儲藏室
			users.GET("/ingredients", h.HandleListIngredients)
			users.POST("/ingredients", h.HandleAddIngredient)
			users.DELETE("/ingredients/:iid", h.HandleRemoveIngredient)

			// 收藏
			users.GET("/favorites", h.HandleListFavorites)
			users.POST("/favorites", h.HandleAddFavorite)
			users.DELETE("/favorites/:rid", h.HandleRemoveFavorite)

			// 查詢
			users.GET("/recipes/search", h.HandleSearch)
			users.GET("/suggestions", h.HandleSuggestions)
			users.GET("/analytics", h.HandleUserAnalytics)
		}

		// 匿名查詢
		api.POST("/recipes/search", h.HandleAnonymousSearch)
		api.GET("/recipes/:id", h.HandleGetRecipe)
		api.GET("/substitutions/:ingredient", h.HandleSubstitutions)
		api.GET("/terms/:term", h.HandleTerm)
		api.GET("/analytics", h.HandleAnalytics)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("食材數", cat.IngredientCount()),
		zap.Int("食譜數", cat.RecipeCount()),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
