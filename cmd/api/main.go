package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantry-chef/internal/api"
	"pantry-chef/internal/core/app"
	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/core/event"
	"pantry-chef/internal/core/readmodel"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

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

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("catalog_url", cfg.Catalog.URL),
		zap.Bool("readmodel_enabled", cfg.ReadModel.Enabled),
	)

	// 載入目錄
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Catalog.Timeout)
	cat, err := catalog.Load(loadCtx, &cfg.Catalog)
	cancelLoad()
	if err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	// 初始化 Redis 二級快取（預設關閉）
	redisService, err := readmodel.NewRedisService(&cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisService.Close()

	// 組合核心：讀取模型、事件匯流排與應用服務
	store := readmodel.NewStore(&cfg.ReadModel, redisService)
	analytics := readmodel.NewAnalytics()
	bus := event.NewBus()
	readmodel.RegisterConsumers(bus, store, analytics)
	service := app.NewService(cfg, cat, bus, store, analytics)

	// 設置路由
	router, err := api.SetupRouter(cfg, service, cat, store)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

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
