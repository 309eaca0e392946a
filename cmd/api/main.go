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

	"ingredient-recipe/internal/api"
	"ingredient-recipe/internal/core/ai/chat"
	"ingredient-recipe/internal/core/image"
	"ingredient-recipe/internal/core/recipe"
	"ingredient-recipe/internal/infrastructure/config"
	"ingredient-recipe/internal/infrastructure/store"
	"ingredient-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogMode, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("text_backend", cfg.TextBackend.Name),
		zap.String("text_api_key", config.MaskAPIKey(cfg.TextBackend.APIKey)),
		zap.String("text_model", cfg.TextBackend.Model),
		zap.String("vision_backend", cfg.VisionBackend.Name),
		zap.String("vision_api_key", config.MaskAPIKey(cfg.VisionBackend.APIKey)),
		zap.String("vision_model", cfg.VisionBackend.Model),
		zap.String("store_driver", cfg.Store.Driver),
	)

	// 初始化儲存
	st, err := store.NewFromConfig(context.Background(), cfg.Store)
	if err != nil {
		common.LogFatal("Failed to initialize recipe store", zap.Error(err))
	}
	defer st.Close()

	// 初始化模型後端
	textBackend := chat.NewClient(cfg.TextBackend)
	defer textBackend.Close()
	visionBackend := chat.NewClient(cfg.VisionBackend)
	defer visionBackend.Close()

	generator := recipe.NewGenerator(textBackend, recipe.WithStrictSchema(cfg.Recipe.StrictSchema))
	detector := recipe.NewDetector(visionBackend, generator, cfg.Image.DefaultMIMEType)

	// 設置路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Generator: generator,
		Detector:  detector,
		Images:    image.NewService(cfg.Image.MaxSizeBytes),
		Store:     st,
		Backends: map[string]string{
			textBackend.Name():   textBackend.GetModel(),
			visionBackend.Name(): visionBackend.GetModel(),
		},
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	case <-quit:
	}

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
