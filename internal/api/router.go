package api

import (
	"time"

	"ingredient-recipe/internal/api/handlers/dashboard"
	"ingredient-recipe/internal/api/handlers/health"
	recipeHandler "ingredient-recipe/internal/api/handlers/recipe"
	"ingredient-recipe/internal/api/middleware"
	"ingredient-recipe/internal/core/image"
	recipeService "ingredient-recipe/internal/core/recipe"
	"ingredient-recipe/internal/infrastructure/config"
	"ingredient-recipe/internal/infrastructure/store"
	"ingredient-recipe/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Generator recipeService.RecipeGenerator
	Detector  recipeHandler.Detector
	Images    *image.Service
	Store     store.Store
	// Backends 後端名稱對應模型，顯示於 /health
	Backends map[string]string
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Backends, deps.Store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	recipes := recipeHandler.NewHandler(deps.Generator, deps.Detector, deps.Images, deps.Store)
	dash := dashboard.NewHandler(deps.Store)

	// 舊版路徑
	router.POST("/generate-recipe", recipes.HandleGenerate)
	router.POST("/generate-recipe-from-image", recipes.HandleGenerateFromImage)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/generate", recipes.HandleGenerate)
			recipeGroup.POST("/generate-from-image", recipes.HandleGenerateFromImage)

			recipeGroup.GET("", dash.ListRecipes)
			recipeGroup.GET("/:id", dash.GetRecipe)
			recipeGroup.DELETE("/:id", dash.DeleteRecipe)
		}

		api.GET("/dashboard/stats", dash.Stats)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Bool("strict_schema", cfg.Recipe.StrictSchema),
	)

	return router
}
