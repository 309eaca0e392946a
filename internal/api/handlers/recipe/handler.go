package recipe

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ingredient-recipe/internal/core/image"
	recipeService "ingredient-recipe/internal/core/recipe"
	"ingredient-recipe/internal/infrastructure/store"
	"ingredient-recipe/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest 文字食材生成食譜
type GenerateRequest struct {
	Ingredients []string `json:"ingredients"`
}

// GenerateFromImageRequest 圖片生成食譜
type GenerateFromImageRequest struct {
	Image    string `json:"image"`
	MIMEType string `json:"mimeType,omitempty"`
}

// Detector 圖片食材辨識並生成食譜
type Detector interface {
	DetectAndGenerate(ctx context.Context, imageData, mimeType string) (*recipeService.DetectionResult, error)
}

// Handler 食譜處理程序
type Handler struct {
	generator recipeService.RecipeGenerator
	detector  Detector
	images    *image.Service
	store     store.Store
}

// NewHandler 創建新的食譜處理程序
func NewHandler(generator recipeService.RecipeGenerator, detector Detector, images *image.Service, st store.Store) *Handler {
	return &Handler{
		generator: generator,
		detector:  detector,
		images:    images,
		store:     st,
	}
}

// HandleGenerate 由食材清單生成食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Ingredients) == 0 {
		common.LogWarn("請求缺少食材",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredients required"})
		return
	}

	parsed := recipeService.Normalize(req.Ingredients)
	if err := recipeService.RequireIngredients(parsed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredients required", "details": err.Error()})
		return
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.Strings("ingredients", parsed),
	)

	r, err := h.generator.Generate(c.Request.Context(), parsed)
	if err != nil {
		common.LogError("食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		respondCoreError(c, err, "AI generation failed")
		return
	}

	record := &store.Record{
		InputType:         store.InputText,
		RawIngredients:    req.Ingredients,
		ParsedIngredients: parsed,
		Recipe:            *r,
	}
	if err := h.store.Save(c.Request.Context(), record); err != nil {
		common.LogError("食譜儲存失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI generation failed", "details": err.Error()})
		return
	}

	common.LogInfo("食譜生成完成",
		zap.String("request_id", requestID),
		zap.String("id", record.ID),
		zap.String("recipe_name", r.Name),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      record.ID,
		"recipe":  r,
	})
}

// HandleGenerateFromImage 由圖片辨識食材並生成食譜
func (h *Handler) HandleGenerateFromImage(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateFromImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Image) == "" {
		common.LogWarn("請求缺少圖片",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image required"})
		return
	}

	info, err := h.images.Validate(req.Image)
	if err != nil {
		code := common.ErrCodeInvalidRequest
		if ce, ok := common.AsCustomError(err); ok {
			code = ce.Code
		}
		common.LogWarn("圖片驗證失敗",
			zap.String("request_id", requestID),
			zap.String("image_kind", describeImage(req.Image)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image", "code": code, "details": err.Error()})
		return
	}

	common.LogInfo("開始處理圖片食譜請求",
		zap.String("request_id", requestID),
		zap.String("image_kind", describeImage(req.Image)),
		zap.String("format", info.Format),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Int("bytes", info.Bytes),
	)

	result, err := h.detector.DetectAndGenerate(c.Request.Context(), req.Image, req.MIMEType)
	if err != nil {
		common.LogError("圖片食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		respondCoreError(c, err, "Failed")
		return
	}

	record := &store.Record{
		InputType:           store.InputImage,
		RawIngredients:      result.DetectedIngredients,
		ParsedIngredients:   result.DetectedIngredients,
		DetectedIngredients: result.DetectedIngredients,
		Recipe:              result.Recipe,
	}
	if err := h.store.Save(c.Request.Context(), record); err != nil {
		common.LogError("食譜儲存失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed", "details": err.Error()})
		return
	}

	common.LogInfo("圖片食譜生成完成",
		zap.String("request_id", requestID),
		zap.String("id", record.ID),
		zap.Strings("detected_ingredients", result.DetectedIngredients),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"id":                  record.ID,
		"recipe":              &result.Recipe,
		"detectedIngredients": result.DetectedIngredients,
	})
}

// respondCoreError 依錯誤類型回應：輸入問題 400，逾時 504，其餘 500
func respondCoreError(c *gin.Context, err error, message string) {
	switch {
	case recipeService.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":   "Request timeout",
			"code":    common.ErrCodeRequestTimeout,
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
