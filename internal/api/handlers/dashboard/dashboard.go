package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"ingredient-recipe/internal/infrastructure/store"
	"ingredient-recipe/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 儀表板查詢處理程序
type Handler struct {
	store store.Store
}

// NewHandler 創建儀表板處理程序
func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

// ListRecipes 依建立時間由新到舊列出食譜
func (h *Handler) ListRecipes(c *gin.Context) {
	filter := store.Filter{
		Difficulty: c.Query("difficulty"),
		InputType:  c.Query("inputType"),
	}

	if filter.InputType != "" && filter.InputType != store.InputText && filter.InputType != store.InputImage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inputType must be text or image"})
		return
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}

	records, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.storeFailure(c, "讀取食譜列表失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": records,
		"count":   len(records),
	})
}

// GetRecipe 取得單筆食譜
func (h *Handler) GetRecipe(c *gin.Context) {
	record, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found", "code": common.ErrCodeNotFound})
		return
	}
	if err != nil {
		h.storeFailure(c, "讀取食譜失敗", err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecipe 刪除單筆食譜
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found", "code": common.ErrCodeNotFound})
		return
	}
	if err != nil {
		h.storeFailure(c, "刪除食譜失敗", err)
		return
	}

	common.LogInfo("食譜已刪除",
		zap.String("request_id", requestid.Get(c)),
		zap.String("id", id),
	)
	c.Status(http.StatusNoContent)
}

// Stats 儀表板統計
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		h.storeFailure(c, "統計計算失敗", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) storeFailure(c *gin.Context, msg string, err error) {
	common.LogError(msg,
		zap.Error(err),
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(common.ErrStoreError.Status, gin.H{
		"error": common.ErrStoreError.Message,
		"code":  common.ErrStoreError.Code,
	})
}
