package recipe

import (
	"context"
	"fmt"
	"time"

	"ingredient-recipe/internal/core/ai/provider"
	"ingredient-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 食譜生成服務
type Generator struct {
	backend provider.Provider
	strict  bool
}

// GeneratorOption 生成服務選項
type GeneratorOption func(*Generator)

// WithStrictSchema 啟用嚴格欄位驗證
func WithStrictSchema(strict bool) GeneratorOption {
	return func(g *Generator) {
		g.strict = strict
	}
}

// NewGenerator 創建食譜生成服務
func NewGenerator(backend provider.Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{backend: backend}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 根據食材清單生成食譜，每次呼叫只會送出一次後端請求
func (g *Generator) Generate(ctx context.Context, ingredients IngredientList) (*Recipe, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: at least one ingredient is required", ErrInvalidInput)
	}

	req := &provider.Request{
		Messages:    []provider.Message{provider.UserMessage(BuildRecipePrompt(ingredients))},
		Temperature: RecipeTemperature,
	}

	start := time.Now()
	resp, err := g.backend.Generate(ctx, req)
	if err != nil {
		return nil, &BackendError{Backend: g.backend.Name(), Err: err}
	}

	common.LogDebug("AI 回應內容 (recipe/generate)",
		zap.Int("ai_response_length", len(resp.Content)),
		zap.String("ai_response_preview", common.Truncate(resp.Content, 200)),
	)

	payload, err := Extract(resp.Content)
	if err != nil {
		common.LogWarn("模型回應無法解析",
			zap.String("backend", g.backend.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	recipe, err := toRecipe(payload, g.strict)
	if err != nil {
		common.LogWarn("模型回應欄位不符",
			zap.String("backend", g.backend.Name()),
			zap.Bool("strict", g.strict),
			zap.Error(err),
		)
		return nil, err
	}

	common.LogInfo("Successfully generated recipe",
		zap.String("recipe_name", recipe.Name),
		zap.Int("ingredients_count", len(recipe.Ingredients)),
		zap.Int("steps_count", len(recipe.Steps)),
		zap.Duration("耗時", time.Since(start)),
	)

	return recipe, nil
}
