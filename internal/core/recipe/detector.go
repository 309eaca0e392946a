package recipe

import (
	"context"
	"fmt"

	"ingredient-recipe/internal/core/ai/provider"
	"ingredient-recipe/internal/core/image"
	"ingredient-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// RecipeGenerator 由食材清單生成食譜
type RecipeGenerator interface {
	Generate(ctx context.Context, ingredients IngredientList) (*Recipe, error)
}

// Detector 圖片食材辨識服務
type Detector struct {
	vision      provider.Provider
	generator   RecipeGenerator
	defaultMIME string
}

// NewDetector 創建圖片食材辨識服務
// defaultMIME 為空時使用 image/jpeg
func NewDetector(vision provider.Provider, generator RecipeGenerator, defaultMIME string) *Detector {
	return &Detector{
		vision:      vision,
		generator:   generator,
		defaultMIME: defaultMIME,
	}
}

// DetectIngredients 呼叫視覺後端辨識圖片中的食材
func (d *Detector) DetectIngredients(ctx context.Context, imageData, mimeType string) (IngredientList, error) {
	payload, declared := image.StripEnvelope(imageData)
	if payload == "" {
		return nil, fmt.Errorf("%w: image payload is empty", ErrInvalidInput)
	}
	mime := image.ResolveMIME(mimeType, declared, d.defaultMIME)

	resp, err := d.vision.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			provider.UserMessage(IngredientDetectionPrompt, provider.Image{Data: payload, MIMEType: mime}),
		},
	})
	if err != nil {
		return nil, &BackendError{Backend: d.vision.Name(), Err: err}
	}

	detected := NormalizeUtterance(resp.Content)
	if len(detected) == 0 {
		common.LogWarn("圖片中未辨識到食材",
			zap.String("backend", d.vision.Name()),
			zap.String("ai_response_preview", common.Truncate(resp.Content, 120)),
		)
		return nil, ErrNoIngredientsDetected
	}

	common.LogInfo("Successfully identified ingredients",
		zap.Int("ingredients_count", len(detected)),
		zap.String("mime_type", mime),
	)

	return detected, nil
}

// DetectAndGenerate 辨識圖片食材後生成食譜
func (d *Detector) DetectAndGenerate(ctx context.Context, imageData, mimeType string) (*DetectionResult, error) {
	detected, err := d.DetectIngredients(ctx, imageData, mimeType)
	if err != nil {
		return nil, err
	}

	recipe, err := d.generator.Generate(ctx, detected)
	if err != nil {
		return nil, err
	}

	return &DetectionResult{
		Recipe:              *recipe,
		DetectedIngredients: detected,
	}, nil
}
