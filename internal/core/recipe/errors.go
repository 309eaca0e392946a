package recipe

import (
	"errors"
	"fmt"

	"ingredient-recipe/internal/pkg/common"
)

var (
	// ErrInvalidInput 呼叫端違反前置條件（例如空的食材清單）
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyIngredients 正規化後沒有任何食材
	ErrEmptyIngredients = errors.New("ingredient list is empty after normalization")
	// ErrNoIngredientsDetected 視覺模型在圖片中沒有找到食材
	ErrNoIngredientsDetected = errors.New("no ingredients detected in image")
)

// BackendError 模型後端呼叫失敗
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ExtractionError 模型輸出中找不到 {...}
type ExtractionError struct {
	Raw string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no structured payload found in model output: %q", common.Truncate(e.Raw, 120))
}

// DecodeError 找到 {...} 但無法解析為 JSON
type DecodeError struct {
	Span string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode structured payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SchemaError 解析後的欄位型別或內容不符
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid recipe field %q: %s", e.Field, e.Reason)
}

// IsClientError 是否屬於呼叫端輸入問題
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrEmptyIngredients)
}
