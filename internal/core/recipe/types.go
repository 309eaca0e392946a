package recipe

import (
	"strings"
)

// IngredientList 正規化後的食材清單：保留順序、去除空白，允許重複
type IngredientList []string

// Payload 從模型回應解析出的未驗證結構（RecipeDraft）
// 數字以 json.Number 保留
type Payload map[string]interface{}

// Difficulty 食譜難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty 不分大小寫比對難度，成功時回傳標準寫法
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	}
	return Difficulty(s), false
}

// Ingredient 食譜中的食材與用量
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Recipe 驗證後的食譜
type Recipe struct {
	Name        string       `json:"recipeName"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	PrepTime    string       `json:"prepTime"`
	Difficulty  Difficulty   `json:"difficulty"`
}

// DetectionResult 圖片路徑的結果，附帶辨識出的食材
type DetectionResult struct {
	Recipe
	DetectedIngredients IngredientList `json:"detectedIngredients"`
}
