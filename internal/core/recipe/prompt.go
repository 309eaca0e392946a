package recipe

import (
	"fmt"
	"strings"
)

// RecipeTemperature 文字生成的取樣溫度
const RecipeTemperature = 0.7

// IngredientDetectionPrompt 視覺模型的固定指令
const IngredientDetectionPrompt = "List all food ingredients visible in this image. " +
	"Respond with a comma-separated list only, nothing else."

const recipePromptTemplate = `Generate a recipe using these ingredients:
%s

Return ONLY valid JSON in this format, with no explanation and no markdown:

{
  "recipeName": "string",
  "ingredients": [
    { "name": "string", "quantity": "string" }
  ],
  "steps": ["string"],
  "prepTime": "string",
  "difficulty": "Easy | Medium | Hard"
}
`

// BuildRecipePrompt 產生食譜提示詞，相同清單必定得到相同內容
func BuildRecipePrompt(ingredients IngredientList) string {
	return fmt.Sprintf(recipePromptTemplate, strings.Join(ingredients, ", "))
}
