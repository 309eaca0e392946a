package recipe

import (
	"strings"
)

// Normalize 清理使用者輸入的食材清單：逐項去除前後空白並丟棄空項目
func Normalize(items []string) IngredientList {
	list := make(IngredientList, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			list = append(list, s)
		}
	}
	return list
}

// NormalizeUtterance 將逗號分隔的模型輸出轉為食材清單
func NormalizeUtterance(utterance string) IngredientList {
	return Normalize(strings.Split(utterance, ","))
}

// RequireIngredients 清單為空時回傳 ErrEmptyIngredients
func RequireIngredients(list IngredientList) error {
	if len(list) == 0 {
		return ErrEmptyIngredients
	}
	return nil
}
