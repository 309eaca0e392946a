package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// toRecipe 將模型輸出轉為 Recipe
//
// 非 strict 模式只檢查型別：欄位缺漏保留零值，無法辨識的難度原樣保留。
// strict 模式另外要求名稱、食材名稱、步驟不為空且難度必須是 Easy/Medium/Hard。
func toRecipe(p Payload, strict bool) (*Recipe, error) {
	var (
		r   Recipe
		err error
	)

	// 名稱，兼容 "name"
	nameKey := "recipeName"
	if _, ok := p[nameKey]; !ok {
		if _, ok := p["name"]; ok {
			nameKey = "name"
		}
	}
	if r.Name, err = stringField(p, nameKey); err != nil {
		return nil, err
	}
	if strict && strings.TrimSpace(r.Name) == "" {
		return nil, &SchemaError{Field: "recipeName", Reason: "must be a non-empty string"}
	}

	if r.Ingredients, err = ingredientsField(p, strict); err != nil {
		return nil, err
	}

	if r.Steps, err = stepsField(p, strict); err != nil {
		return nil, err
	}

	if r.PrepTime, err = stringField(p, "prepTime"); err != nil {
		return nil, err
	}

	difficulty, err := stringField(p, "difficulty")
	if err != nil {
		return nil, err
	}
	d, ok := ParseDifficulty(difficulty)
	if !ok && strict {
		return nil, &SchemaError{Field: "difficulty", Reason: fmt.Sprintf("must be one of Easy, Medium, Hard (got %q)", difficulty)}
	}
	r.Difficulty = d

	return &r, nil
}

// scalarString 字串或數字轉為字串，nil 視為缺漏
func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

func stringField(p Payload, key string) (string, error) {
	s, ok := scalarString(p[key])
	if !ok {
		return "", &SchemaError{Field: key, Reason: fmt.Sprintf("expected string, got %T", p[key])}
	}
	return s, nil
}

func ingredientsField(p Payload, strict bool) ([]Ingredient, error) {
	raw, exists := p["ingredients"]
	if !exists || raw == nil {
		return []Ingredient{}, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, &SchemaError{Field: "ingredients", Reason: fmt.Sprintf("expected array, got %T", raw)}
	}

	out := make([]Ingredient, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("ingredients[%d]", i)

		var ing Ingredient
		switch v := item.(type) {
		case string:
			ing.Name = v
		case map[string]interface{}:
			name, ok := scalarString(v["name"])
			if !ok {
				return nil, &SchemaError{Field: field + ".name", Reason: "expected string"}
			}
			quantity, ok := scalarString(v["quantity"])
			if !ok {
				return nil, &SchemaError{Field: field + ".quantity", Reason: "expected string"}
			}
			ing = Ingredient{Name: name, Quantity: quantity}
		default:
			return nil, &SchemaError{Field: field, Reason: fmt.Sprintf("expected object, got %T", item)}
		}

		if strict && strings.TrimSpace(ing.Name) == "" {
			return nil, &SchemaError{Field: field + ".name", Reason: "must be a non-empty string"}
		}
		out = append(out, ing)
	}

	return out, nil
}

func stepsField(p Payload, strict bool) ([]string, error) {
	raw, exists := p["steps"]
	if !exists || raw == nil {
		if strict {
			return nil, &SchemaError{Field: "steps", Reason: "must be a non-empty array of strings"}
		}
		return []string{}, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, &SchemaError{Field: "steps", Reason: fmt.Sprintf("expected array, got %T", raw)}
	}
	if strict && len(items) == 0 {
		return nil, &SchemaError{Field: "steps", Reason: "must be a non-empty array of strings"}
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &SchemaError{Field: fmt.Sprintf("steps[%d]", i), Reason: fmt.Sprintf("expected string, got %T", item)}
		}
		if strict && strings.TrimSpace(s) == "" {
			return nil, &SchemaError{Field: fmt.Sprintf("steps[%d]", i), Reason: "must be a non-empty string"}
		}
		out = append(out, s)
	}

	return out, nil
}
