package recipe

import (
	"regexp"
	"strings"

	"ingredient-recipe/internal/pkg/common"
)

var fencePattern = regexp.MustCompile("```(?i:json)?")

// ExtractSpan 去除 markdown 圍欄後，取第一個 { 到最後一個 } 之間的內容
//
// 取最外層（貪婪）範圍：模型若輸出兩個並列物件，整段會被一起取出並在解析時失敗。
func ExtractSpan(raw string) (string, error) {
	cleaned := fencePattern.ReplaceAllString(raw, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", &ExtractionError{Raw: raw}
	}

	return strings.TrimSpace(cleaned[start : end+1]), nil
}

// Extract 從模型輸出取出並解析結構化內容
func Extract(raw string) (Payload, error) {
	span, err := ExtractSpan(raw)
	if err != nil {
		return nil, err
	}

	var payload Payload
	if err := common.ParseJSON(span, &payload); err != nil {
		return nil, &DecodeError{Span: span, Err: err}
	}

	return payload, nil
}
