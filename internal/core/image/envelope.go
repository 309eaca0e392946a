package image

import (
	"strings"
)

// StripEnvelope 去除 data URI 類型的前綴
//
// 規則只有兩種：字串中含有逗號時，取第一個逗號之後的內容作為 payload，逗號前若為
// "data:<mime>;base64" 則一併回傳宣告的 MIME 類型；不含逗號時整個字串即為 payload。
// base64 字元集不含逗號，因此第一個逗號必定是前綴分隔符。
func StripEnvelope(s string) (payload string, declaredMIME string) {
	s = strings.TrimSpace(s)

	idx := strings.Index(s, ",")
	if idx < 0 {
		return s, ""
	}

	return strings.TrimSpace(s[idx+1:]), parseDeclaredMIME(s[:idx])
}

// parseDeclaredMIME 從 "data:image/png;base64" 取出 "image/png"
func parseDeclaredMIME(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if !strings.HasPrefix(strings.ToLower(prefix), "data:") {
		return ""
	}

	mime := prefix[len("data:"):]
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if !strings.Contains(mime, "/") {
		return ""
	}
	return mime
}

// ResolveMIME 決定送給視覺後端的 MIME 類型：明確指定 > 前綴宣告 > 預設值
func ResolveMIME(explicit, declared, fallback string) string {
	if m := strings.TrimSpace(explicit); m != "" {
		return m
	}
	if declared != "" {
		return declared
	}
	if fallback != "" {
		return fallback
	}
	return "image/jpeg"
}
