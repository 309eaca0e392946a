package recipe

import (
	"strings"
)

// describeImage 圖片來源類型（用於日誌記錄，不輸出內容）
func describeImage(image string) string {
	image = strings.TrimSpace(image)
	switch {
	case image == "":
		return "empty"
	case strings.HasPrefix(image, "data:"):
		if i := strings.Index(image, ";"); i > len("data:") {
			return "data_uri_" + strings.TrimPrefix(image[:i], "data:image/")
		}
		return "data_uri"
	case strings.HasPrefix(image, "/9j/"):
		return "base64_jpeg"
	case strings.HasPrefix(image, "iVBORw0KGgo"):
		return "base64_png"
	case strings.HasPrefix(image, "UklGR"):
		return "base64_webp"
	}
	return "base64"
}
