package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	"ingredient-recipe/internal/pkg/common"

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Info 圖片驗證結果
type Info struct {
	Format   string
	MIMEType string
	Width    int
	Height   int
	Bytes    int
}

// Service 圖片驗證服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片驗證服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
	}
}

// Validate 驗證 base64 圖片內容（可帶 data URI 前綴）
// 只讀取圖片標頭，不進行完整解碼與轉檔
func (s *Service) Validate(imageData string) (*Info, error) {
	payload, _ := StripEnvelope(imageData)
	if payload == "" {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("image data is empty"))
	}

	// 解碼 base64 數據
	decoded, err := decodeBase64(payload)
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}

	// 檢查文件大小
	if int64(len(decoded)) > s.maxSizeBytes {
		return nil, common.ErrInvalidImageSize.Wrap(fmt.Errorf("image size %d exceeds maximum limit of %d bytes", len(decoded), s.maxSizeBytes))
	}

	// 解析圖片標頭
	cfg, format, err := image.DecodeConfig(bytes.NewReader(decoded))
	if err != nil {
		return nil, common.ErrInvalidImageType.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}

	// 檢查圖片格式
	mime, ok := supportedFormats[format]
	if !ok {
		return nil, common.ErrInvalidImageType.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	return &Info{
		Format:   format,
		MIMEType: mime,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Bytes:    len(decoded),
	}, nil
}

// supportedFormats 支援的圖片格式與對應 MIME
var supportedFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// decodeBase64 同時接受有無 padding 的 base64
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
