package chat

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ingredient-recipe/internal/core/ai/provider"
	"ingredient-recipe/internal/infrastructure/config"
	"ingredient-recipe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenAI 相容 /chat/completions 客戶端（Groq、OpenRouter 皆適用）
type Client struct {
	name      string
	model     string
	maxTokens int
	http      *resty.Client
}

// textPart 文本內容
type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// imagePart 圖片內容
type imagePart struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

// wireMessage 消息結構，Content 為字串或內容陣列
type wireMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// wireRequest 表示 API 請求
type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// wireResponse 響應結構
type wireResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError 表示 API 錯誤
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建新的客戶端
func NewClient(cfg config.BackendConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", "Ingredient Recipe")

	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	name := cfg.Name
	if name == "" {
		name = "chat"
	}

	return &Client{
		name:      name,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		http:      httpClient,
	}
}

// Name 後端名稱
func (c *Client) Name() string {
	return c.name
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// Generate 發送單次 chat completion 請求
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("%s: request has no messages", c.name)
	}

	// 構建請求
	body := wireRequest{
		Model:       c.model,
		Messages:    make([]wireMessage, 0, len(req.Messages)),
		MaxTokens:   c.maxTokens,
		Temperature: req.Temperature,
	}
	if req.Model != "" {
		body.Model = req.Model
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}

	imageCount := 0
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, toWireMessage(m))
		imageCount += len(m.Images)
	}

	common.LogInfo("Sending request to model backend",
		zap.String("backend", c.name),
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
		zap.Int("images", imageCount),
	)

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogBackendCall(c.name, time.Since(start), err)
		return nil, fmt.Errorf("failed to send request to %s: %w", c.name, err)
	}

	// 清理響應內容（移除所有圖片數據）
	sanitized := sanitizeBody(resp.String())

	// 檢查 HTTP 狀態碼
	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("%s returned status %d: %s", c.name, resp.StatusCode(), errorMessage(resp.Body(), sanitized))
		common.LogBackendCall(c.name, time.Since(start), err)
		return nil, err
	}

	// 解析響應
	var result wireResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogError("Failed to parse model backend response",
			zap.String("backend", c.name),
			zap.Error(err),
			zap.String("response", common.Truncate(sanitized, 200)),
		)
		return nil, fmt.Errorf("failed to parse %s response: %w", c.name, err)
	}

	if len(result.Choices) == 0 {
		err := fmt.Errorf("no choices in %s response", c.name)
		common.LogBackendCall(c.name, time.Since(start), err)
		return nil, err
	}

	common.LogBackendCall(c.name, time.Since(start), nil)

	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Model:   result.Model,
		Usage:   result.Usage,
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

// toWireMessage 將訊息轉為 API 格式，有圖片時使用內容陣列
func toWireMessage(m provider.Message) wireMessage {
	if len(m.Images) == 0 {
		return wireMessage{Role: m.Role, Content: m.Content}
	}

	parts := make([]interface{}, 0, len(m.Images)+1)
	parts = append(parts, textPart{Type: "text", Text: m.Content})
	for _, img := range m.Images {
		mime := img.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, imagePart{
			Type:     "image_url",
			ImageURL: imageURL{URL: fmt.Sprintf("data:%s;base64,%s", mime, img.Data)},
		})
	}
	return wireMessage{Role: m.Role, Content: parts}
}

// errorMessage 取出後端提供的錯誤訊息，失敗時退回清理後的原文
func errorMessage(body []byte, sanitized string) string {
	var e apiError
	if err := common.ParseJSONBytes(body, &e); err == nil && e.Error.Message != "" {
		return sanitizeBody(e.Error.Message)
	}
	return common.Truncate(sanitized, 500)
}

var dataURIPattern = regexp.MustCompile(`data:[a-zA-Z0-9.+/-]+;base64,[A-Za-z0-9+/=]+`)

// sanitizeBody 移除內容中的圖片 data URI
func sanitizeBody(s string) string {
	return dataURIPattern.ReplaceAllString(s, "[IMAGE_DATA_REMOVED]")
}
