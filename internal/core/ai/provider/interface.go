package provider

import (
	"context"
)

// Image 表示隨訊息送出的圖片（base64 內容，不含 data URI 前綴）
type Image struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Images  []Image `json:"images,omitempty"`
}

// Request 表示發送到 AI 提供者的請求
// Model 為空時使用提供者預設模型
type Request struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Usage 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Provider 定義 AI 提供者介面
// 實作在建立後必須是唯讀的，可被多個請求同時使用
type Provider interface {
	// Generate 生成 AI 響應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Name 後端名稱（用於日誌與錯誤訊息）
	Name() string

	// GetModel 獲取當前使用的模型名稱
	GetModel() string
}

// UserMessage 建立單一使用者訊息
func UserMessage(text string, images ...Image) Message {
	return Message{
		Role:    "user",
		Content: text,
		Images:  images,
	}
}
