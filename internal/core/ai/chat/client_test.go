package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ingredient-recipe/internal/core/ai/provider"
	"ingredient-recipe/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.BackendConfig{
		Name:      "groq",
		BaseURL:   srv.URL + "/",
		APIKey:    "test-key",
		Model:     "llama-3.1-8b-instant",
		MaxTokens: 256,
		Timeout:   5 * time.Second,
	})
}

func TestGenerateSendsTextRequest(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","model":"llama-3.1-8b-instant","choices":[{"message":{"role":"assistant","content":"hello"}}],"usage":{"total_tokens":7}}`))
	})

	resp, err := client.Generate(context.Background(), &provider.Request{
		Messages:    []provider.Message{provider.UserMessage("make soup")},
		Temperature: 0.7,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
	assert.Equal(t, "llama-3.1-8b-instant", got["model"])
	assert.Equal(t, 0.7, got["temperature"])
	assert.Equal(t, float64(256), got["max_tokens"])

	messages := got["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "make soup", messages[0].(map[string]interface{})["content"])
}

func TestGenerateSendsImageParts(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"tomato, basil"}}]}`))
	})

	resp, err := client.Generate(context.Background(), &provider.Request{
		Model: "vision-model",
		Messages: []provider.Message{
			provider.UserMessage("list ingredients", provider.Image{Data: "QUJD", MIMEType: "image/png"}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "tomato, basil", resp.Content)
	assert.Equal(t, "vision-model", got["model"])

	content := got["messages"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})
	require.Len(t, content, 2)
	assert.Equal(t, "text", content[0].(map[string]interface{})["type"])
	img := content[1].(map[string]interface{})
	assert.Equal(t, "image_url", img["type"])
	assert.Equal(t, "data:image/png;base64,QUJD", img["image_url"].(map[string]interface{})["url"])
}

func TestGenerateSurfacesBackendErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	})

	_, err := client.Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{provider.UserMessage("x")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestGenerateRejectsEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{provider.UserMessage("x")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestGenerateWithoutMessages(t *testing.T) {
	client := NewClient(config.BackendConfig{BaseURL: "http://127.0.0.1:1", Model: "m", Timeout: time.Second})
	_, err := client.Generate(context.Background(), &provider.Request{})
	require.Error(t, err)
	assert.Equal(t, "chat", client.Name())
}

func TestSanitizeBody(t *testing.T) {
	in := `{"echo":"data:image/jpeg;base64,/9j/4AAQSkZJRgABAQ=="}`
	assert.Equal(t, `{"echo":"[IMAGE_DATA_REMOVED]"}`, sanitizeBody(in))
}
