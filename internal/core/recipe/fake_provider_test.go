package recipe

import (
	"context"
	"sync"

	"ingredient-recipe/internal/core/ai/provider"
)

// fakeProvider 回傳固定內容並記錄每次請求
type fakeProvider struct {
	name  string
	reply string
	err   error

	mu    sync.Mutex
	calls []*provider.Request
}

func newFakeProvider(name, reply string) *fakeProvider {
	return &fakeProvider{name: name, reply: reply}
}

func (f *fakeProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.reply, Model: "fake"}, nil
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) GetModel() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvider) lastRequest() *provider.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

const validRecipeJSON = `{
  "recipeName": "Caprese Toast",
  "ingredients": [
    {"name": "tomato", "quantity": "2"},
    {"name": "cheese", "quantity": "100 g"}
  ],
  "steps": ["Slice the tomato.", "Layer with cheese.", "Toast for 5 minutes."],
  "prepTime": "15 minutes",
  "difficulty": "Easy"
}`
