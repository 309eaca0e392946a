package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ingredient-recipe/internal/core/recipe"
	"ingredient-recipe/internal/infrastructure/config"
	"ingredient-recipe/internal/pkg/common"
)

// 輸入來源
const (
	InputText  = "text"
	InputImage = "image"
)

// topIngredientLimit 統計中列出的常用食材數量
const topIngredientLimit = 5

// ErrNotFound 紀錄不存在
var ErrNotFound = errors.New("record not found")

// Record 儲存的食譜紀錄
type Record struct {
	ID                  string   `json:"id"`
	InputType           string   `json:"inputType"`
	RawIngredients      []string `json:"rawIngredients"`
	ParsedIngredients   []string `json:"parsedIngredients"`
	DetectedIngredients []string `json:"detectedIngredients,omitempty"`
	recipe.Recipe
	CreatedAt time.Time `json:"createdAt"`
}

// Filter 列表查詢條件，空字串代表不過濾
type Filter struct {
	Difficulty string
	InputType  string
	Limit      int
}

// matches 難度不分大小寫比對
func (f Filter) matches(r *Record) bool {
	if f.InputType != "" && r.InputType != f.InputType {
		return false
	}
	if f.Difficulty != "" && !strings.EqualFold(string(r.Difficulty), f.Difficulty) {
		return false
	}
	return true
}

// IngredientCount 食材出現次數
type IngredientCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats 儀表板統計
type Stats struct {
	Total          int               `json:"total"`
	Text           int               `json:"text"`
	Image          int               `json:"image"`
	Easy           int               `json:"easy"`
	Medium         int               `json:"medium"`
	Hard           int               `json:"hard"`
	TopIngredients []IngredientCount `json:"topIngredients"`
}

// Store 食譜紀錄儲存
type Store interface {
	// Save 寫入紀錄，ID 與 CreatedAt 由儲存層指定並回填
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List 依建立時間由新到舊
	List(ctx context.Context, f Filter) ([]*Record, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// NewFromConfig 依設定建立儲存
func NewFromConfig(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "postgres":
		return NewGormStore(cfg.Driver, cfg.DSN)
	case "redis":
		return NewRedisStore(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported store driver: %q", cfg.Driver)
}

// ComputeStats 計算統計，常用食材以 RawIngredients 計數，次數相同時依首次出現順序
func ComputeStats(records []*Record) *Stats {
	stats := &Stats{Total: len(records), TopIngredients: []IngredientCount{}}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		switch r.InputType {
		case InputText:
			stats.Text++
		case InputImage:
			stats.Image++
		}

		if d, ok := recipe.ParseDifficulty(string(r.Difficulty)); ok {
			switch d {
			case recipe.DifficultyEasy:
				stats.Easy++
			case recipe.DifficultyMedium:
				stats.Medium++
			case recipe.DifficultyHard:
				stats.Hard++
			}
		}

		for _, ing := range r.RawIngredients {
			if _, seen := counts[ing]; !seen {
				order = append(order, ing)
			}
			counts[ing]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topIngredientLimit {
		order = order[:topIngredientLimit]
	}
	for _, name := range order {
		stats.TopIngredients = append(stats.TopIngredients, IngredientCount{Name: name, Count: counts[name]})
	}

	return stats
}

// prepare 指定 ID 與建立時間
func prepare(r *Record, now time.Time) {
	r.ID = common.GenerateUUID()
	r.CreatedAt = now.UTC()
	if r.RawIngredients == nil {
		r.RawIngredients = []string{}
	}
	if r.ParsedIngredients == nil {
		r.ParsedIngredients = []string{}
	}
}
