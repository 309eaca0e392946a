package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ingredient-recipe/internal/core/recipe"
	"ingredient-recipe/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StringArray 以 JSON 儲存的字串陣列
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported StringArray source %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// IngredientArray 以 JSON 儲存的食譜用料
type IngredientArray []recipe.Ingredient

// Value implements the driver.Valuer interface
func (a IngredientArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *IngredientArray) Scan(value interface{}) error {
	if value == nil {
		*a = IngredientArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported IngredientArray source %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// recipeRecord 資料表 recipes
type recipeRecord struct {
	ID                  string          `gorm:"primaryKey;size:36"`
	InputType           string          `gorm:"size:16;index;not null"`
	RawIngredients      StringArray     `gorm:"type:text;not null"`
	ParsedIngredients   StringArray     `gorm:"type:text;not null"`
	DetectedIngredients StringArray     `gorm:"type:text"`
	Name                string          `gorm:"size:255"`
	Ingredients         IngredientArray `gorm:"type:text;not null"`
	Steps               StringArray     `gorm:"type:text;not null"`
	PrepTime            string          `gorm:"size:64"`
	Difficulty          string          `gorm:"size:32;index"`
	CreatedAt           time.Time       `gorm:"index"`
}

func (recipeRecord) TableName() string {
	return "recipes"
}

func toModel(r *Record) *recipeRecord {
	return &recipeRecord{
		ID:                  r.ID,
		InputType:           r.InputType,
		RawIngredients:      r.RawIngredients,
		ParsedIngredients:   r.ParsedIngredients,
		DetectedIngredients: r.DetectedIngredients,
		Name:                r.Name,
		Ingredients:         r.Ingredients,
		Steps:               r.Steps,
		PrepTime:            r.PrepTime,
		Difficulty:          string(r.Difficulty),
		CreatedAt:           r.CreatedAt,
	}
}

func (m *recipeRecord) toRecord() *Record {
	r := &Record{
		ID:                m.ID,
		InputType:         m.InputType,
		RawIngredients:    m.RawIngredients,
		ParsedIngredients: m.ParsedIngredients,
		Recipe: recipe.Recipe{
			Name:        m.Name,
			Ingredients: m.Ingredients,
			Steps:       m.Steps,
			PrepTime:    m.PrepTime,
			Difficulty:  recipe.Difficulty(m.Difficulty),
		},
		CreatedAt: m.CreatedAt.UTC(),
	}
	if len(m.DetectedIngredients) > 0 {
		r.DetectedIngredients = m.DetectedIngredients
	}
	return r
}

// GormStore 以 gorm 實作的關聯式儲存（SQLite / PostgreSQL）
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore 開啟資料庫並自動建立資料表
func NewGormStore(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	// :memory: 資料庫每條連線各自獨立
	if driver == "sqlite" && strings.Contains(dsn, ":memory:") {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := db.AutoMigrate(&recipeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate recipes table: %w", err)
	}

	common.LogInfo("Recipe store ready", zap.String("driver", driver))

	return &GormStore{db: db, now: time.Now}, nil
}

// Save 寫入紀錄
func (s *GormStore) Save(ctx context.Context, r *Record) error {
	prepare(r, s.now())
	if err := s.db.WithContext(ctx).Create(toModel(r)).Error; err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// Get 依 ID 取得紀錄
func (s *GormStore) Get(ctx context.Context, id string) (*Record, error) {
	var m recipeRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return m.toRecord(), nil
}

// List 列出紀錄
func (s *GormStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	q := s.db.WithContext(ctx).Model(&recipeRecord{}).Order("created_at DESC")
	if f.InputType != "" {
		q = q.Where("input_type = ?", f.InputType)
	}
	if f.Difficulty != "" {
		q = q.Where("LOWER(difficulty) = ?", strings.ToLower(f.Difficulty))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var models []recipeRecord
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	records := make([]*Record, 0, len(models))
	for i := range models {
		records = append(records, models[i].toRecord())
	}
	return records, nil
}

// Delete 刪除紀錄
func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&recipeRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats 計算統計
func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	var models []recipeRecord
	err := s.db.WithContext(ctx).
		Select("input_type", "difficulty", "raw_ingredients", "created_at").
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe stats: %w", err)
	}

	records := make([]*Record, 0, len(models))
	for i := range models {
		records = append(records, models[i].toRecord())
	}
	return ComputeStats(records), nil
}

// Ping 檢查資料庫連線
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉資料庫
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
