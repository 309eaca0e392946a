package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ingredient-recipe/internal/infrastructure/config"
	"ingredient-recipe/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 Redis 儲存 JSON 文件
//
// <prefix>:<id> 存放紀錄本體，<prefix>:index 為依建立時間排序的 sorted set。
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore 建立 Redis 儲存並測試連線
func NewRedisStore(ctx context.Context, cfg config.StoreConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "recipes"
	}

	common.LogInfo("Recipe store ready",
		zap.String("driver", "redis"),
		zap.String("addr", cfg.RedisAddr),
		zap.String("key_prefix", prefix),
	)

	return &RedisStore{client: client, prefix: prefix, now: time.Now}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":index"
}

// Save 寫入紀錄
func (s *RedisStore) Save(ctx context.Context, r *Record) error {
	prepare(r, s.now())

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(r.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), &redis.Z{
			Score:  float64(r.CreatedAt.UnixNano()),
			Member: r.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// Get 依 ID 取得紀錄
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &r, nil
}

// List 列出紀錄
func (s *RedisStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(all))
	for _, r := range all {
		if !f.matches(r) {
			continue
		}
		records = append(records, r)
		if f.Limit > 0 && len(records) == f.Limit {
			break
		}
	}
	return records, nil
}

// loadAll 依建立時間由新到舊讀取全部紀錄
func (s *RedisStore) loadAll(ctx context.Context) ([]*Record, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe index: %w", err)
	}
	if len(ids) == 0 {
		return []*Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	records := make([]*Record, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// 索引殘留但文件已不存在
			common.LogWarn("Recipe index entry without document", zap.String("id", ids[i]))
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", ids[i], err)
		}
		records = append(records, &r)
	}
	return records, nil
}

// Delete 刪除紀錄
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats 計算統計
func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	// 由舊到新，與關聯式儲存的計數順序一致
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return ComputeStats(all), nil
}

// Ping 檢查連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
