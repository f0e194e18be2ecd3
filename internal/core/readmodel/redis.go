package readmodel

import (
	"context"
	"encoding/json"
	"fmt"

	"pantry-chef/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// RedisService 讀取模型的 Redis 二級快取。
// 宿主跑多個行程時，讓失效跨行程生效；單行程部署不需要啟用。
type RedisService struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisService 建立 Redis 快取服務；未啟用時回傳 nil
func NewRedisService(cfg *config.RedisConfig) (*RedisService, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisService{
		client: client,
		cfg:    cfg,
	}, nil
}

// GetSearch 讀取用戶的配對視圖
func (s *RedisService) GetSearch(ctx context.Context, userID string) (*SearchView, error) {
	data, err := s.client.Get(ctx, searchKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var view SearchView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return &view, nil
}

// SetSearch 寫入用戶的配對視圖
func (s *RedisService) SetSearch(ctx context.Context, userID string, view *SearchView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	return s.client.Set(ctx, searchKey(userID), data, s.cfg.TTL).Err()
}

// Invalidate 刪除用戶的所有快取鍵
func (s *RedisService) Invalidate(ctx context.Context, userID string) error {
	return s.client.Del(ctx, searchKey(userID)).Err()
}

// Close 關閉連接
func (s *RedisService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func searchKey(userID string) string {
	return fmt.Sprintf("readmodel:search:%s", userID)
}
