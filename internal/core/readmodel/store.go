package readmodel

import (
	"context"
	"sync"
	"time"

	"pantry-chef/internal/core/match"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// SearchView 用戶的配對查詢視圖：相容與不相容的食譜分開呈現（不丟棄）
type SearchView struct {
	Compatible   []match.MatchResult `json:"compatible"`
	Incompatible []match.MatchResult `json:"incompatible"`
	ComputedAt   time.Time           `json:"computed_at"`
}

// SuggestionView 用戶的購物建議視圖
type SuggestionView struct {
	TopK        int                      `json:"top_k"`
	Suggestions []match.SuggestionResult `json:"suggestions"`
	ComputedAt  time.Time                `json:"computed_at"`
}

// storeEntry 快取條目
type storeEntry struct {
	search      *SearchView
	suggestions *SuggestionView
	expiresAt   time.Time
	lastAccess  time.Time
}

// storeStats 快取統計
type storeStats struct {
	hits          int64
	misses        int64
	invalidations int64
	evictions     int64
}

// Store 讀取模型快取：每個用戶最近一次計算的配對與建議視圖。
// 事件消費者只做失效（不急著重算），下一次查詢時惰性重建。
// 核心在單一請求內不需要鎖，互斥鎖是為了宿主環境的並行請求。
type Store struct {
	cfg   *config.ReadModelConfig
	mu    sync.Mutex
	users map[string]*storeEntry
	stats storeStats
	redis *RedisService // 可選的二級快取，未啟用時為 nil
}

// NewStore 建立讀取模型快取
func NewStore(cfg *config.ReadModelConfig, redis *RedisService) *Store {
	s := &Store{
		cfg:   cfg,
		users: make(map[string]*storeEntry),
		redis: redis,
	}

	common.LogInfo("讀取模型快取已初始化",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Bool("redis", redis != nil),
	)

	return s
}

// GetSearch 取得用戶的配對視圖快取
func (s *Store) GetSearch(ctx context.Context, userID string) (*SearchView, bool) {
	if !s.cfg.Enabled {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.liveEntry(userID)
	if ok && entry.search != nil {
		entry.lastAccess = time.Now()
		s.stats.hits++
		common.LogCacheHit("search", userID)
		return entry.search, true
	}

	// 記憶體未命中時嘗試二級快取
	if s.redis != nil {
		if view, err := s.redis.GetSearch(ctx, userID); err == nil {
			s.ensureEntry(userID).search = view
			s.stats.hits++
			common.LogCacheHit("search:redis", userID)
			return view, true
		}
	}

	s.stats.misses++
	common.LogCacheMiss("search", userID)
	return nil, false
}

// SetSearch 寫入用戶的配對視圖
func (s *Store) SetSearch(ctx context.Context, userID string, view *SearchView) {
	if !s.cfg.Enabled {
		return
	}

	s.mu.Lock()
	s.evictIfFull()
	s.ensureEntry(userID).search = view
	s.mu.Unlock()

	if s.redis != nil {
		if err := s.redis.SetSearch(ctx, userID, view); err != nil {
			common.LogWarn("二級快取寫入失敗", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// GetSuggestions 取得用戶的購物建議快取；k 不同視為未命中
func (s *Store) GetSuggestions(ctx context.Context, userID string, k int) (*SuggestionView, bool) {
	if !s.cfg.Enabled {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.liveEntry(userID)
	if ok && entry.suggestions != nil && entry.suggestions.TopK == k {
		entry.lastAccess = time.Now()
		s.stats.hits++
		common.LogCacheHit("suggestions", userID)
		return entry.suggestions, true
	}

	s.stats.misses++
	common.LogCacheMiss("suggestions", userID)
	return nil, false
}

// SetSuggestions 寫入用戶的購物建議視圖
func (s *Store) SetSuggestions(ctx context.Context, userID string, view *SuggestionView) {
	if !s.cfg.Enabled {
		return
	}

	s.mu.Lock()
	s.evictIfFull()
	s.ensureEntry(userID).suggestions = view
	s.mu.Unlock()
}

// Invalidate 讓用戶的所有快取視圖失效。
// 冪等：同一事件發兩次、或對已失效的條目再失效一次都是 no-op。
func (s *Store) Invalidate(ctx context.Context, userID string) {
	s.mu.Lock()
	_, existed := s.users[userID]
	delete(s.users, userID)
	if existed {
		s.stats.invalidations++
	}
	s.mu.Unlock()

	if s.redis != nil {
		if err := s.redis.Invalidate(ctx, userID); err != nil {
			common.LogWarn("二級快取失效失敗", zap.String("user_id", userID), zap.Error(err))
		}
	}

	if existed {
		common.LogDebug("讀取模型已失效", zap.String("user_id", userID))
	}
}

// Stats 回傳快取統計
func (s *Store) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.stats.hits + s.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(s.stats.hits) / float64(total)
	}
	return map[string]any{
		"size":          len(s.users),
		"max_size":      s.cfg.MaxSize,
		"hits":          s.stats.hits,
		"misses":        s.stats.misses,
		"invalidations": s.stats.invalidations,
		"evictions":     s.stats.evictions,
		"hit_ratio":     hitRatio,
	}
}

// liveEntry 取得未過期的條目；過期條目順手清掉
func (s *Store) liveEntry(userID string) (*storeEntry, bool) {
	entry, ok := s.users[userID]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.users, userID)
		s.stats.evictions++
		return nil, false
	}
	return entry, true
}

// ensureEntry 取得或建立條目並刷新存活時間
func (s *Store) ensureEntry(userID string) *storeEntry {
	entry, ok := s.users[userID]
	if !ok {
		entry = &storeEntry{}
		s.users[userID] = entry
	}
	entry.expiresAt = time.Now().Add(s.cfg.TTL)
	entry.lastAccess = time.Now()
	return entry
}

// evictIfFull 容量滿時先清過期條目，仍滿則淘汰最久未存取者
func (s *Store) evictIfFull() {
	if len(s.users) < s.cfg.MaxSize {
		return
	}

	now := time.Now()
	for id, entry := range s.users {
		if now.After(entry.expiresAt) {
			delete(s.users, id)
			s.stats.evictions++
		}
	}

	if len(s.users) < s.cfg.MaxSize {
		return
	}

	var oldestID string
	var oldestAccess time.Time
	for id, entry := range s.users {
		if oldestID == "" || entry.lastAccess.Before(oldestAccess) {
			oldestID = id
			oldestAccess = entry.lastAccess
		}
	}
	if oldestID != "" {
		delete(s.users, oldestID)
		s.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)", zap.String("user_id", oldestID))
	}
}
