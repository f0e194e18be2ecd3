package readmodel

import (
	"context"
	"sync"
	"time"

	"pantry-chef/internal/core/event"

	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// SearchRecord 單次搜尋的分析記錄
type SearchRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Ingredients []string  `json:"ingredients"`
	ResultCount int       `json:"result_count"`
}

// UserAnalytics 單一用戶的會話分析
type UserAnalytics struct {
	SearchCount    int            `json:"search_count"`
	RecentSearches []SearchRecord `json:"recent_searches"`
	ApplianceCount int            `json:"appliance_count"`
}

// Analytics 會話層級的分析統計（僅存在記憶體，隨行程重啟歸零）
type Analytics struct {
	mu             sync.Mutex
	totalSearches  int64
	totalUsers     int64
	totalFavorites int64
	perUser        map[string]*UserAnalytics
}

// NewAnalytics 建立分析統計
func NewAnalytics() *Analytics {
	return &Analytics{
		perUser: make(map[string]*UserAnalytics),
	}
}

// System 回傳系統層級統計
func (a *Analytics) System() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return map[string]any{
		"total_searches":      a.totalSearches,
		"total_users_created": a.totalUsers,
		"total_favorites":     a.totalFavorites,
	}
}

// ForUser 回傳指定用戶的分析
func (a *Analytics) ForUser(userID string) UserAnalytics {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ua, ok := a.perUser[userID]; ok {
		return *ua
	}
	return UserAnalytics{RecentSearches: []SearchRecord{}}
}

// RegisterConsumers 在匯流排上註冊讀取模型的事件消費者。
// 失效消費者只讓受影響用戶的快取視圖失效，重算留給下一次查詢；
// 分發同步執行，所以失效完成後不會有請求讀到舊視圖。
func RegisterConsumers(bus *event.Bus, store *Store, analytics *Analytics) {
	invalidate := func(ev event.Event) error {
		store.Invalidate(context.Background(), ev.UserID)
		return nil
	}

	// 會改變配對或建議結果的事件都要讓視圖失效
	bus.Subscribe(event.TypeIngredientAdded, "readmodel-invalidator", invalidate)
	bus.Subscribe(event.TypeIngredientRemoved, "readmodel-invalidator", invalidate)
	bus.Subscribe(event.TypeRecipeFavorited, "readmodel-invalidator", invalidate)
	bus.Subscribe(event.TypeRecipeUnfavorited, "readmodel-invalidator", invalidate)
	bus.Subscribe(event.TypeUserProfileUpdated, "readmodel-invalidator", invalidate)

	// 分析統計消費者
	bus.Subscribe(event.TypeUserCreated, "analytics", func(ev event.Event) error {
		analytics.mu.Lock()
		analytics.totalUsers++
		analytics.mu.Unlock()
		common.LogInfo("EVENT: 用戶已建立", zap.String("user_id", ev.UserID))
		return nil
	})

	bus.Subscribe(event.TypeRecipeFavorited, "analytics", func(ev event.Event) error {
		analytics.mu.Lock()
		analytics.totalFavorites++
		analytics.mu.Unlock()
		return nil
	})

	bus.Subscribe(event.TypeRecipeSearchPerformed, "analytics", func(ev event.Event) error {
		analytics.mu.Lock()
		defer analytics.mu.Unlock()

		analytics.totalSearches++

		ua, ok := analytics.perUser[ev.UserID]
		if !ok {
			ua = &UserAnalytics{}
			analytics.perUser[ev.UserID] = ua
		}
		ua.SearchCount++

		record := SearchRecord{Timestamp: ev.OccurredAt}
		if ings, ok := ev.Payload["ingredients"].([]string); ok {
			record.Ingredients = ings
		}
		if count, ok := ev.Payload["result_count"].(int); ok {
			record.ResultCount = count
		}
		ua.RecentSearches = append(ua.RecentSearches, record)

		// 只保留最近 10 筆
		if len(ua.RecentSearches) > 10 {
			ua.RecentSearches = ua.RecentSearches[len(ua.RecentSearches)-10:]
		}
		return nil
	})

	// 設備更新不影響配對結果，只進分析記錄
	bus.Subscribe(event.TypeAppliancesUpdated, "analytics", func(ev event.Event) error {
		count := 0
		if appliances, ok := ev.Payload["appliances"].([]string); ok {
			count = len(appliances)
		}

		analytics.mu.Lock()
		ua, ok := analytics.perUser[ev.UserID]
		if !ok {
			ua = &UserAnalytics{}
			analytics.perUser[ev.UserID] = ua
		}
		ua.ApplianceCount = count
		analytics.mu.Unlock()

		common.LogInfo("EVENT: 用戶設備已更新",
			zap.String("user_id", ev.UserID),
			zap.Int("appliances", count),
		)
		return nil
	})

	common.LogInfo("事件消費者已註冊",
		zap.Int("失效訂閱數", bus.SubscriberCount(event.TypeIngredientAdded)),
		zap.Int("分析訂閱數", bus.SubscriberCount(event.TypeRecipeSearchPerformed)),
	)
}
