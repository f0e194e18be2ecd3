package event

import (
	"time"
)

// 領域事件類型，沿用寫入端既有的事件詞彙
const (
	TypeUserCreated           = "USER_CREATED"
	TypeUserProfileUpdated    = "USER_PROFILE_UPDATED"
	TypeIngredientAdded       = "INGREDIENT_ADDED"
	TypeIngredientRemoved     = "INGREDIENT_REMOVED"
	TypeRecipeFavorited       = "RECIPE_FAVORITED"
	TypeRecipeUnfavorited     = "RECIPE_UNFAVORITED"
	TypeAppliancesUpdated     = "USER_APPLIANCES_UPDATED"
	TypeRecipeSearchPerformed = "RECIPE_SEARCH_PERFORMED"
)

// Event 不可變的領域事件：描述一次已提交的狀態變更。
// Sequence 是匯流排指派的邏輯時間戳，發布後不再修改。
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	Payload    map[string]any `json:"payload"`
	Sequence   uint64         `json:"sequence"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// New 建立尚未發布的事件；ID、Sequence 與 OccurredAt 由匯流排在發布時補上
func New(eventType, userID string, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		Type:    eventType,
		UserID:  userID,
		Payload: payload,
	}
}
