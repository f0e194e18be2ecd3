package app

import (
	"time"

	"pantry-chef/internal/core/catalog"
)

// User 用戶的寫入端狀態：個人檔案、儲藏室與收藏。
// 只存在記憶體中，由 Service 的互斥鎖保護；
// 持久化機制刻意排除在範圍外。
type User struct {
	ID                  string
	Name                string
	DietaryRestrictions []string
	SkillLevel          catalog.SkillLevel
	Appliances          []string
	CreatedAt           time.Time

	pantry      map[string]catalog.PantryEntry
	pantryOrder []string // 維持加入順序
	favorites   map[string]struct{}
	favOrder    []string
}

func newUser(id, name string, restrictions []string, skill catalog.SkillLevel, appliances []string) *User {
	if restrictions == nil {
		restrictions = []string{}
	}
	if appliances == nil {
		appliances = []string{}
	}
	return &User{
		ID:                  id,
		Name:                name,
		DietaryRestrictions: restrictions,
		SkillLevel:          skill,
		Appliances:          appliances,
		CreatedAt:           time.Now(),
		pantry:              make(map[string]catalog.PantryEntry),
		favorites:           make(map[string]struct{}),
	}
}

// pantrySet 儲藏室食材 ID 集合，供配對器使用
func (u *User) pantrySet() map[string]struct{} {
	set := make(map[string]struct{}, len(u.pantry))
	for id := range u.pantry {
		set[id] = struct{}{}
	}
	return set
}

// pantryEntries 依加入順序回傳儲藏室項目
func (u *User) pantryEntries() []catalog.PantryEntry {
	out := make([]catalog.PantryEntry, 0, len(u.pantryOrder))
	for _, id := range u.pantryOrder {
		if entry, ok := u.pantry[id]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// addPantry 加入或更新儲藏室項目；回傳是否為新增
func (u *User) addPantry(entry catalog.PantryEntry) bool {
	_, existed := u.pantry[entry.IngredientID]
	u.pantry[entry.IngredientID] = entry
	if !existed {
		u.pantryOrder = append(u.pantryOrder, entry.IngredientID)
	}
	return !existed
}

// removePantry 移除儲藏室項目；回傳是否存在過
func (u *User) removePantry(ingredientID string) bool {
	if _, ok := u.pantry[ingredientID]; !ok {
		return false
	}
	delete(u.pantry, ingredientID)
	for i, id := range u.pantryOrder {
		if id == ingredientID {
			u.pantryOrder = append(u.pantryOrder[:i], u.pantryOrder[i+1:]...)
			break
		}
	}
	return true
}

// addFavorite 加入收藏；回傳是否為新增
func (u *User) addFavorite(recipeID string) bool {
	if _, ok := u.favorites[recipeID]; ok {
		return false
	}
	u.favorites[recipeID] = struct{}{}
	u.favOrder = append(u.favOrder, recipeID)
	return true
}

// removeFavorite 移除收藏；回傳是否存在過
func (u *User) removeFavorite(recipeID string) bool {
	if _, ok := u.favorites[recipeID]; !ok {
		return false
	}
	delete(u.favorites, recipeID)
	for i, id := range u.favOrder {
		if id == recipeID {
			u.favOrder = append(u.favOrder[:i], u.favOrder[i+1:]...)
			break
		}
	}
	return true
}

// favoriteIDs 依收藏順序回傳食譜 ID
func (u *User) favoriteIDs() []string {
	return append([]string(nil), u.favOrder...)
}
