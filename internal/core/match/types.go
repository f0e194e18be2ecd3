package match

import "errors"

// NearMatchThreshold 接近完成的最低百分比，購物建議只考慮
// 落在 [NearMatchThreshold, 100) 區間的食譜
const NearMatchThreshold = 50

// ErrNotFound 表示輸入無法對應到目錄中的任何食材
var ErrNotFound = errors.New("ingredient not found")

// MatchResult 單一食譜對儲藏室的配對結果。
// 這是衍生資料，只存在於讀取模型快取，永遠可以重算。
type MatchResult struct {
	RecipeID             string   `json:"recipe_id"`
	RecipeName           string   `json:"recipe_name"`
	MatchedCount         int      `json:"matched_count"`
	TotalRequired        int      `json:"total_required"`
	MatchPercentage      int      `json:"match_percentage"` // 整數，必在 [0,100]
	MissingIngredientIDs []string `json:"missing_ingredient_ids"`
	MissingIngredients   []string `json:"missing_ingredients"` // 名稱，依食譜宣告順序
	DietaryCompatible    bool     `json:"dietary_compatible"`
	Violations           []string `json:"violations,omitempty"`
}

// Makeable 是否可以直接開煮
func (m MatchResult) Makeable() bool {
	return m.MatchPercentage == 100
}

// NearMatch 是否接近完成（含下限、不含 100%）
func (m MatchResult) NearMatch() bool {
	return m.MatchPercentage >= NearMatchThreshold && m.MatchPercentage < 100
}

// SuggestionResult 單一候選食材的購物建議。
// UnlockedCount 是「買了它就能從頭做到尾」的食譜數，
// NearMatchRecipeIDs 是它能往前推進的接近完成食譜。
type SuggestionResult struct {
	IngredientID       string   `json:"ingredient_id"`
	IngredientName     string   `json:"ingredient_name"`
	UnlockedCount      int      `json:"unlocked_count"`
	NearMatchRecipeIDs []string `json:"near_match_recipe_ids"`
}
