package match

import (
	"fmt"
	"math"
	"sort"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/pkg/common"
)

// Matcher 計算儲藏室對食譜的配對程度。
// 採「有就算數」語意：只看食材 ID 是否在儲藏室，數量僅供參考、
// 不影響配對結果（刻意維持與原始產品行為一致）。
type Matcher struct {
	catalog *catalog.Catalog
}

// NewMatcher 建立配對器
func NewMatcher(c *catalog.Catalog) *Matcher {
	return &Matcher{catalog: c}
}

// Match 計算單一食譜的配對結果。
// 沒有任何所需食材的食譜屬於設定錯誤，回傳 INVALID_RECIPE。
func (m *Matcher) Match(pantry map[string]struct{}, r *catalog.Recipe) (MatchResult, error) {
	total := len(r.Ingredients)
	if total == 0 {
		return MatchResult{}, fmt.Errorf("%w: recipe %q has no required ingredients", common.ErrInvalidRecipe, r.Name)
	}

	matched := 0
	missingIDs := make([]string, 0)
	missingNames := make([]string, 0)

	// 缺料清單依食譜宣告順序，保留與步驟的關聯性
	for _, ri := range r.Ingredients {
		if _, ok := pantry[ri.IngredientID]; ok {
			matched++
			continue
		}
		missingIDs = append(missingIDs, ri.IngredientID)
		name := ri.IngredientID
		if ing, ok := m.catalog.IngredientByID(ri.IngredientID); ok {
			name = ing.Name
		}
		missingNames = append(missingNames, name)
	}

	percentage := int(math.Round(float64(matched) / float64(total) * 100))

	return MatchResult{
		RecipeID:             r.ID,
		RecipeName:           r.Name,
		MatchedCount:         matched,
		TotalRequired:        total,
		MatchPercentage:      percentage,
		MissingIngredientIDs: missingIDs,
		MissingIngredients:   missingNames,
		DietaryCompatible:    true, // 飲食相容性由 DietaryFilter 另行判定
	}, nil
}

// MatchAll 對整個目錄計算配對結果，依
// （百分比遞減、名稱遞增、ID 遞增）排序，重複呼叫結果必定相同。
// 空儲藏室不是錯誤，所有食譜都是 0%。
func (m *Matcher) MatchAll(pantry map[string]struct{}, recipes []*catalog.Recipe) []MatchResult {
	results := make([]MatchResult, 0, len(recipes))
	for _, r := range recipes {
		res, err := m.Match(pantry, r)
		if err != nil {
			// 不合法的食譜在載入時就會被擋下，這裡只是保險
			continue
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].MatchPercentage != results[j].MatchPercentage {
			return results[i].MatchPercentage > results[j].MatchPercentage
		}
		if results[i].RecipeName != results[j].RecipeName {
			return results[i].RecipeName < results[j].RecipeName
		}
		return results[i].RecipeID < results[j].RecipeID
	})

	return results
}

// PantrySet 將食材 ID 清單轉為集合
func PantrySet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
