package match

import (
	"fmt"
	"sort"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/pkg/common"
)

// SuggestionEngine 計算「再買哪些食材能解鎖最多食譜」。
//
// 這是貪婪的加權集合覆蓋近似：每個候選食材獨立計分，
// 不搜尋多食材的聯合最佳組合（那是 NP-hard，且會改變可觀察的排序）。
// 每個食譜的缺料集合只算一次，再對缺料食材彙總，
// 整體複雜度為 O(食譜數 × 每譜食材數)。
type SuggestionEngine struct {
	matcher *Matcher
	catalog *catalog.Catalog
}

// NewSuggestionEngine 建立購物建議引擎
func NewSuggestionEngine(c *catalog.Catalog) *SuggestionEngine {
	return &SuggestionEngine{
		matcher: NewMatcher(c),
		catalog: c,
	}
}

// ingredientImpact 彙總單一候選食材的影響
type ingredientImpact struct {
	unlocked    int      // 缺料集合恰為 {它} 的食譜數
	nearMatches []string // 它出現在缺料清單中的接近完成食譜
}

// Suggest 回傳排名前 k 的購物建議。
// 只考慮接近完成（[50,100)）的食譜；排序依
// （解鎖數遞減、額外推進數遞減、正規名稱遞增）。
// 沒有接近完成的食譜時回傳空清單，不是錯誤；
// k 為負數是呼叫端錯誤（INVALID_CONFIGURATION），k 超出候選數時收斂。
func (e *SuggestionEngine) Suggest(pantry map[string]struct{}, recipes []*catalog.Recipe, k int) ([]SuggestionResult, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: top k must not be negative, got %d", common.ErrInvalidConfiguration, k)
	}

	impacts := make(map[string]*ingredientImpact)

	for _, r := range recipes {
		res, err := e.matcher.Match(pantry, r)
		if err != nil {
			continue
		}
		if !res.NearMatch() {
			continue
		}
		for _, missingID := range res.MissingIngredientIDs {
			imp, ok := impacts[missingID]
			if !ok {
				imp = &ingredientImpact{}
				impacts[missingID] = imp
			}
			imp.nearMatches = append(imp.nearMatches, r.ID)
			if len(res.MissingIngredientIDs) == 1 {
				imp.unlocked++
			}
		}
	}

	results := make([]SuggestionResult, 0, len(impacts))
	for id, imp := range impacts {
		name := id
		if ing, ok := e.catalog.IngredientByID(id); ok {
			name = ing.Name
		}
		results = append(results, SuggestionResult{
			IngredientID:       id,
			IngredientName:     name,
			UnlockedCount:      imp.unlocked,
			NearMatchRecipeIDs: imp.nearMatches,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].UnlockedCount != results[j].UnlockedCount {
			return results[i].UnlockedCount > results[j].UnlockedCount
		}
		advI := len(results[i].NearMatchRecipeIDs) - results[i].UnlockedCount
		advJ := len(results[j].NearMatchRecipeIDs) - results[j].UnlockedCount
		if advI != advJ {
			return advI > advJ
		}
		return results[i].IngredientName < results[j].IngredientName
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}
