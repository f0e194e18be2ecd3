package match

import (
	"fmt"
	"sort"
	"strings"

	"pantry-chef/internal/core/catalog"
)

// restrictionExclusions 飲食限制對應的禁用分類標籤。
// 鍵與原產品支援的五種限制一致。
var restrictionExclusions = map[string][]string{
	"vegetarian":  {"meat", "fish"},
	"vegan":       {"meat", "fish", "dairy", "egg", "honey"},
	"dairy-free":  {"dairy"},
	"gluten-free": {"contains-gluten"},
	"nut-free":    {"nuts"},
}

// DietaryFilter 判斷食譜是否符合用戶的飲食限制。
// 判斷完全獨立於儲藏室：它決定食譜的可見性分組，不影響配對百分比。
type DietaryFilter struct {
	catalog    *catalog.Catalog
	exclusions map[string][]string
}

// NewDietaryFilter 建立飲食過濾器
func NewDietaryFilter(c *catalog.Catalog) *DietaryFilter {
	return &DietaryFilter{
		catalog:    c,
		exclusions: restrictionExclusions,
	}
}

// Check 檢查食譜與限制集合的相容性。
// 所有衝突一次收齊（不提前返回），用戶才能一次看到全部問題。
// 沒有命中任何已知限制時視為通過；未知的限制標籤直接忽略。
func (f *DietaryFilter) Check(r *catalog.Recipe, restrictions []string) (bool, []string) {
	var reasons []string

	for _, restriction := range restrictions {
		key := strings.ToLower(strings.TrimSpace(restriction))
		excluded, known := f.exclusions[key]
		if !known {
			continue
		}
		excludedSet := make(map[string]struct{}, len(excluded))
		for _, tag := range excluded {
			excludedSet[tag] = struct{}{}
		}

		for _, ri := range r.Ingredients {
			ing, ok := f.catalog.IngredientByID(ri.IngredientID)
			if !ok {
				continue
			}
			for _, tag := range ing.Tags {
				if _, hit := excludedSet[strings.ToLower(tag)]; hit {
					reasons = append(reasons, fmt.Sprintf("%s conflicts with restriction: %s", ing.Name, key))
					break // 同一食材對同一限制只報一次
				}
			}
		}
	}

	return len(reasons) == 0, reasons
}

// Restrictions 回傳支援的限制標籤（排序後）
func (f *DietaryFilter) Restrictions() []string {
	keys := make([]string, 0, len(f.exclusions))
	for k := range f.exclusions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
