package match

import (
	"strings"

	"pantry-chef/internal/core/catalog"
)

// Substitute 單一替代方案
type Substitute struct {
	Name    string   `json:"name"`
	Ratio   string   `json:"ratio"`
	BestFor []string `json:"best_for"`
	Notes   string   `json:"notes"`
}

// substitutionTable 常見問題食材的替代方案表
var substitutionTable = map[string][]Substitute{
	"milk": {
		{Name: "almond milk", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "Use unsweetened for savory dishes"},
		{Name: "oat milk", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free", "nut-free"}, Notes: "Great for baking and cooking"},
		{Name: "soy milk", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "High protein content, works well in all recipes"},
	},
	"butter": {
		{Name: "vegan butter", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "Use same amount, melts similarly"},
		{Name: "olive oil", Ratio: "3/4 cup oil = 1 cup butter", BestFor: []string{"vegan", "dairy-free"}, Notes: "Best for sautéing and roasting"},
		{Name: "coconut oil", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "Great for baking, use refined for no coconut taste"},
	},
	"cheese": {
		{Name: "vegan cheese", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "Some brands melt better than others"},
		{Name: "nutritional yeast", Ratio: "2-3 tbsp per 1/4 cup cheese", BestFor: []string{"vegan", "dairy-free"}, Notes: "Great for cheesy flavor without dairy"},
		{Name: "cashew cream", Ratio: "varies by recipe", BestFor: []string{"vegan", "dairy-free"}, Notes: "Soak cashews first, blend smooth"},
	},
	"cream": {
		{Name: "coconut cream", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "Chill can and use thick top layer"},
		{Name: "cashew cream", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free"}, Notes: "Blend soaked cashews with water"},
		{Name: "oat cream", Ratio: "1:1", BestFor: []string{"vegan", "dairy-free", "nut-free"}, Notes: "Commercial versions available"},
	},
	"egg": {
		{Name: "flax egg", Ratio: "1 tbsp ground flax + 3 tbsp water = 1 egg", BestFor: []string{"vegan"}, Notes: "Let sit 5 minutes to thicken"},
		{Name: "chia egg", Ratio: "1 tbsp chia + 3 tbsp water = 1 egg", BestFor: []string{"vegan"}, Notes: "Works best in dense baked goods"},
		{Name: "applesauce", Ratio: "1/4 cup = 1 egg", BestFor: []string{"vegan"}, Notes: "Adds slight sweetness, good in muffins"},
	},
	"flour": {
		{Name: "almond flour", Ratio: "1:1 with adjustments", BestFor: []string{"gluten-free"}, Notes: "Denser result, add extra binding"},
		{Name: "rice flour", Ratio: "7/8 cup = 1 cup wheat", BestFor: []string{"gluten-free", "nut-free"}, Notes: "Best blended with other GF flours"},
		{Name: "coconut flour", Ratio: "1/4 cup coconut = 1 cup wheat", BestFor: []string{"gluten-free"}, Notes: "Needs more liquid, use less"},
	},
	"pasta": {
		{Name: "rice noodles", Ratio: "1:1", BestFor: []string{"gluten-free"}, Notes: "Cook briefly, they soften fast"},
		{Name: "zucchini noodles", Ratio: "1:1 by volume", BestFor: []string{"gluten-free"}, Notes: "Saute lightly, do not boil"},
	},
	"bread": {
		{Name: "gluten-free bread", Ratio: "1:1", BestFor: []string{"gluten-free"}, Notes: "Toast for better texture"},
		{Name: "lettuce wraps", Ratio: "varies", BestFor: []string{"gluten-free"}, Notes: "Works for sandwiches and burgers"},
	},
}

// SubstitutionFinder 為食材找出符合飲食限制的替代方案
type SubstitutionFinder struct {
	catalog    *catalog.Catalog
	normalizer *Normalizer
}

// NewSubstitutionFinder 建立替代方案查詢器
func NewSubstitutionFinder(c *catalog.Catalog) *SubstitutionFinder {
	return &SubstitutionFinder{
		catalog:    c,
		normalizer: NewNormalizer(c),
	}
}

// ForIngredient 查詢指定食材的替代方案。
// 沒有限制時回傳全部；有限制時保留至少適用其中一項限制的方案，
// 且方案若存在於目錄中，必須通過飲食標籤檢查。
// 未知食材回傳 ErrNotFound；有此食材但無替代表時回傳空清單。
func (f *SubstitutionFinder) ForIngredient(ingredientID string, restrictions []string) ([]Substitute, error) {
	ing, ok := f.catalog.IngredientByID(ingredientID)
	if !ok {
		return nil, ErrNotFound
	}

	subs, ok := substitutionTable[ing.Name]
	if !ok {
		return []Substitute{}, nil
	}

	if len(restrictions) == 0 {
		return append([]Substitute(nil), subs...), nil
	}

	normalized := make([]string, 0, len(restrictions))
	for _, r := range restrictions {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(r)))
	}

	var out []Substitute
	for _, sub := range subs {
		if !helpsAnyRestriction(sub, normalized) {
			continue
		}
		if !f.passesTagCheck(sub.Name, normalized) {
			continue
		}
		out = append(out, sub)
	}
	if out == nil {
		out = []Substitute{}
	}
	return out, nil
}

// helpsAnyRestriction 方案是否對任一限制有幫助
func helpsAnyRestriction(sub Substitute, restrictions []string) bool {
	for _, r := range restrictions {
		for _, b := range sub.BestFor {
			if r == b {
				return true
			}
		}
	}
	return false
}

// passesTagCheck 若方案本身是目錄食材，檢查其標籤不違反任何限制
func (f *SubstitutionFinder) passesTagCheck(name string, restrictions []string) bool {
	candidate, ok := f.catalog.IngredientByName(name)
	if !ok {
		return true // 不在目錄中的方案只能依 best_for 判斷
	}
	for _, r := range restrictions {
		excluded, known := restrictionExclusions[r]
		if !known {
			continue
		}
		for _, tag := range candidate.Tags {
			for _, ex := range excluded {
				if strings.EqualFold(tag, ex) {
					return false
				}
			}
		}
	}
	return true
}
