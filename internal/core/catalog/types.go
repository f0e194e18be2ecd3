package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"pantry-chef/internal/pkg/common"
)

// SkillLevel 食譜難度
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// Ingredient 食材主檔，建立後除管理修正外不可變
type Ingredient struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"` // 正規化後的名稱，全目錄唯一
	Unit        string   `json:"unit"`
	Tags        []string `json:"tags"` // 飲食分類標籤，如 "dairy"、"contains-gluten"
	CostPerUnit float64  `json:"cost_per_unit"`
}

// RequiredIngredient 食譜所需食材，數量為自由文字、僅供顯示
type RequiredIngredient struct {
	IngredientID string `json:"ingredient_id"`
	Amount       string `json:"amount"`
}

// Step 食譜步驟
type Step struct {
	Number      int    `json:"step"`
	Instruction string `json:"instruction"`
	TimeMinutes int    `json:"time,omitempty"`
}

// Recipe 食譜，載入後不可變
type Recipe struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	TotalTime   int                  `json:"total_time"`
	SkillLevel  SkillLevel           `json:"skill_level"`
	Servings    int                  `json:"servings"`
	Steps       []Step               `json:"steps"`
	Ingredients []RequiredIngredient `json:"ingredients"` // 宣告順序即缺料清單順序
	Appliances  []string             `json:"appliances"`
}

// PantryEntry 用戶儲藏室項目
type PantryEntry struct {
	UserID       string     `json:"user_id"`
	IngredientID string     `json:"ingredient_id"`
	Amount       float64    `json:"amount"`
	ExpDate      *time.Time `json:"exp_date,omitempty"`
}

// NewIngredient 建立食材，名稱會先正規化
func NewIngredient(id, name, unit string, tags []string, costPerUnit float64) (*Ingredient, error) {
	canonical := CanonicalName(name)
	if canonical == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}
	if id == "" {
		return nil, common.NewValidationError("ingredient id is required")
	}
	if tags == nil {
		tags = []string{}
	}
	return &Ingredient{
		ID:          id,
		Name:        canonical,
		Unit:        unit,
		Tags:        tags,
		CostPerUnit: costPerUnit,
	}, nil
}

// NewRecipe 建立食譜並驗證；沒有任何所需食材視為設定錯誤（INVALID_RECIPE）
func NewRecipe(id, name, description string, totalTime int, skill SkillLevel, servings int,
	steps []Step, ingredients []RequiredIngredient, appliances []string) (*Recipe, error) {
	if id == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: recipe id and name are required", common.ErrInvalidRecipe)
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: recipe %q has no required ingredients", common.ErrInvalidRecipe, name)
	}
	switch skill {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
	case "":
		skill = SkillBeginner
	default:
		return nil, fmt.Errorf("%w: recipe %q has unknown skill level %q", common.ErrInvalidRecipe, name, skill)
	}
	seen := make(map[string]struct{}, len(ingredients))
	for _, ri := range ingredients {
		if ri.IngredientID == "" {
			return nil, fmt.Errorf("%w: recipe %q references an empty ingredient id", common.ErrInvalidRecipe, name)
		}
		if _, dup := seen[ri.IngredientID]; dup {
			return nil, fmt.Errorf("%w: recipe %q lists ingredient %q twice", common.ErrInvalidRecipe, name, ri.IngredientID)
		}
		seen[ri.IngredientID] = struct{}{}
	}
	if appliances == nil {
		appliances = []string{}
	}
	return &Recipe{
		ID:          id,
		Name:        name,
		Description: description,
		TotalTime:   totalTime,
		SkillLevel:  skill,
		Servings:    servings,
		Steps:       steps,
		Ingredients: ingredients,
		Appliances:  appliances,
	}, nil
}

// RequiredIDs 依宣告順序回傳所需食材 ID
func (r *Recipe) RequiredIDs() []string {
	ids := make([]string, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ids = append(ids, ri.IngredientID)
	}
	return ids
}

// CanonicalName 將食材名稱轉為唯一的正規形式：
// 小寫、去除標點、連續空白合併為一格
func CanonicalName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			b.WriteRune(' ')
		default:
			// 其餘標點直接去除
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
