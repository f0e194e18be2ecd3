package catalog

import (
	"fmt"
	"sort"

	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Catalog 食材與食譜的記憶體快照。載入完成後視為唯讀，
// 核心演算法一律操作這份快照，不直接碰持久層。
type Catalog struct {
	ingredientsByID   map[string]*Ingredient
	ingredientsByName map[string]*Ingredient // 以正規化名稱為鍵
	recipesByID       map[string]*Recipe
	recipeOrder       []string // 維持載入順序
}

// NewCatalog 建立空目錄
func NewCatalog() *Catalog {
	return &Catalog{
		ingredientsByID:   make(map[string]*Ingredient),
		ingredientsByName: make(map[string]*Ingredient),
		recipesByID:       make(map[string]*Recipe),
	}
}

// AddIngredient 加入食材；兩個食材正規化後同名違反目錄不變量
func (c *Catalog) AddIngredient(ing *Ingredient) error {
	if _, exists := c.ingredientsByID[ing.ID]; exists {
		return fmt.Errorf("duplicate ingredient id %q", ing.ID)
	}
	if prev, exists := c.ingredientsByName[ing.Name]; exists {
		return fmt.Errorf("ingredient %q canonicalizes to the same name as %q", ing.ID, prev.ID)
	}
	c.ingredientsByID[ing.ID] = ing
	c.ingredientsByName[ing.Name] = ing
	return nil
}

// AddRecipe 加入食譜；所需食材必須存在於目錄
func (c *Catalog) AddRecipe(r *Recipe) error {
	if _, exists := c.recipesByID[r.ID]; exists {
		return fmt.Errorf("duplicate recipe id %q", r.ID)
	}
	for _, ri := range r.Ingredients {
		if _, ok := c.ingredientsByID[ri.IngredientID]; !ok {
			return fmt.Errorf("%w: recipe %q references unknown ingredient %q",
				common.ErrInvalidRecipe, r.Name, ri.IngredientID)
		}
	}
	c.recipesByID[r.ID] = r
	c.recipeOrder = append(c.recipeOrder, r.ID)
	return nil
}

// IngredientByID 依 ID 查食材
func (c *Catalog) IngredientByID(id string) (*Ingredient, bool) {
	ing, ok := c.ingredientsByID[id]
	return ing, ok
}

// IngredientByName 依正規化名稱查食材
func (c *Catalog) IngredientByName(name string) (*Ingredient, bool) {
	ing, ok := c.ingredientsByName[CanonicalName(name)]
	return ing, ok
}

// RecipeByID 依 ID 查食譜
func (c *Catalog) RecipeByID(id string) (*Recipe, bool) {
	r, ok := c.recipesByID[id]
	return r, ok
}

// Recipes 依載入順序回傳所有食譜
func (c *Catalog) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipesByID[id])
	}
	return out
}

// IngredientNames 回傳所有正規化名稱（排序後），供模糊比對使用
func (c *Catalog) IngredientNames() []string {
	names := make([]string, 0, len(c.ingredientsByName))
	for name := range c.ingredientsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IngredientCount 目錄內食材數
func (c *Catalog) IngredientCount() int {
	return len(c.ingredientsByID)
}

// RecipeCount 目錄內食譜數
func (c *Catalog) RecipeCount() int {
	return len(c.recipesByID)
}

// rawCatalog 目錄 JSON 的外層結構
type rawCatalog struct {
	Ingredients []rawIngredient `json:"ingredients"`
	Recipes     []rawRecipe     `json:"recipes"`
}

type rawIngredient struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Unit        string   `json:"unit"`
	Tags        []string `json:"tags"`
	CostPerUnit float64  `json:"cost_per_unit"`
}

type rawRecipe struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	TotalTime   int                  `json:"total_time"`
	SkillLevel  string               `json:"skill_level"`
	Servings    int                  `json:"servings"`
	Steps       []Step               `json:"steps"`
	Ingredients []RequiredIngredient `json:"ingredients"`
	Appliances  []string             `json:"appliances"`
}

// build 將原始資料轉為目錄。不合法的食譜記錄後跳過，
// 不中斷整批載入；不合法的食材視為致命錯誤。
func build(raw *rawCatalog) (*Catalog, error) {
	c := NewCatalog()

	for _, ri := range raw.Ingredients {
		ing, err := NewIngredient(ri.ID, ri.Name, ri.Unit, ri.Tags, ri.CostPerUnit)
		if err != nil {
			return nil, fmt.Errorf("invalid ingredient %q: %w", ri.ID, err)
		}
		if err := c.AddIngredient(ing); err != nil {
			return nil, err
		}
	}

	skipped := 0
	for _, rr := range raw.Recipes {
		r, err := NewRecipe(rr.ID, rr.Name, rr.Description, rr.TotalTime,
			SkillLevel(rr.SkillLevel), rr.Servings, rr.Steps, rr.Ingredients, rr.Appliances)
		if err != nil {
			common.LogWarn("跳過不合法的食譜",
				zap.String("recipe_id", rr.ID),
				zap.Error(err),
			)
			skipped++
			continue
		}
		if err := c.AddRecipe(r); err != nil {
			common.LogWarn("跳過無法加入目錄的食譜",
				zap.String("recipe_id", rr.ID),
				zap.Error(err),
			)
			skipped++
			continue
		}
	}

	common.LogInfo("目錄載入完成",
		zap.Int("食材數", c.IngredientCount()),
		zap.Int("食譜數", c.RecipeCount()),
		zap.Int("跳過數", skipped),
	)

	return c, nil
}
