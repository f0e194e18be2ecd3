package match

import (
	"testing"

	"pantry-chef/internal/core/catalog"

	"github.com/stretchr/testify/require"
)

// testCatalog 建立測試用目錄：涵蓋肉類、乳製品、麩質等標籤，
// 以及足夠觸發各種配對情境的食譜
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c := catalog.NewCatalog()

	ingredients := []struct {
		id   string
		name string
		tags []string
	}{
		{"ing-egg", "egg", []string{"egg"}},
		{"ing-flour", "flour", []string{"contains-gluten"}},
		{"ing-milk", "milk", []string{"dairy"}},
		{"ing-cheese", "cheese", []string{"dairy"}},
		{"ing-tomato", "tomato", nil},
		{"ing-basil", "basil", nil},
		{"ing-pasta", "pasta", []string{"contains-gluten"}},
		{"ing-chicken", "chicken", []string{"meat"}},
		{"ing-olive-oil", "olive oil", nil},
	}
	for _, in := range ingredients {
		ing, err := catalog.NewIngredient(in.id, in.name, "", in.tags, 0)
		require.NoError(t, err)
		require.NoError(t, c.AddIngredient(ing))
	}

	recipes := []struct {
		id          string
		name        string
		ingredients []catalog.RequiredIngredient
	}{
		{"rec-pancakes", "Pancakes", []catalog.RequiredIngredient{
			{IngredientID: "ing-egg"},
			{IngredientID: "ing-flour"},
			{IngredientID: "ing-milk"},
		}},
		{"rec-omelette", "Omelette", []catalog.RequiredIngredient{
			{IngredientID: "ing-egg"},
			{IngredientID: "ing-cheese"},
			{IngredientID: "ing-milk"},
		}},
		{"rec-pomodoro", "Pasta Pomodoro", []catalog.RequiredIngredient{
			{IngredientID: "ing-pasta"},
			{IngredientID: "ing-tomato"},
			{IngredientID: "ing-basil"},
			{IngredientID: "ing-olive-oil"},
		}},
		{"rec-grilled-chicken", "Grilled Chicken", []catalog.RequiredIngredient{
			{IngredientID: "ing-chicken"},
			{IngredientID: "ing-olive-oil"},
		}},
	}
	for _, r := range recipes {
		recipe, err := catalog.NewRecipe(r.id, r.name, "", 30, catalog.SkillBeginner, 2, nil, r.ingredients, nil)
		require.NoError(t, err)
		require.NoError(t, c.AddRecipe(recipe))
	}

	return c
}
