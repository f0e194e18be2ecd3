package match

import (
	"testing"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPercentageAndMissingOrder(t *testing.T) {
	c := testCatalog(t)
	m := NewMatcher(c)

	recipe, ok := c.RecipeByID("rec-pancakes")
	require.True(t, ok)

	pantry := PantrySet([]string{"ing-egg", "ing-flour"})
	res, err := m.Match(pantry, recipe)
	require.NoError(t, err)

	assert.Equal(t, 2, res.MatchedCount)
	assert.Equal(t, 3, res.TotalRequired)
	assert.Equal(t, 67, res.MatchPercentage) // round(2/3*100)
	assert.Equal(t, []string{"ing-milk"}, res.MissingIngredientIDs)
	assert.Equal(t, []string{"milk"}, res.MissingIngredients)
	assert.False(t, res.Makeable())
	assert.True(t, res.NearMatch())
}

func TestMatchFullAndEmptyPantry(t *testing.T) {
	c := testCatalog(t)
	m := NewMatcher(c)

	recipe, _ := c.RecipeByID("rec-grilled-chicken")

	full, err := m.Match(PantrySet([]string{"ing-chicken", "ing-olive-oil"}), recipe)
	require.NoError(t, err)
	assert.Equal(t, 100, full.MatchPercentage)
	assert.True(t, full.Makeable())
	assert.Empty(t, full.MissingIngredientIDs)

	empty, err := m.Match(map[string]struct{}{}, recipe)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.MatchPercentage)
	assert.Len(t, empty.MissingIngredientIDs, 2)
}

func TestMatchMissingOrderFollowsRecipeDeclaration(t *testing.T) {
	c := testCatalog(t)
	m := NewMatcher(c)

	recipe, _ := c.RecipeByID("rec-pomodoro")
	res, err := m.Match(PantrySet([]string{"ing-tomato"}), recipe)
	require.NoError(t, err)

	// 依食譜宣告順序，不是字母序
	assert.Equal(t, []string{"ing-pasta", "ing-basil", "ing-olive-oil"}, res.MissingIngredientIDs)
	assert.Equal(t, []string{"pasta", "basil", "olive oil"}, res.MissingIngredients)
}

func TestMatchRejectsRecipeWithoutIngredients(t *testing.T) {
	c := testCatalog(t)
	m := NewMatcher(c)

	_, err := m.Match(map[string]struct{}{}, &catalog.Recipe{ID: "bad", Name: "Bad"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidRecipe)
}

func TestMatchAllDeterministicOrder(t *testing.T) {
	c := testCatalog(t)
	m := NewMatcher(c)

	// egg + milk：Omelette 67%、Pancakes 67%、其餘更低。
	// 同分時按名稱字母序：Omelette 在 Pancakes 前。
	pantry := PantrySet([]string{"ing-egg", "ing-milk"})

	first := m.MatchAll(pantry, c.Recipes())
	require.Len(t, first, 4)
	assert.Equal(t, "rec-omelette", first[0].RecipeID)
	assert.Equal(t, "rec-pancakes", first[1].RecipeID)
	assert.Equal(t, 67, first[0].MatchPercentage)
	assert.Equal(t, 67, first[1].MatchPercentage)

	// 重複呼叫結果必定相同
	for i := 0; i < 5; i++ {
		again := m.MatchAll(pantry, c.Recipes())
		assert.Equal(t, first, again)
	}
}

func TestMatchAllEmptyPantryAllZero(t *testing.T) {
	c := testCatalog(t)
	m := NewMatcher(c)

	results := m.MatchAll(map[string]struct{}{}, c.Recipes())
	require.Len(t, results, 4)
	for _, res := range results {
		assert.Equal(t, 0, res.MatchPercentage)
		assert.False(t, res.NearMatch())
	}
}
