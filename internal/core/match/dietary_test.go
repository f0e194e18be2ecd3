package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDietaryCheckCollectsAllViolations(t *testing.T) {
	c := testCatalog(t)
	f := NewDietaryFilter(c)

	recipe, ok := c.RecipeByID("rec-pancakes") // egg, flour, milk
	require.True(t, ok)

	compatible, reasons := f.Check(recipe, []string{"vegan"})
	assert.False(t, compatible)
	// 蛋與奶都違反 vegan，兩個都要報
	assert.Equal(t, []string{
		"egg conflicts with restriction: vegan",
		"milk conflicts with restriction: vegan",
	}, reasons)
}

func TestDietaryCheckPerRestrictionReasons(t *testing.T) {
	c := testCatalog(t)
	f := NewDietaryFilter(c)

	recipe, _ := c.RecipeByID("rec-pancakes")

	compatible, reasons := f.Check(recipe, []string{"dairy-free", "gluten-free"})
	assert.False(t, compatible)
	assert.Equal(t, []string{
		"milk conflicts with restriction: dairy-free",
		"flour conflicts with restriction: gluten-free",
	}, reasons)
}

func TestDietaryCheckCompatible(t *testing.T) {
	c := testCatalog(t)
	f := NewDietaryFilter(c)

	recipe, _ := c.RecipeByID("rec-pomodoro") // pasta, tomato, basil, olive oil

	compatible, reasons := f.Check(recipe, []string{"vegan", "nut-free"})
	assert.True(t, compatible)
	assert.Empty(t, reasons)

	compatible, _ = f.Check(recipe, []string{"gluten-free"})
	assert.False(t, compatible) // pasta 含麩質
}

func TestDietaryCheckIgnoresUnknownRestrictions(t *testing.T) {
	c := testCatalog(t)
	f := NewDietaryFilter(c)

	recipe, _ := c.RecipeByID("rec-grilled-chicken")

	compatible, reasons := f.Check(recipe, []string{"keto", "paleo"})
	assert.True(t, compatible)
	assert.Empty(t, reasons)

	// 已知與未知混用時只看已知的
	compatible, reasons = f.Check(recipe, []string{"keto", "vegetarian"})
	assert.False(t, compatible)
	assert.Equal(t, []string{"chicken conflicts with restriction: vegetarian"}, reasons)
}

func TestDietaryCheckNoRestrictions(t *testing.T) {
	c := testCatalog(t)
	f := NewDietaryFilter(c)

	recipe, _ := c.RecipeByID("rec-grilled-chicken")
	compatible, reasons := f.Check(recipe, nil)
	assert.True(t, compatible)
	assert.Empty(t, reasons)
}

func TestRestrictionsSorted(t *testing.T) {
	f := NewDietaryFilter(testCatalog(t))
	assert.Equal(t, []string{"dairy-free", "gluten-free", "nut-free", "vegan", "vegetarian"}, f.Restrictions())
}
