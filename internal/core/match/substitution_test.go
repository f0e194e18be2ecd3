package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutionsWithoutRestrictions(t *testing.T) {
	f := NewSubstitutionFinder(testCatalog(t))

	subs, err := f.ForIngredient("ing-milk", nil)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "almond milk", subs[0].Name)
}

func TestSubstitutionsFilteredByRestriction(t *testing.T) {
	f := NewSubstitutionFinder(testCatalog(t))

	// nut-free 只留下標了 nut-free 的方案
	subs, err := f.ForIngredient("ing-milk", []string{"nut-free"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "oat milk", subs[0].Name)

	// dairy-free 三個方案都適用
	subs, err = f.ForIngredient("ing-milk", []string{"dairy-free"})
	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

func TestSubstitutionsUnknownIngredient(t *testing.T) {
	f := NewSubstitutionFinder(testCatalog(t))

	_, err := f.ForIngredient("ing-unobtainium", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubstitutionsNoTableEntry(t *testing.T) {
	f := NewSubstitutionFinder(testCatalog(t))

	// 番茄存在於目錄但沒有替代表
	subs, err := f.ForIngredient("ing-tomato", nil)
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.NotNil(t, subs)
}

func TestSubstitutionsUnhelpfulRestrictionYieldsEmpty(t *testing.T) {
	f := NewSubstitutionFinder(testCatalog(t))

	// 麩質限制跟牛奶的替代方案無關，全部被過濾掉
	subs, err := f.ForIngredient("ing-milk", []string{"gluten-free"})
	require.NoError(t, err)
	assert.Empty(t, subs)
}
