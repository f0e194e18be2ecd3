package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExactAfterCanonicalization(t *testing.T) {
	n := NewNormalizer(testCatalog(t))

	cases := map[string]string{
		"tomato":      "tomato",
		"  Tomato  ":  "tomato",
		"TOMATO!":     "tomato",
		"Olive-Oil":   "olive oil",
		"olive_oil":   "olive oil",
		"olive   oil": "olive oil",
	}
	for input, want := range cases {
		got, err := n.Normalize(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestNormalizeTokenOverlap(t *testing.T) {
	n := NewNormalizer(testCatalog(t))

	// 輸入的詞是候選名稱的子集
	got, err := n.Normalize("oil")
	require.NoError(t, err)
	assert.Equal(t, "olive oil", got)

	// 候選名稱的詞是輸入的子集
	got, err = n.Normalize("fresh tomato")
	require.NoError(t, err)
	assert.Equal(t, "tomato", got)
}

func TestNormalizeFuzzyTypo(t *testing.T) {
	n := NewNormalizer(testCatalog(t))

	got, err := n.Normalize("tomatoe")
	require.NoError(t, err)
	assert.Equal(t, "tomato", got)

	got, err = n.Normalize("mlik")
	require.NoError(t, err)
	assert.Equal(t, "milk", got)
}

func TestNormalizeUnknownInput(t *testing.T) {
	n := NewNormalizer(testCatalog(t))

	_, err := n.Normalize("xyz123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = n.Normalize("   ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = n.Normalize("!!!")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAllCollectsUnmatched(t *testing.T) {
	n := NewNormalizer(testCatalog(t))

	ids, unmatched := n.ResolveAll([]string{"egg", "eggs", "tomatoe", "plutonium"})
	// egg 與 eggs 解析到同一食材，只留一筆
	assert.Equal(t, []string{"ing-egg", "ing-tomato"}, ids)
	assert.Equal(t, []string{"plutonium"}, unmatched)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("milk", "milk"))
	assert.Equal(t, 1, levenshtein("milk", "mill"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 4, levenshtein("", "milk"))
}
