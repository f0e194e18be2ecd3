package match

import (
	"sort"
	"strings"

	"pantry-chef/internal/core/catalog"
)

// Normalizer 將自由輸入的食材名稱對應到目錄中的正規名稱。
// 比對順序：完全相符 → 詞彙重疊 → 有界編輯距離。
// 對目錄快照而言是純函式，沒有任何副作用。
type Normalizer struct {
	catalog *catalog.Catalog
}

// NewNormalizer 建立正規化器
func NewNormalizer(c *catalog.Catalog) *Normalizer {
	return &Normalizer{catalog: c}
}

// Normalize 回傳輸入對應的正規名稱，找不到時回傳 ErrNotFound。
// 呼叫端自行決定把 ErrNotFound 當硬錯誤或當未知食材放行。
func (n *Normalizer) Normalize(raw string) (string, error) {
	canon := catalog.CanonicalName(raw)
	if canon == "" {
		return "", ErrNotFound
	}

	// (a) 完全相符
	if _, ok := n.catalog.IngredientByName(canon); ok {
		return canon, nil
	}

	names := n.catalog.IngredientNames()

	// (b) 詞彙重疊：輸入的顯著詞全部出現在候選中，或反過來
	if name, ok := tokenOverlapMatch(canon, names); ok {
		return name, nil
	}

	// (c) 有界編輯距離：短名稱容忍 2、其餘容忍 3，
	// 取距離最小者，距離相同時按字母序（names 已排序）
	threshold := 3
	if len([]rune(canon)) < 8 {
		threshold = 2
	}
	best := ""
	bestDist := threshold + 1
	for _, name := range names {
		if d := levenshtein(canon, name); d < bestDist {
			best = name
			bestDist = d
		}
	}
	if best != "" {
		return best, nil
	}

	return "", ErrNotFound
}

// Resolve 如 Normalize，但直接回傳目錄食材
func (n *Normalizer) Resolve(raw string) (*catalog.Ingredient, error) {
	name, err := n.Normalize(raw)
	if err != nil {
		return nil, err
	}
	ing, ok := n.catalog.IngredientByName(name)
	if !ok {
		return nil, ErrNotFound
	}
	return ing, nil
}

// ResolveAll 批次解析，無法對應的輸入收進 unmatched 而不是失敗
func (n *Normalizer) ResolveAll(raws []string) (ids []string, unmatched []string) {
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		ing, err := n.Resolve(raw)
		if err != nil {
			unmatched = append(unmatched, strings.TrimSpace(raw))
			continue
		}
		if _, dup := seen[ing.ID]; dup {
			continue
		}
		seen[ing.ID] = struct{}{}
		ids = append(ids, ing.ID)
	}
	return ids, unmatched
}

// significantTokens 取出長度至少 3 的詞
func significantTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if len(tok) >= 3 {
			out = append(out, tok)
		}
	}
	return out
}

// tokenOverlapMatch 在候選名稱中找詞彙重疊者，多個候選時取字母序最小
func tokenOverlapMatch(input string, names []string) (string, bool) {
	inputToks := significantTokens(input)
	if len(inputToks) == 0 {
		return "", false
	}

	var candidates []string
	for _, name := range names {
		nameToks := significantTokens(name)
		if len(nameToks) == 0 {
			continue
		}
		if tokensContained(inputToks, nameToks) || tokensContained(nameToks, inputToks) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

// tokensContained 檢查 subset 的每個詞都出現在 superset
func tokensContained(subset, superset []string) bool {
	set := make(map[string]struct{}, len(superset))
	for _, t := range superset {
		set[t] = struct{}{}
	}
	for _, t := range subset {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// levenshtein 計算兩字串的編輯距離（兩列 DP）
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
