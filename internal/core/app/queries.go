package app

import (
	"context"
	"strings"
	"time"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/core/event"
	"pantry-chef/internal/core/match"
	"pantry-chef/internal/core/readmodel"
	"pantry-chef/internal/pkg/common"
)

// ProfileView 個人檔案的查詢視圖
type ProfileView struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	DietaryRestrictions []string   `json:"dietary_restrictions"`
	SkillLevel          string     `json:"skill_level"`
	Appliances          []string   `json:"appliances"`
	PantryCount         int        `json:"pantry_count"`
	FavoriteCount       int        `json:"favorite_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

// PantryItemView 儲藏室項目的查詢視圖
type PantryItemView struct {
	IngredientID string     `json:"ingredient_id"`
	Name         string     `json:"name"`
	Unit         string     `json:"unit,omitempty"`
	Amount       float64    `json:"amount"`
	ExpDate      *time.Time `json:"exp_date,omitempty"`
}

// SearchResponse 儲藏室搜尋的回應。不相容的食譜分開呈現而不是丟掉，
// 用戶才看得到「差一點就能吃」的選項。
type SearchResponse struct {
	UserID       string              `json:"user_id"`
	Compatible   []match.MatchResult `json:"compatible"`
	Incompatible []match.MatchResult `json:"incompatible"`
	ComputedAt   time.Time           `json:"computed_at"`
	FromCache    bool                `json:"from_cache"`
}

// AnonymousSearchResponse 匿名搜尋的回應，附上無法比對的輸入警告
type AnonymousSearchResponse struct {
	Compatible   []match.MatchResult `json:"compatible"`
	Incompatible []match.MatchResult `json:"incompatible"`
	Unmatched    []string            `json:"unmatched,omitempty"`
}

// SuggestionResponse 購物建議的回應
type SuggestionResponse struct {
	UserID      string                   `json:"user_id"`
	TopK        int                      `json:"top_k"`
	Suggestions []match.SuggestionResult `json:"suggestions"`
	FromCache   bool                     `json:"from_cache"`
}

// SubstitutionResponse 替代方案查詢的回應
type SubstitutionResponse struct {
	IngredientID   string             `json:"ingredient_id"`
	IngredientName string             `json:"ingredient_name"`
	Restrictions   []string           `json:"restrictions"`
	Substitutes    []match.Substitute `json:"substitutes"`
}

// SearchFilters 搜尋結果的選用過濾條件，配對計算後才套用。
// 快取的視圖保持未過濾，過濾只作用在回應的副本上。
type SearchFilters struct {
	MaxTime    int    `json:"max_time"`
	SkillLevel string `json:"skill_level"`
}

func (f SearchFilters) empty() bool {
	return f.MaxTime == 0 && f.SkillLevel == ""
}

// allows 回報食譜是否通過過濾；未標時間的食譜在時間過濾下視為超時
func (f SearchFilters) allows(r *catalog.Recipe) bool {
	if f.MaxTime > 0 && (r.TotalTime <= 0 || r.TotalTime > f.MaxTime) {
		return false
	}
	if f.SkillLevel != "" && !strings.EqualFold(string(r.SkillLevel), f.SkillLevel) {
		return false
	}
	return true
}

// Search 回傳用戶的配對結果，能用快取就用快取，
// 失效後的第一次查詢觸發重算。每次搜尋都發布 RECIPE_SEARCH_PERFORMED。
func (s *Service) Search(ctx context.Context, userID string, filters SearchFilters) (*SearchResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}

	view, hit := s.store.GetSearch(ctx, userID)
	if !hit {
		view = s.computeSearchView(user)
		s.store.SetSearch(ctx, userID, view)
	}

	compatible := s.filterResults(view.Compatible, filters)
	incompatible := s.filterResults(view.Incompatible, filters)

	s.bus.Publish(event.New(event.TypeRecipeSearchPerformed, userID, map[string]any{
		"ingredients":  s.pantryNames(user),
		"result_count": len(compatible),
		"from_cache":   hit,
	}))

	return &SearchResponse{
		UserID:       userID,
		Compatible:   compatible,
		Incompatible: incompatible,
		ComputedAt:   view.ComputedAt,
		FromCache:    hit,
	}, nil
}

// SearchByIngredients 以自由輸入的食材名稱做匿名搜尋。
// 無法比對的名稱不讓整個查詢失敗，收進 Unmatched 警告即可。
func (s *Service) SearchByIngredients(rawNames, restrictions []string, filters SearchFilters) (*AnonymousSearchResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, unmatched := s.normalizer.ResolveAll(rawNames)
	pantry := match.PantrySet(ids)

	compatible, incompatible := s.splitByDietary(pantry, restrictions)
	compatible = s.filterResults(compatible, filters)
	incompatible = s.filterResults(incompatible, filters)

	s.bus.Publish(event.New(event.TypeRecipeSearchPerformed, "anonymous", map[string]any{
		"ingredients":  rawNames,
		"result_count": len(compatible),
	}))

	return &AnonymousSearchResponse{
		Compatible:   compatible,
		Incompatible: incompatible,
		Unmatched:    unmatched,
	}, nil
}

// SuggestShopping 回傳排名前 k 的購物建議。
// k 為 0 時採預設值，超過上限時收斂到上限；負數由引擎擋下。
func (s *Service) SuggestShopping(ctx context.Context, userID string, k int) (*SuggestionResponse, error) {
	if k == 0 {
		k = s.cfg.Suggestion.DefaultTopK
	}
	if k > s.cfg.Suggestion.MaxTopK {
		k = s.cfg.Suggestion.MaxTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}

	view, hit := s.store.GetSuggestions(ctx, userID, k)
	if !hit {
		suggestions, err := s.suggester.Suggest(user.pantrySet(), s.catalog.Recipes(), k)
		if err != nil {
			return nil, err
		}
		view = &readmodel.SuggestionView{
			TopK:        k,
			Suggestions: suggestions,
			ComputedAt:  time.Now(),
		}
		s.store.SetSuggestions(ctx, userID, view)
	}

	return &SuggestionResponse{
		UserID:      userID,
		TopK:        k,
		Suggestions: view.Suggestions,
		FromCache:   hit,
	}, nil
}

// GetSubstitutions 查詢食材的替代方案；ref 可為目錄 ID 或自由輸入名稱
func (s *Service) GetSubstitutions(ref string, restrictions []string) (*SubstitutionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, ok := s.catalog.IngredientByID(ref)
	if !ok {
		var err error
		ing, err = s.normalizer.Resolve(ref)
		if err != nil {
			return nil, common.ErrIngredientNotFound
		}
	}
	if restrictions == nil {
		restrictions = []string{}
	}

	subs, err := s.subs.ForIngredient(ing.ID, restrictions)
	if err != nil {
		return nil, common.ErrIngredientNotFound
	}

	return &SubstitutionResponse{
		IngredientID:   ing.ID,
		IngredientName: ing.Name,
		Restrictions:   restrictions,
		Substitutes:    subs,
	}, nil
}

// GetProfile 回傳用戶的個人檔案
func (s *Service) GetProfile(userID string) (ProfileView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return ProfileView{}, common.ErrUserNotFound
	}
	return profileView(user), nil
}

// GetPantry 依加入順序回傳用戶的儲藏室
func (s *Service) GetPantry(userID string) ([]PantryItemView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}

	items := make([]PantryItemView, 0, len(user.pantryOrder))
	for _, entry := range user.pantryEntries() {
		ing, ok := s.catalog.IngredientByID(entry.IngredientID)
		if !ok {
			continue
		}
		items = append(items, pantryItemView(entry, ing))
	}
	return items, nil
}

// GetFavorites 依收藏順序回傳用戶收藏的食譜
func (s *Service) GetFavorites(userID string) ([]*catalog.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}

	recipes := make([]*catalog.Recipe, 0, len(user.favorites))
	for _, id := range user.favoriteIDs() {
		if r, ok := s.catalog.RecipeByID(id); ok {
			recipes = append(recipes, r)
		}
	}
	return recipes, nil
}

// GetRecipe 依 ID 回傳食譜
func (s *Service) GetRecipe(recipeID string) (*catalog.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.catalog.RecipeByID(recipeID)
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	return r, nil
}

// LookupTerm 查詢烹飪術語
func (s *Service) LookupTerm(term string) (string, error) {
	definition, ok := catalog.LookupTerm(term)
	if !ok {
		return "", common.ErrNotFound
	}
	return definition, nil
}

// Analytics 回傳系統層級的會話統計與快取統計
func (s *Service) Analytics() map[string]any {
	return map[string]any{
		"session": s.analytics.System(),
		"cache":   s.store.Stats(),
	}
}

// UserAnalytics 回傳指定用戶的搜尋統計
func (s *Service) UserAnalytics(userID string) (readmodel.UserAnalytics, error) {
	s.mu.RLock()
	_, ok := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		return readmodel.UserAnalytics{}, common.ErrUserNotFound
	}
	return s.analytics.ForUser(userID), nil
}

// computeSearchView 重算用戶的配對視圖，呼叫端至少持有讀鎖
func (s *Service) computeSearchView(user *User) *readmodel.SearchView {
	compatible, incompatible := s.splitByDietary(user.pantrySet(), user.DietaryRestrictions)
	return &readmodel.SearchView{
		Compatible:   compatible,
		Incompatible: incompatible,
		ComputedAt:   time.Now(),
	}
}

// splitByDietary 對整個目錄計算配對結果並依飲食相容性分組。
// 兩組各自維持（百分比、名稱、ID）的排序。
func (s *Service) splitByDietary(pantry map[string]struct{}, restrictions []string) (compatible, incompatible []match.MatchResult) {
	compatible = []match.MatchResult{}
	incompatible = []match.MatchResult{}

	for _, res := range s.matcher.MatchAll(pantry, s.catalog.Recipes()) {
		r, ok := s.catalog.RecipeByID(res.RecipeID)
		if !ok {
			continue
		}
		ok, violations := s.dietary.Check(r, restrictions)
		res.DietaryCompatible = ok
		res.Violations = violations
		if ok {
			compatible = append(compatible, res)
		} else {
			incompatible = append(incompatible, res)
		}
	}
	return compatible, incompatible
}

// filterResults 依過濾條件挑出結果，保留原有排序
func (s *Service) filterResults(results []match.MatchResult, filters SearchFilters) []match.MatchResult {
	if filters.empty() {
		return results
	}
	kept := make([]match.MatchResult, 0, len(results))
	for _, res := range results {
		r, ok := s.catalog.RecipeByID(res.RecipeID)
		if !ok || !filters.allows(r) {
			continue
		}
		kept = append(kept, res)
	}
	return kept
}

// pantryNames 儲藏室食材名稱，依加入順序
func (s *Service) pantryNames(user *User) []string {
	names := make([]string, 0, len(user.pantryOrder))
	for _, id := range user.pantryOrder {
		if ing, ok := s.catalog.IngredientByID(id); ok {
			names = append(names, ing.Name)
		}
	}
	return names
}

func profileView(u *User) ProfileView {
	return ProfileView{
		ID:                  u.ID,
		Name:                u.Name,
		DietaryRestrictions: append([]string(nil), u.DietaryRestrictions...),
		SkillLevel:          string(u.SkillLevel),
		Appliances:          append([]string(nil), u.Appliances...),
		PantryCount:         len(u.pantry),
		FavoriteCount:       len(u.favorites),
		CreatedAt:           u.CreatedAt,
	}
}

func pantryItemView(entry catalog.PantryEntry, ing *catalog.Ingredient) PantryItemView {
	return PantryItemView{
		IngredientID: entry.IngredientID,
		Name:         ing.Name,
		Unit:         ing.Unit,
		Amount:       entry.Amount,
		ExpDate:      entry.ExpDate,
	}
}
