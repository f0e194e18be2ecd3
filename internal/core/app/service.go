package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/core/event"
	"pantry-chef/internal/core/match"
	"pantry-chef/internal/core/readmodel"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 應用服務：指令修改寫入端狀態並發布事件，
// 查詢走讀取模型。寫入端狀態（用戶與目錄）由同一把讀寫鎖保護，
// 目錄只在自動註冊新食材時被修改，且一定持有寫鎖。
type Service struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	bus       *event.Bus
	store     *readmodel.Store
	analytics *readmodel.Analytics

	matcher    *match.Matcher
	dietary    *match.DietaryFilter
	suggester  *match.SuggestionEngine
	normalizer *match.Normalizer
	subs       *match.SubstitutionFinder

	mu    sync.RWMutex
	users map[string]*User
}

// NewService 建立應用服務
func NewService(cfg *config.Config, c *catalog.Catalog, bus *event.Bus,
	store *readmodel.Store, analytics *readmodel.Analytics) *Service {
	return &Service{
		cfg:        cfg,
		catalog:    c,
		bus:        bus,
		store:      store,
		analytics:  analytics,
		matcher:    match.NewMatcher(c),
		dietary:    match.NewDietaryFilter(c),
		suggester:  match.NewSuggestionEngine(c),
		normalizer: match.NewNormalizer(c),
		subs:       match.NewSubstitutionFinder(c),
		users:      make(map[string]*User),
	}
}

// CommandResult 指令的分發結果。部分訂閱者失敗不會回滾狀態變更，
// 只化為警告讓呼叫端呈現。
type CommandResult struct {
	Report   event.DispatchReport `json:"dispatch"`
	Warnings []string             `json:"warnings,omitempty"`
}

// PartialFailure 是否有訂閱者失敗
func (r CommandResult) PartialFailure() bool {
	return r.Report.PartialFailure()
}

func commandResult(report event.DispatchReport) CommandResult {
	res := CommandResult{Report: report}
	for _, f := range report.Failed {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%s: subscriber %q failed: %s", common.ErrCodePartialDispatchFailure, f.Subscriber, f.Reason))
	}
	return res
}

// CreateUserInput 建立用戶的輸入。Password 僅為相容舊客戶端而接受，
// 服務本身不做認證，一律忽略。
type CreateUserInput struct {
	Name                string   `json:"name" binding:"required"`
	Password            string   `json:"password"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	SkillLevel          string   `json:"skill_level"`
	Appliances          []string `json:"appliances"`
}

// CreateUser 建立用戶並發布 USER_CREATED
func (s *Service) CreateUser(input CreateUserInput) (ProfileView, CommandResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ProfileView{}, CommandResult{}, common.NewValidationError("user name is required")
	}
	skill, err := parseSkillLevel(input.SkillLevel)
	if err != nil {
		return ProfileView{}, CommandResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := newUser(common.GenerateUUID(), name, input.DietaryRestrictions, skill, input.Appliances)
	s.users[user.ID] = user

	report := s.bus.Publish(event.New(event.TypeUserCreated, user.ID, map[string]any{
		"name":        user.Name,
		"skill_level": string(user.SkillLevel),
	}))

	common.LogInfo("用戶已建立",
		zap.String("user_id", user.ID),
		zap.String("skill_level", string(user.SkillLevel)),
	)

	return profileView(user), commandResult(report), nil
}

// UpdateProfileInput 更新個人檔案的輸入，nil 欄位表示不變
type UpdateProfileInput struct {
	Name                *string   `json:"name"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	SkillLevel          *string   `json:"skill_level"`
}

// UpdateProfile 更新個人檔案並發布 USER_PROFILE_UPDATED。
// 飲食限制改變會讓讀取模型失效（由事件消費者處理），
// 下一次搜尋才會看到新的分組。
func (s *Service) UpdateProfile(userID string, input UpdateProfileInput) (ProfileView, CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ProfileView{}, CommandResult{}, common.ErrUserNotFound
	}

	changed := []string{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ProfileView{}, CommandResult{}, common.NewValidationError("user name must not be empty")
		}
		user.Name = name
		changed = append(changed, "name")
	}
	if input.DietaryRestrictions != nil {
		restrictions := *input.DietaryRestrictions
		if restrictions == nil {
			restrictions = []string{}
		}
		user.DietaryRestrictions = restrictions
		changed = append(changed, "dietary_restrictions")
	}
	if input.SkillLevel != nil {
		skill, err := parseSkillLevel(*input.SkillLevel)
		if err != nil {
			return ProfileView{}, CommandResult{}, err
		}
		user.SkillLevel = skill
		changed = append(changed, "skill_level")
	}

	report := s.bus.Publish(event.New(event.TypeUserProfileUpdated, userID, map[string]any{
		"changed": changed,
	}))

	return profileView(user), commandResult(report), nil
}

// UpdateAppliances 更新可用設備並發布 USER_APPLIANCES_UPDATED
func (s *Service) UpdateAppliances(userID string, appliances []string) (ProfileView, CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ProfileView{}, CommandResult{}, common.ErrUserNotFound
	}
	if appliances == nil {
		appliances = []string{}
	}
	user.Appliances = appliances

	report := s.bus.Publish(event.New(event.TypeAppliancesUpdated, userID, map[string]any{
		"appliances": appliances,
	}))

	return profileView(user), commandResult(report), nil
}

// AddPantryIngredient 將食材加入儲藏室並發布 INGREDIENT_ADDED。
// 名稱先經正規化比對目錄；完全比對不到的食材自動註冊進目錄
// （沒有分類標籤），之後的飲食檢查對它一律放行。
func (s *Service) AddPantryIngredient(userID, rawName string, amount float64, expDate *time.Time) (PantryItemView, CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return PantryItemView{}, CommandResult{}, common.ErrUserNotFound
	}

	ing, err := s.normalizer.Resolve(rawName)
	if err != nil {
		ing, err = s.registerIngredient(rawName)
		if err != nil {
			return PantryItemView{}, CommandResult{}, err
		}
	}

	entry := catalog.PantryEntry{
		UserID:       userID,
		IngredientID: ing.ID,
		Amount:       amount,
		ExpDate:      expDate,
	}
	added := user.addPantry(entry)

	report := s.bus.Publish(event.New(event.TypeIngredientAdded, userID, map[string]any{
		"ingredient_id":   ing.ID,
		"ingredient_name": ing.Name,
		"amount":          amount,
		"new_entry":       added,
	}))

	return pantryItemView(entry, ing), commandResult(report), nil
}

// RemovePantryIngredient 將食材移出儲藏室並發布 INGREDIENT_REMOVED
func (s *Service) RemovePantryIngredient(userID, ingredientID string) (CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return CommandResult{}, common.ErrUserNotFound
	}
	if !user.removePantry(ingredientID) {
		return CommandResult{}, common.ErrIngredientNotFound
	}

	report := s.bus.Publish(event.New(event.TypeIngredientRemoved, userID, map[string]any{
		"ingredient_id": ingredientID,
	}))

	return commandResult(report), nil
}

// FavoriteRecipe 收藏食譜並發布 RECIPE_FAVORITED。
// 重複收藏是冪等的 no-op，狀態沒變就不發事件。
func (s *Service) FavoriteRecipe(userID, recipeID string) (CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return CommandResult{}, common.ErrUserNotFound
	}
	if _, ok := s.catalog.RecipeByID(recipeID); !ok {
		return CommandResult{}, common.ErrRecipeNotFound
	}
	if !user.addFavorite(recipeID) {
		return CommandResult{Report: event.DispatchReport{Succeeded: []string{}}}, nil
	}

	report := s.bus.Publish(event.New(event.TypeRecipeFavorited, userID, map[string]any{
		"recipe_id": recipeID,
	}))

	return commandResult(report), nil
}

// UnfavoriteRecipe 取消收藏並發布 RECIPE_UNFAVORITED
func (s *Service) UnfavoriteRecipe(userID, recipeID string) (CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return CommandResult{}, common.ErrUserNotFound
	}
	if !user.removeFavorite(recipeID) {
		return CommandResult{}, common.ErrRecipeNotFound
	}

	report := s.bus.Publish(event.New(event.TypeRecipeUnfavorited, userID, map[string]any{
		"recipe_id": recipeID,
	}))

	return commandResult(report), nil
}

// registerIngredient 自動註冊目錄外的食材，呼叫端必須持有寫鎖
func (s *Service) registerIngredient(rawName string) (*catalog.Ingredient, error) {
	ing, err := catalog.NewIngredient(common.GenerateUUID(), rawName, "", nil, 0)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.AddIngredient(ing); err != nil {
		return nil, err
	}
	common.LogInfo("已自動註冊新食材",
		zap.String("ingredient_id", ing.ID),
		zap.String("name", ing.Name),
	)
	return ing, nil
}

// parseSkillLevel 解析難度字串，空字串視為 beginner
func parseSkillLevel(raw string) (catalog.SkillLevel, error) {
	skill := catalog.SkillLevel(strings.ToLower(strings.TrimSpace(raw)))
	switch skill {
	case "":
		return catalog.SkillBeginner, nil
	case catalog.SkillBeginner, catalog.SkillIntermediate, catalog.SkillAdvanced:
		return skill, nil
	default:
		return "", common.NewValidationError(fmt.Sprintf("unknown skill level %q", raw))
	}
}
