package app

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"pantry-chef/internal/core/catalog"
	"pantry-chef/internal/core/event"
	"pantry-chef/internal/core/readmodel"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		ReadModel:  config.ReadModelConfig{Enabled: true, MaxSize: 100, TTL: time.Hour},
		Suggestion: config.SuggestionConfig{DefaultTopK: 5, MaxTopK: 20},
	}
}

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
		{"ing-chicken", "chicken", []string{"meat"}},
	}
	for _, in := range ingredients {
		ing, err := catalog.NewIngredient(in.id, in.name, "", in.tags, 0)
		require.NoError(t, err)
		require.NoError(t, c.AddIngredient(ing))
	}

	recipes := []struct {
		id          string
		name        string
		totalTime   int
		skill       catalog.SkillLevel
		ingredients []catalog.RequiredIngredient
	}{
		{"rec-pancakes", "Pancakes", 20, catalog.SkillBeginner, []catalog.RequiredIngredient{
			{IngredientID: "ing-egg"},
			{IngredientID: "ing-flour"},
			{IngredientID: "ing-milk"},
		}},
		{"rec-fried-chicken", "Fried Chicken", 45, catalog.SkillIntermediate, []catalog.RequiredIngredient{
			{IngredientID: "ing-chicken"},
			{IngredientID: "ing-flour"},
		}},
	}
	for _, r := range recipes {
		recipe, err := catalog.NewRecipe(r.id, r.name, "", r.totalTime, r.skill, 2, nil, r.ingredients, nil)
		require.NoError(t, err)
		require.NoError(t, c.AddRecipe(recipe))
	}
	return c
}

// testService 組出完整的服務：目錄、匯流排、讀取模型與消費者
func testService(t *testing.T) (*Service, *event.Bus, *readmodel.Store) {
	t.Helper()

	cfg := testConfig()
	cat := testCatalog(t)
	bus := event.NewBus()
	store := readmodel.NewStore(&cfg.ReadModel, nil)
	analytics := readmodel.NewAnalytics()
	readmodel.RegisterConsumers(bus, store, analytics)
	return NewService(cfg, cat, bus, store, analytics), bus, store
}

func createUser(t *testing.T, s *Service) string {
	t.Helper()
	profile, result, err := s.CreateUser(CreateUserInput{Name: "amy"})
	require.NoError(t, err)
	require.NotEmpty(t, profile.ID)
	require.False(t, result.PartialFailure())
	return profile.ID
}

func TestCreateUserValidation(t *testing.T) {
	s, _, _ := testService(t)

	_, _, err := s.CreateUser(CreateUserInput{Name: "   "})
	assert.Error(t, err)

	_, _, err = s.CreateUser(CreateUserInput{Name: "bob", SkillLevel: "grandmaster"})
	assert.Error(t, err)

	profile, _, err := s.CreateUser(CreateUserInput{Name: "bob", SkillLevel: "Intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "intermediate", profile.SkillLevel)
}

func TestAddPantryIngredientNormalizesName(t *testing.T) {
	s, _, _ := testService(t)
	userID := createUser(t, s)

	// "Eggs" 經模糊比對解析到目錄中的 egg
	item, result, err := s.AddPantryIngredient(userID, "Eggs", 6, nil)
	require.NoError(t, err)
	assert.Equal(t, "ing-egg", item.IngredientID)
	assert.Equal(t, "egg", item.Name)
	assert.False(t, result.PartialFailure())

	pantry, err := s.GetPantry(userID)
	require.NoError(t, err)
	require.Len(t, pantry, 1)
	assert.Equal(t, float64(6), pantry[0].Amount)
}

func TestAddPantryIngredientAutoRegisters(t *testing.T) {
	s, _, _ := testService(t)
	userID := createUser(t, s)

	item, _, err := s.AddPantryIngredient(userID, "Dragonfruit", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "dragonfruit", item.Name)
	assert.NotEmpty(t, item.IngredientID)

	// 第二次加同名食材要解析到同一筆，不會再註冊一次
	again, _, err := s.AddPantryIngredient(userID, "dragonfruit", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, item.IngredientID, again.IngredientID)
}

func TestSearchUsesReadModelUntilInvalidated(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	userID := createUser(t, s)

	_, _, err := s.AddPantryIngredient(userID, "egg", 1, nil)
	require.NoError(t, err)
	_, _, err = s.AddPantryIngredient(userID, "flour", 1, nil)
	require.NoError(t, err)

	first, err := s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Compatible, second.Compatible)

	// 儲藏室變動讓讀取模型失效，下一次查詢重算
	_, _, err = s.AddPantryIngredient(userID, "milk", 1, nil)
	require.NoError(t, err)

	third, err := s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)
	assert.False(t, third.FromCache)

	// 現在 Pancakes 可以開煮了
	require.NotEmpty(t, third.Compatible)
	assert.Equal(t, "rec-pancakes", third.Compatible[0].RecipeID)
	assert.Equal(t, 100, third.Compatible[0].MatchPercentage)
}

func TestSearchSplitsDietaryIncompatible(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()

	profile, _, err := s.CreateUser(CreateUserInput{
		Name:                "vera",
		DietaryRestrictions: []string{"vegetarian"},
	})
	require.NoError(t, err)

	_, _, err = s.AddPantryIngredient(profile.ID, "chicken", 1, nil)
	require.NoError(t, err)
	_, _, err = s.AddPantryIngredient(profile.ID, "flour", 1, nil)
	require.NoError(t, err)

	resp, err := s.Search(ctx, profile.ID, SearchFilters{})
	require.NoError(t, err)

	// Fried Chicken 100% 但違反 vegetarian，被分到不相容組而不是丟掉
	require.Len(t, resp.Incompatible, 1)
	assert.Equal(t, "rec-fried-chicken", resp.Incompatible[0].RecipeID)
	assert.Equal(t, 100, resp.Incompatible[0].MatchPercentage)
	assert.False(t, resp.Incompatible[0].DietaryCompatible)
	assert.Equal(t, []string{"chicken conflicts with restriction: vegetarian"}, resp.Incompatible[0].Violations)

	require.Len(t, resp.Compatible, 1)
	assert.Equal(t, "rec-pancakes", resp.Compatible[0].RecipeID)
}

func TestProfileUpdateInvalidatesSearch(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	userID := createUser(t, s)

	_, err := s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)

	restrictions := []string{"vegan"}
	_, result, err := s.UpdateProfile(userID, UpdateProfileInput{DietaryRestrictions: &restrictions})
	require.NoError(t, err)
	assert.False(t, result.PartialFailure())

	resp, err := s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)
	assert.False(t, resp.FromCache)
}

func TestSearchByIngredientsReportsUnmatched(t *testing.T) {
	s, _, _ := testService(t)

	resp, err := s.SearchByIngredients([]string{"egg", "flour", "plutonium"}, nil, SearchFilters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"plutonium"}, resp.Unmatched)
	require.NotEmpty(t, resp.Compatible)
	// egg + flour：Pancakes 67%
	assert.Equal(t, "rec-pancakes", resp.Compatible[0].RecipeID)
	assert.Equal(t, 67, resp.Compatible[0].MatchPercentage)
}

func TestSearchAppliesTimeAndSkillFilters(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	userID := createUser(t, s)

	for _, name := range []string{"egg", "flour", "milk", "chicken"} {
		_, _, err := s.AddPantryIngredient(userID, name, 1, nil)
		require.NoError(t, err)
	}

	// 不帶過濾：兩道食譜都 100%
	resp, err := s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)
	require.Len(t, resp.Compatible, 2)

	// Fried Chicken 要 45 分鐘，超過 max_time=30 被濾掉
	resp, err = s.Search(ctx, userID, SearchFilters{MaxTime: 30})
	require.NoError(t, err)
	require.Len(t, resp.Compatible, 1)
	assert.Equal(t, "rec-pancakes", resp.Compatible[0].RecipeID)

	// 難度過濾不分大小寫
	resp, err = s.Search(ctx, userID, SearchFilters{SkillLevel: "Intermediate"})
	require.NoError(t, err)
	require.Len(t, resp.Compatible, 1)
	assert.Equal(t, "rec-fried-chicken", resp.Compatible[0].RecipeID)

	// 過濾作用在回應上，不會污染快取的視圖
	resp, err = s.Search(ctx, userID, SearchFilters{})
	require.NoError(t, err)
	assert.True(t, resp.FromCache)
	assert.Len(t, resp.Compatible, 2)
}

func TestSearchByIngredientsAppliesFilters(t *testing.T) {
	s, _, _ := testService(t)

	resp, err := s.SearchByIngredients([]string{"chicken", "flour"}, nil, SearchFilters{MaxTime: 30})
	require.NoError(t, err)

	// Fried Chicken 100% 但超時；Pancakes 33% 不到近似門檻也要留著
	require.Len(t, resp.Compatible, 1)
	assert.Equal(t, "rec-pancakes", resp.Compatible[0].RecipeID)
}

func TestSuggestShoppingDefaultsAndClampsK(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	userID := createUser(t, s)

	_, _, err := s.AddPantryIngredient(userID, "egg", 1, nil)
	require.NoError(t, err)
	_, _, err = s.AddPantryIngredient(userID, "flour", 1, nil)
	require.NoError(t, err)

	// k=0 採預設值
	resp, err := s.SuggestShopping(ctx, userID, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TopK)
	require.NotEmpty(t, resp.Suggestions)

	// egg+flour：買牛奶解鎖 Pancakes、買雞肉解鎖 Fried Chicken
	names := []string{resp.Suggestions[0].IngredientName, resp.Suggestions[1].IngredientName}
	assert.Equal(t, []string{"chicken", "milk"}, names)

	// 超出上限收斂到上限
	resp, err = s.SuggestShopping(ctx, userID, 999)
	require.NoError(t, err)
	assert.Equal(t, 20, resp.TopK)

	// 負數是呼叫端錯誤
	_, err = s.SuggestShopping(ctx, userID, -2)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestSuggestShoppingCachesPerK(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	userID := createUser(t, s)

	_, _, err := s.AddPantryIngredient(userID, "egg", 1, nil)
	require.NoError(t, err)

	first, err := s.SuggestShopping(ctx, userID, 3)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := s.SuggestShopping(ctx, userID, 3)
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	other, err := s.SuggestShopping(ctx, userID, 4)
	require.NoError(t, err)
	assert.False(t, other.FromCache)
}

func TestFavoriteLifecycle(t *testing.T) {
	s, _, _ := testService(t)
	userID := createUser(t, s)

	_, err := s.FavoriteRecipe(userID, "rec-missing")
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)

	result, err := s.FavoriteRecipe(userID, "rec-pancakes")
	require.NoError(t, err)
	assert.False(t, result.PartialFailure())

	// 重複收藏是冪等 no-op
	result, err = s.FavoriteRecipe(userID, "rec-pancakes")
	require.NoError(t, err)
	assert.Empty(t, result.Report.EventID)

	favorites, err := s.GetFavorites(userID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "rec-pancakes", favorites[0].ID)

	_, err = s.UnfavoriteRecipe(userID, "rec-pancakes")
	require.NoError(t, err)

	favorites, err = s.GetFavorites(userID)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	_, err = s.UnfavoriteRecipe(userID, "rec-pancakes")
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)
}

func TestRemovePantryIngredient(t *testing.T) {
	s, _, _ := testService(t)
	userID := createUser(t, s)

	item, _, err := s.AddPantryIngredient(userID, "egg", 1, nil)
	require.NoError(t, err)

	_, err = s.RemovePantryIngredient(userID, "ing-ghost")
	assert.ErrorIs(t, err, common.ErrIngredientNotFound)

	_, err = s.RemovePantryIngredient(userID, item.IngredientID)
	require.NoError(t, err)

	pantry, err := s.GetPantry(userID)
	require.NoError(t, err)
	assert.Empty(t, pantry)
}

func TestCommandReportsPartialDispatchFailure(t *testing.T) {
	s, bus, _ := testService(t)
	userID := createUser(t, s)

	bus.Subscribe(event.TypeIngredientAdded, "flaky-projector", func(event.Event) error {
		return errors.New("projection write failed")
	})

	item, result, err := s.AddPantryIngredient(userID, "egg", 1, nil)
	require.NoError(t, err)

	// 變更已提交，失敗只化為警告
	assert.Equal(t, "ing-egg", item.IngredientID)
	assert.True(t, result.PartialFailure())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], common.ErrCodePartialDispatchFailure)
	assert.Contains(t, result.Warnings[0], "flaky-projector")

	pantry, err := s.GetPantry(userID)
	require.NoError(t, err)
	assert.Len(t, pantry, 1)
}

func TestAnalyticsTracksSearches(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	userID := createUser(t, s)

	_, _, err := s.AddPantryIngredient(userID, "egg", 1, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.Search(ctx, userID, SearchFilters{})
		require.NoError(t, err)
	}

	stats, err := s.UserAnalytics(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SearchCount)
	require.Len(t, stats.RecentSearches, 3)
	assert.Equal(t, []string{"egg"}, stats.RecentSearches[0].Ingredients)

	system := s.Analytics()["session"].(map[string]any)
	assert.Equal(t, int64(3), system["total_searches"])
	assert.Equal(t, int64(1), system["total_users_created"])
}

func TestAnalyticsTracksApplianceUpdates(t *testing.T) {
	s, _, _ := testService(t)
	userID := createUser(t, s)

	profile, result, err := s.UpdateAppliances(userID, []string{"oven", "blender"})
	require.NoError(t, err)
	assert.False(t, result.PartialFailure())
	assert.Equal(t, []string{"oven", "blender"}, profile.Appliances)

	stats, err := s.UserAnalytics(userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ApplianceCount)

	// 清空設備也是一次更新
	_, _, err = s.UpdateAppliances(userID, nil)
	require.NoError(t, err)

	stats, err = s.UserAnalytics(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ApplianceCount)
}

func TestUnknownUserRejected(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()

	_, err := s.Search(ctx, "ghost", SearchFilters{})
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = s.GetPantry("ghost")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, _, err = s.AddPantryIngredient("ghost", "egg", 1, nil)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestGetSubstitutionsByName(t *testing.T) {
	s, _, _ := testService(t)

	resp, err := s.GetSubstitutions("Milk", []string{"nut-free"})
	require.NoError(t, err)
	assert.Equal(t, "ing-milk", resp.IngredientID)
	require.Len(t, resp.Substitutes, 1)
	assert.Equal(t, "oat milk", resp.Substitutes[0].Name)

	_, err = s.GetSubstitutions("plutonium", nil)
	assert.ErrorIs(t, err, common.ErrIngredientNotFound)
}
