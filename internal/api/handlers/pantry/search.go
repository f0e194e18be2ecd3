package pantry

import (
	"net/http"
	"strconv"

	"pantry-chef/internal/core/app"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HandleSearch 以用戶儲藏室搜尋食譜
// GET /api/v1/users/:id/recipes/search?max_time=30&skill_level=beginner
func (h *Handler) HandleSearch(c *gin.Context) {
	filters := app.SearchFilters{SkillLevel: c.Query("skill_level")}
	if raw := c.Query("max_time"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "max_time must be a non-negative integer",
				"code":  common.ErrCodeInvalidRequest,
			})
			return
		}
		filters.MaxTime = parsed
	}

	resp, err := h.service.Search(c.Request.Context(), c.Param("id"), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// anonymousSearchRequest 匿名搜尋的請求
type anonymousSearchRequest struct {
	Ingredients  []string          `json:"ingredients" binding:"required"`
	Restrictions []string          `json:"dietary_restrictions"`
	Filters      app.SearchFilters `json:"filters"`
}

// HandleAnonymousSearch 以自由輸入的食材名稱搜尋食譜
// POST /api/v1/recipes/search
func (h *Handler) HandleAnonymousSearch(c *gin.Context) {
	var req anonymousSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	resp, err := h.service.SearchByIngredients(req.Ingredients, req.Restrictions, req.Filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSuggestions 購物建議
// GET /api/v1/users/:id/suggestions?top=k
func (h *Handler) HandleSuggestions(c *gin.Context) {
	k := 0
	if raw := c.Query("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "top must be an integer",
				"code":  common.ErrCodeInvalidConfiguration,
			})
			return
		}
		k = parsed
	}

	resp, err := h.service.SuggestShopping(c.Request.Context(), c.Param("id"), k)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetRecipe 查詢單一食譜
// GET /api/v1/recipes/:id
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	r, err := h.service.GetRecipe(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
