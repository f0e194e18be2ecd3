package pantry

import (
	"net/http"

	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// favoriteRequest 收藏食譜的請求
type favoriteRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// HandleAddFavorite 收藏食譜
// POST /api/v1/users/:id/favorites
func (h *Handler) HandleAddFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	result, err := h.service.FavoriteRecipe(c.Param("id"), req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(commandStatus(result, http.StatusCreated), gin.H{
		"recipe_id": req.RecipeID,
		"warnings":  result.Warnings,
	})
}

// HandleListFavorites 依收藏順序列出食譜
// GET /api/v1/users/:id/favorites
func (h *Handler) HandleListFavorites(c *gin.Context) {
	recipes, err := h.service.GetFavorites(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": recipes,
		"count":     len(recipes),
	})
}

// HandleRemoveFavorite 取消收藏
// DELETE /api/v1/users/:id/favorites/:rid
func (h *Handler) HandleRemoveFavorite(c *gin.Context) {
	result, err := h.service.UnfavoriteRecipe(c.Param("id"), c.Param("rid"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(commandStatus(result, http.StatusOK), gin.H{
		"removed":  c.Param("rid"),
		"warnings": result.Warnings,
	})
}
