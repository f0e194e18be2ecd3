package pantry

import (
	"net/http"
	"time"

	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// addIngredientRequest 加入儲藏室的請求，名稱可為任意自由輸入
type addIngredientRequest struct {
	Name    string     `json:"name" binding:"required"`
	Amount  float64    `json:"amount"`
	ExpDate *time.Time `json:"exp_date"`
}

// HandleAddIngredient 將食材加入儲藏室
// POST /api/v1/users/:id/ingredients
func (h *Handler) HandleAddIngredient(c *gin.Context) {
	var req addIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	item, result, err := h.service.AddPantryIngredient(c.Param("id"), req.Name, req.Amount, req.ExpDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(commandStatus(result, http.StatusCreated), gin.H{
		"ingredient": item,
		"warnings":   result.Warnings,
	})
}

// HandleListIngredients 依加入順序列出儲藏室
// GET /api/v1/users/:id/ingredients
func (h *Handler) HandleListIngredients(c *gin.Context) {
	items, err := h.service.GetPantry(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredients": items,
		"count":       len(items),
	})
}

// HandleRemoveIngredient 將食材移出儲藏室
// DELETE /api/v1/users/:id/ingredients/:iid
func (h *Handler) HandleRemoveIngredient(c *gin.Context) {
	result, err := h.service.RemovePantryIngredient(c.Param("id"), c.Param("iid"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(commandStatus(result, http.StatusOK), gin.H{
		"removed":  c.Param("iid"),
		"warnings": result.Warnings,
	})
}
