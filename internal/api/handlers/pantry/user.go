package pantry

import (
	"net/http"

	"pantry-chef/internal/core/app"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleCreateUser 建立用戶
// POST /api/v1/users
func (h *Handler) HandleCreateUser(c *gin.Context) {
	var input app.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	profile, result, err := h.service.CreateUser(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(commandStatus(result, http.StatusCreated), gin.H{
		"user":     profile,
		"warnings": result.Warnings,
	})
}

// HandleGetProfile 查詢個人檔案
// GET /api/v1/users/:id/profile
func (h *Handler) HandleGetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// HandleUpdateProfile 更新個人檔案
// PUT /api/v1/users/:id/profile
func (h *Handler) HandleUpdateProfile(c *gin.Context) {
	var input app.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	profile, result, err := h.service.UpdateProfile(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("個人檔案已更新", zap.String("user_id", profile.ID))

	c.JSON(commandStatus(result, http.StatusOK), gin.H{
		"user":     profile,
		"warnings": result.Warnings,
	})
}

// appliancesRequest 更新設備的請求
type appliancesRequest struct {
	Appliances []string `json:"appliances" binding:"required"`
}

// HandleUpdateAppliances 更新可用設備
// PUT /api/v1/users/:id/appliances
func (h *Handler) HandleUpdateAppliances(c *gin.Context) {
	var req appliancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	profile, result, err := h.service.UpdateAppliances(c.Param("id"), req.Appliances)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(commandStatus(result, http.StatusOK), gin.H{
		"user":     profile,
		"warnings": result.Warnings,
	})
}
