package pantry

import (
	"errors"
	"net/http"

	"pantry-chef/internal/core/app"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 儲藏室 API 處理器
type Handler struct {
	service *app.Service
}

// NewHandler 建立處理器
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// respondError 將服務層錯誤轉為統一的錯誤響應
func respondError(c *gin.Context, err error) {
	var custom *common.CustomError
	if errors.As(err, &custom) {
		c.JSON(custom.Status, gin.H{
			"error": custom.Message,
			"code":  custom.Code,
		})
		return
	}

	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	common.LogError("未預期的服務錯誤",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}

// commandStatus 指令成功但有訂閱者失敗時回 207，其餘依 okStatus
func commandStatus(result app.CommandResult, okStatus int) int {
	if result.PartialFailure() {
		return http.StatusMultiStatus
	}
	return okStatus
}
