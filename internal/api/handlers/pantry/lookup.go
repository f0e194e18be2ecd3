package pantry

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HandleSubstitutions 查詢食材替代方案，restrictions 以逗號分隔
// GET /api/v1/substitutions/:ingredient?restrictions=vegan,nut-free
func (h *Handler) HandleSubstitutions(c *gin.Context) {
	var restrictions []string
	if raw := c.Query("restrictions"); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				restrictions = append(restrictions, r)
			}
		}
	}

	resp, err := h.service.GetSubstitutions(c.Param("ingredient"), restrictions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTerm 查詢烹飪術語
// GET /api/v1/terms/:term
func (h *Handler) HandleTerm(c *gin.Context) {
	term := c.Param("term")
	definition, err := h.service.LookupTerm(term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"term":       term,
		"definition": definition,
	})
}

// HandleAnalytics 系統層級的會話統計
// GET /api/v1/analytics
func (h *Handler) HandleAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Analytics())
}

// HandleUserAnalytics 指定用戶的搜尋統計
// GET /api/v1/users/:id/analytics
func (h *Handler) HandleUserAnalytics(c *gin.Context) {
	stats, err := h.service.UserAnalytics(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
