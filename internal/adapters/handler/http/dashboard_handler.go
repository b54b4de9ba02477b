package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

type DashboardHandler struct {
	svc     *services.DashboardService
	streaks *services.StreakService
}

func NewDashboardHandler(svc *services.DashboardService, streaks *services.StreakService) *DashboardHandler {
	return &DashboardHandler{svc: svc, streaks: streaks}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Summary)
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	asOf, ok := asOfParam(c, h.streaks)
	if !ok {
		return
	}

	dash, err := h.svc.Summary(c.Request.Context(), userID, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}
