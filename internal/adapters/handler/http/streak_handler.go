package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

type StreakHandler struct {
	svc *services.StreakService
}

func NewStreakHandler(svc *services.StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func (h *StreakHandler) RegisterRoutes(r *gin.RouterGroup) {
	streaks := r.Group("/streaks")
	{
		streaks.GET("", h.Overview)
		streaks.GET("/snapshot", h.Snapshot)
		streaks.GET("/:domain", h.Detail)
	}
}

// asOfParam reads the optional as_of query parameter. Missing means now,
// which the service resolves through its clock.
func asOfParam(c *gin.Context, svc *services.StreakService) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query("as_of"))
	if raw == "" {
		return time.Time{}, true
	}

	cal := svc.Calendar()
	day, ok := cal.Normalize(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return cal.Instant(day), true
}

func (h *StreakHandler) Overview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	asOf, ok := asOfParam(c, h.svc)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *StreakHandler) Detail(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	asOf, ok := asOfParam(c, h.svc)
	if !ok {
		return
	}

	d, err := domain.ParseStreakDomain(c.Param("domain"))
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), userID, d, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *StreakHandler) Snapshot(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}
