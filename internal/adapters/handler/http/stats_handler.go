package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

type StatsHandler struct {
	svc     *services.StatsService
	streaks *services.StreakService
}

func NewStatsHandler(svc *services.StatsService, streaks *services.StreakService) *StatsHandler {
	return &StatsHandler{svc: svc, streaks: streaks}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyStats)
}

func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cal := h.streaks.Calendar()

	endDate := c.Query("end_date")
	if endDate == "" {
		endDate = cal.DayOf(h.streaks.Now()).String()
	}

	startDate := c.Query("start_date")
	if startDate == "" {
		end, ok := cal.Normalize(endDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
			return
		}
		startDate = (end - 6).String()
	}

	input := domain.StatsInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
