package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

type WorkoutHandler struct {
	svc *services.WorkoutService
}

func NewWorkoutHandler(svc *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		svc: svc,
	}
}

type workoutRequest struct {
	Date      string            `json:"date" binding:"required"`
	Exercises []domain.Exercise `json:"exercises" binding:"required"`
}

func (r workoutRequest) toDomain() domain.Workout {
	return domain.Workout{Date: r.Date, Exercises: r.Exercises}
}

func (h *WorkoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	workouts := router.Group("/workouts")
	{
		workouts.POST("", h.Create)
		workouts.GET("", h.List)
		workouts.GET("/:id", h.Get)
		workouts.PUT("/:id", h.Update)
		workouts.DELETE("/:id", h.Delete)
	}
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workout, err := h.svc.Create(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workout.Summarize())
}

func (h *WorkoutHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]domain.WorkoutSummary, len(list))
	for i, w := range list {
		out[i] = w.Summarize()
	}
	c.JSON(http.StatusOK, out)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	workout, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workout.Summarize())
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workout, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, workout.Summarize())
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
