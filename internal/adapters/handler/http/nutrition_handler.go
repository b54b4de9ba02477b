package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

type NutritionHandler struct {
	svc *services.NutritionService
}

func NewNutritionHandler(svc *services.NutritionService) *NutritionHandler {
	return &NutritionHandler{
		svc: svc,
	}
}

type addItemsRequest struct {
	Items []domain.FoodItem `json:"items" binding:"required"`
}

type waterRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	nutrition := router.Group("/nutrition")
	{
		nutrition.GET("/goals", h.GetGoals)
		nutrition.PUT("/goals", h.SetGoals)

		nutrition.GET("/logs", h.ListLogs)
		nutrition.GET("/logs/:date", h.GetLog)
		nutrition.POST("/logs/:date/water", h.AddWater)
		nutrition.POST("/logs/:date/meals/:meal/items", h.AddItems)
		nutrition.PUT("/logs/:date/meals/:meal/items/:itemID", h.UpdateItem)
		nutrition.DELETE("/logs/:date/meals/:meal/items/:itemID", h.RemoveItem)
	}
}

func (h *NutritionHandler) GetLog(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	log, err := h.svc.GetLog(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *NutritionHandler) ListLogs(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logs, err := h.svc.ListLogs(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *NutritionHandler) mealParam(c *gin.Context) (domain.MealType, bool) {
	meal, err := domain.ParseMealType(c.Param("meal"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return meal, true
}

func (h *NutritionHandler) AddItems(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	meal, ok := h.mealParam(c)
	if !ok {
		return
	}

	var req addItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.svc.AddFoodItems(c.Request.Context(), userID, c.Param("date"), meal, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

func (h *NutritionHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	meal, ok := h.mealParam(c)
	if !ok {
		return
	}

	var item domain.FoodItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.svc.UpdateFoodItem(c.Request.Context(), userID, c.Param("date"), meal, c.Param("itemID"), item)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *NutritionHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	meal, ok := h.mealParam(c)
	if !ok {
		return
	}

	log, err := h.svc.RemoveFoodItem(c.Request.Context(), userID, c.Param("date"), meal, c.Param("itemID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *NutritionHandler) AddWater(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req waterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.svc.AddWater(c.Request.Context(), userID, c.Param("date"), *req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *NutritionHandler) GetGoals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goals, err := h.svc.GetGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

func (h *NutritionHandler) SetGoals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var goals domain.NutritionGoals
	if err := c.ShouldBindJSON(&goals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.svc.SetGoals(c.Request.Context(), userID, goals)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}
