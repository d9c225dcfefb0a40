package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/middlewares"
	"github.com/yeremiapane/paint-queue/models"
	"github.com/yeremiapane/paint-queue/services"
	"github.com/yeremiapane/paint-queue/utils"
)

type AdminController struct {
	Queue *services.QueueService
}

func NewAdminController(queue *services.QueueService) *AdminController {
	return &AdminController{Queue: queue}
}

// GetReadyOrders -> orders waiting to be handed over and completed
func (ac *AdminController) GetReadyOrders(c *gin.Context) {
	orders, err := ac.Queue.ReadyOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ready orders", orders)
}

// CompleteOrder -> Ready => Complete, admin only
func (ac *AdminController) CompleteOrder(c *gin.Context) {
	order, err := ac.Queue.UpdateStatus(c.Request.Context(), c.Param("transaction_id"), services.TransitionRequest{
		Target: models.StatusComplete,
		Role:   middlewares.GetRole(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.Queue.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queue statistics", stats)
}
