package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/middlewares"
	"github.com/yeremiapane/paint-queue/models"
	"github.com/yeremiapane/paint-queue/services"
	"github.com/yeremiapane/paint-queue/utils"
)

type OrderController struct {
	Queue *services.QueueService
}

func NewOrderController(queue *services.QueueService) *OrderController {
	return &OrderController{Queue: queue}
}

// GetBoard -> active queue with ETC, the dashboard view
func (oc *OrderController) GetBoard(c *gin.Context) {
	board, err := oc.Queue.Board(c.Request.Context(), middlewares.GetRole(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", board)
}

// GetAllOrders -> every order regardless of status
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Queue.Orders(c.Request.Context(), middlewares.GetRole(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Queue.GetOrder(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder -> add-order form; new orders start in Waiting
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var form services.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Queue.CreateOrder(c.Request.Context(), form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":       order,
		"receipt_url": "/api/orders/" + order.TransactionID + "/receipt",
	})
}

// GetTransitions -> which statuses the UI may offer and what to ask for
func (oc *OrderController) GetTransitions(c *gin.Context) {
	reqs, err := oc.Queue.Transitions(c.Request.Context(), c.Param("transaction_id"), middlewares.GetRole(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available transitions", reqs)
}

// UpdateStatus -> move an order along the workflow. The role comes from
// the session, never from the body.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req struct {
		CurrentStatus models.OrderStatus `json:"current_status" binding:"required"`
		EmployeeCode  string             `json:"employee_code"`
		ColourCode    string             `json:"colour_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Queue.UpdateStatus(c.Request.Context(), c.Param("transaction_id"), services.TransitionRequest{
		Target:       req.CurrentStatus,
		Role:         middlewares.GetRole(c),
		EmployeeCode: req.EmployeeCode,
		ColourCode:   req.ColourCode,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s -> %s by %s", order.TransactionID, order.CurrentStatus, middlewares.GetUsername(c))
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

func (oc *OrderController) LookupEmployee(c *gin.Context) {
	name, err := oc.Queue.LookupEmployee(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Employee found", gin.H{"employee_name": name})
}

// SuggestClients -> contact autofill for the add-order form
func (oc *OrderController) SuggestClients(c *gin.Context) {
	clients, err := oc.Queue.SuggestClients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client suggestions", clients)
}
