package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/services"
	"github.com/yeremiapane/paint-queue/utils"
)

type ReceiptController struct {
	Queue *services.QueueService
}

func NewReceiptController(queue *services.QueueService) *ReceiptController {
	return &ReceiptController{Queue: queue}
}

// PrintReceipt -> HTML page that prints itself on load
func (rc *ReceiptController) PrintReceipt(c *gin.Context) {
	receipt, err := rc.Queue.Receipt(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	page, err := services.RenderReceiptHTML(receipt)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// ReceiptPDF -> till-roll PDF with the track id as a QR code
func (rc *ReceiptController) ReceiptPDF(c *gin.Context) {
	receipt, err := rc.Queue.Receipt(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	doc, err := services.RenderReceiptPDF(receipt)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", receipt.OrderNo))
	c.Data(http.StatusOK, "application/pdf", doc)
}
