package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func ReceiptLoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("transaction_id")
		log.Infof("Printing receipt for order %s", id)

		c.Next()

		if c.Writer.Status() == 200 {
			log.Infof("Receipt printed for order %s", id)
		} else {
			log.Errorf("Failed to print receipt for order %s (status %d)", id, c.Writer.Status())
		}
	}
}
