package orderstore

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/paint-queue/middlewares"
)

func NewRouter(repo *Repository, log *logrus.Logger) *gin.Engine {
	h := NewHandler(repo, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware(h.log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "order store up"})
	})
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/active", h.ListActiveOrders)
	r.GET("/orders/check-duplicate", h.CheckDuplicate)
	r.POST("/orders", h.CreateOrder)
	r.PUT("/orders/:transaction_id", h.UpdateOrder)
	r.GET("/employees", h.LookupEmployee)
	return r
}
