package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/board"
	"github.com/yeremiapane/paint-queue/controllers"
	"github.com/yeremiapane/paint-queue/middlewares"
	"github.com/yeremiapane/paint-queue/models"
	"github.com/yeremiapane/paint-queue/services"
	"github.com/yeremiapane/paint-queue/utils"
	"gorm.io/gorm"
)

// Deps is everything the front-end router needs.
type Deps struct {
	DB     *gorm.DB
	Queue  *services.QueueService
	Hub    *board.Hub
	Tokens *utils.TokenManager
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware(utils.InfoLogger))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(""))
	r.Use(middlewares.NewRateLimiter(20*time.Millisecond, 50).RateLimit())

	userCtrl := controllers.NewUserController(deps.DB, deps.Tokens)
	orderCtrl := controllers.NewOrderController(deps.Queue)
	receiptCtrl := controllers.NewReceiptController(deps.Queue)
	adminCtrl := controllers.NewAdminController(deps.Queue)
	boardCtrl := controllers.NewBoardController(deps.Hub, deps.Queue)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	// Board socket authenticates with ?token=
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware(deps.Tokens))
	{
		ws.GET("/board", boardCtrl.BoardSocket)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(deps.Tokens))
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	api := auth.Group("/api")
	{
		api.GET("/board", orderCtrl.GetBoard)
		api.GET("/orders", orderCtrl.GetAllOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:transaction_id", orderCtrl.GetOrderByID)
		api.GET("/orders/:transaction_id/transitions", orderCtrl.GetTransitions)
		api.PUT("/orders/:transaction_id/status", orderCtrl.UpdateStatus)
		api.GET("/employees/:code", orderCtrl.LookupEmployee)
		api.GET("/clients", orderCtrl.SuggestClients)

		receipts := api.Group("/orders/:transaction_id")
		receipts.Use(middlewares.ReceiptLoggerMiddleware(utils.InfoLogger))
		receipts.GET("/receipt", receiptCtrl.PrintReceipt)
		receipts.GET("/receipt.pdf", receiptCtrl.ReceiptPDF)
	}

	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/users", userCtrl.CreateUser)
		admin.GET("/orders/ready", adminCtrl.GetReadyOrders)
		admin.POST("/orders/:transaction_id/complete", adminCtrl.CompleteOrder)
		admin.GET("/stats", adminCtrl.GetStats)
	}

	return r
}
