package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/board"
	"github.com/yeremiapane/paint-queue/config"
	"github.com/yeremiapane/paint-queue/database"
	"github.com/yeremiapane/paint-queue/router"
	"github.com/yeremiapane/paint-queue/services"
	"github.com/yeremiapane/paint-queue/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info")
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateFrontend(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	created, err := database.SeedAdmin(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin account: %v", err)
	}
	if created {
		utils.InfoLogger.Printf("Created admin account %q", cfg.Auth.AdminUsername)
	}

	store := services.NewHTTPOrderStore(services.OrderStoreConfig{
		BaseURL: cfg.Store.BaseURL,
		Timeout: cfg.Store.Timeout,
	}, utils.InfoLogger)

	hub := board.NewHub(utils.InfoLogger)
	queue := services.NewQueueService(store, services.NewGormClientDirectory(db), hub, utils.InfoLogger)
	queue.ShopName = cfg.Shop.Name
	queue.SupportPhone = cfg.Shop.SupportPhone
	queue.Location = cfg.Shop.Location

	monitor := services.NewQueueMonitor(queue)
	monitor.Interval = cfg.BoardPollInterval
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Deps{
		DB:     db,
		Queue:  queue,
		Hub:    hub,
		Tokens: utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s, order store at %s", cfg.Port, cfg.Store.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}
}
