package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/config"
	"github.com/yeremiapane/paint-queue/database"
	"github.com/yeremiapane/paint-queue/orderstore"
	"github.com/yeremiapane/paint-queue/utils"
)

func main() {
	cfg, err := config.LoadStore()
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
	if err := database.MigrateStore(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	repo := orderstore.NewRepository(db)
	if err := repo.SeedEmployees(orderstore.DefaultEmployees); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed employees: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Store.Port,
		Handler: orderstore.NewRouter(repo, utils.InfoLogger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Order store listening on port %s", cfg.Store.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}
}
