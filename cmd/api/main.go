package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eraycetin/autoparts-api/internal/application/service"
	"github.com/eraycetin/autoparts-api/internal/config"
	"github.com/eraycetin/autoparts-api/internal/infrastructure/database"
	"github.com/eraycetin/autoparts-api/internal/infrastructure/repository"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/handler"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	var logger *zap.Logger
	var err error
	if cfg.App.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Invoice ID generator
	node, err := snowflake.NewNode(1)
	if err != nil {
		logger.Fatal("Failed to initialize id generator", zap.Error(err))
	}

	// Initialize repositories
	partRepo := repository.NewPartRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	inventoryService := service.NewInventoryService(partRepo, cfg.Inventory.LowStockThreshold)
	invoiceService := service.NewInvoiceService(invoiceRepo, partRepo, node, cfg.Invoice.NumberPrefix)
	dashboardService := service.NewDashboardService(partRepo, invoiceRepo, cfg.Inventory.LowStockThreshold)

	// Initialize handlers
	handlers := &routes.Handlers{
		Part:      handler.NewPartHandler(inventoryService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
