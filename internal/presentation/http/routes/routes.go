package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eraycetin/autoparts-api/internal/config"
	domainRepo "github.com/eraycetin/autoparts-api/internal/domain/repository"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/handler"
	"github.com/eraycetin/autoparts-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Part      *handler.PartHandler
	Invoice   *handler.InvoiceHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		registerPartRoutes(v1, h)
		registerInvoiceRoutes(v1, h, deps)

		v1.GET("/dashboard", h.Dashboard.Stats)
	}

	return router
}

func registerPartRoutes(rg *gin.RouterGroup, h *Handlers) {
	parts := rg.Group("/parts")
	{
		parts.GET("", h.Part.List)
		parts.POST("", h.Part.Create)
		parts.POST("/resolve-new", h.Part.ResolveNew)
		parts.GET("/aggregates", h.Part.Aggregates)
		parts.GET("/by-code/:code", h.Part.GetByCode)
		parts.GET("/export", h.Part.ExportCSV)
		parts.GET("/import/template", h.Part.ImportTemplate)
		parts.POST("/import", h.Part.ImportCSV)
		parts.GET("/:id", h.Part.Get)
		parts.PUT("/:id", h.Part.Update)
		parts.DELETE("/:id", h.Part.Delete)
		parts.GET("/:id/label", h.Part.Label)
	}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	invoices := rg.Group("/invoices")
	{
		invoices.GET("/draft", h.Invoice.GetDraft)
		invoices.POST("/draft", h.Invoice.NewDraft)
		invoices.PUT("/draft", h.Invoice.UpdateDraft)
		invoices.POST("/draft/items/stock", h.Invoice.AddStockItem)
		invoices.POST("/draft/items/manual", h.Invoice.AddManualItem)
		invoices.DELETE("/draft/items/:index", h.Invoice.RemoveItem)
		invoices.POST("/draft/commit", idempotency, h.Invoice.Commit)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}
}
