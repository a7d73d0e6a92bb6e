package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/skillsync/skillsync-backend/internal/api/handlers"
	"github.com/skillsync/skillsync-backend/internal/api/middleware"
	"github.com/skillsync/skillsync-backend/internal/repository"
	"github.com/skillsync/skillsync-backend/internal/services"
	"github.com/skillsync/skillsync-backend/internal/storage"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.FileStorage
	Logger      *slog.Logger

	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      float64  // Requests per second (0 = disabled)
	RateBurst      int      // Burst size for rate limiter
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Logger))
	}
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Repositories
	designRepo := repository.NewDesignRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)

	// Services
	designService := services.NewDesignService(designRepo)
	attachmentService := services.NewAttachmentService(designRepo, attachmentRepo, cfg.FileStorage, cfg.Logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	designHandler := handlers.NewDesignHandler(designService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// API routes
	api := e.Group("/api")
	api.Use(middleware.APIKeyAuth(cfg.APIKey, cfg.Logger))

	// Design routes
	designs := api.Group("/designs")
	designs.POST("", designHandler.Create)
	designs.GET("", designHandler.List)
	designs.GET("/:design_id", designHandler.Get)

	// Attachment routes (nested under designs)
	designs.POST("/:design_id/attachments", attachmentHandler.Upload)
	designs.GET("/:design_id/attachments", attachmentHandler.List)
	designs.GET("/:design_id/attachments/download", attachmentHandler.DownloadBundle)

	// Attachment routes (standalone)
	attachments := api.Group("/attachments")
	attachments.GET("/:id", attachmentHandler.Get)
	attachments.GET("/:id/download", attachmentHandler.Download)
	attachments.DELETE("/:id", attachmentHandler.Delete)

	return e
}
