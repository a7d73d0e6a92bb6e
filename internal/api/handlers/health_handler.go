package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skillsync/skillsync-backend/internal/api/response"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and readiness
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// pingDatabase checks connectivity with the request context so a probe
// against a dead connection cannot outlive its request.
func (h *HealthHandler) pingDatabase(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request().Context())
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	checks := map[string]string{"database": "healthy"}
	if err := h.pingDatabase(c); err != nil {
		checks["database"] = "unhealthy"
		return c.JSON(http.StatusServiceUnavailable, response.APIResponse{
			Success: false,
			Data:    checks,
			Message: "degraded",
		})
	}
	return response.Success(c, checks)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	if err := h.pingDatabase(c); err != nil {
		return c.JSON(http.StatusServiceUnavailable, response.APIResponse{
			Success: false,
			Message: "not ready: database unavailable",
		})
	}
	return response.SuccessWithMessage(c, nil, "ready")
}
