package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/skillsync/skillsync-backend/internal/api/response"
	"github.com/skillsync/skillsync-backend/internal/services"
)

// DesignHandler handles design-related HTTP requests
type DesignHandler struct {
	service services.DesignService
}

// NewDesignHandler creates a new DesignHandler
func NewDesignHandler(service services.DesignService) *DesignHandler {
	return &DesignHandler{service: service}
}

// CreateDesignRequest is the payload for creating a design
type CreateDesignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create handles POST /api/designs
func (h *DesignHandler) Create(c echo.Context) error {
	var req CreateDesignRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	ownerID := c.Request().Header.Get("X-User-ID")

	design, err := h.service.Create(c.Request().Context(), ownerID, req.Title, req.Description)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, design)
}

// Get handles GET /api/designs/:design_id
func (h *DesignHandler) Get(c echo.Context) error {
	designID, err := strconv.ParseUint(c.Param("design_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid design ID")
	}

	design, err := h.service.Get(c.Request().Context(), uint(designID))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, design)
}

// List handles GET /api/designs
func (h *DesignHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	designs, total, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, designs, total, limit, offset)
}
