package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/skillsync/skillsync-backend/internal/api/response"
	"github.com/skillsync/skillsync-backend/internal/services"
)

// AttachmentHandler handles attachment-related HTTP requests
type AttachmentHandler struct {
	service services.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Upload handles POST /api/designs/:design_id/attachments
func (h *AttachmentHandler) Upload(c echo.Context) error {
	designID, err := strconv.ParseUint(c.Param("design_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid design ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "multipart form is required")
	}

	headers := form.File["files"]
	files := make([]services.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return response.BadRequest(c, fmt.Sprintf("failed to read file '%s'", fh.Filename))
		}
		opened = append(opened, src)
		files = append(files, services.UploadFile{
			Name:    fh.Filename,
			Size:    fh.Size,
			Content: src,
		})
	}

	ownerID := c.Request().Header.Get("X-User-ID")

	attachments, err := h.service.Upload(c.Request().Context(), uint(designID), ownerID, files)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, attachments)
}

// Delete handles DELETE /api/attachments/:id
func (h *AttachmentHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	if err := h.service.Remove(c.Request().Context(), uint(id)); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessWithMessage(c, nil, "attachment deleted")
}

// Get handles GET /api/attachments/:id
func (h *AttachmentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	attachment, err := h.service.Get(c.Request().Context(), uint(id))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, attachment)
}

// Download handles GET /api/attachments/:id/download
func (h *AttachmentHandler) Download(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid attachment ID")
	}

	attachment, content, err := h.service.Open(c.Request().Context(), uint(id))
	if err != nil {
		return response.Error(c, err)
	}
	defer content.Close()

	c.Response().Header().Set("Content-Type", attachment.MimeType)
	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, attachment.FileName))
	if attachment.SizeBytes > 0 {
		c.Response().Header().Set("Content-Length", strconv.FormatInt(attachment.SizeBytes, 10))
	}

	c.Response().WriteHeader(http.StatusOK)
	if _, err := io.Copy(c.Response().Writer, content); err != nil {
		return err
	}

	return nil
}

// List handles GET /api/designs/:design_id/attachments
func (h *AttachmentHandler) List(c echo.Context) error {
	designID, err := strconv.ParseUint(c.Param("design_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid design ID")
	}

	attachments, err := h.service.ListByDesign(c.Request().Context(), uint(designID))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, attachments)
}

// DownloadBundle handles GET /api/designs/:design_id/attachments/download
func (h *AttachmentHandler) DownloadBundle(c echo.Context) error {
	designID, err := strconv.ParseUint(c.Param("design_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid design ID")
	}

	bundle, err := h.service.Bundle(c.Request().Context(), uint(designID))
	if err != nil {
		return response.Error(c, err)
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, bundle.FileName))
	if bundle.Skipped > 0 {
		c.Response().Header().Set("X-Skipped-Files", strconv.Itoa(bundle.Skipped))
	}

	return c.Blob(http.StatusOK, "application/zip", bundle.Content)
}
