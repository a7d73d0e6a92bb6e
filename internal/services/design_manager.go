package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/skillsync/skillsync-backend/internal/errors"
	"github.com/skillsync/skillsync-backend/internal/models"
	"github.com/skillsync/skillsync-backend/internal/repository"
)

// DesignService defines the interface for design management
type DesignService interface {
	// Create creates a new design owned by ownerID.
	Create(ctx context.Context, ownerID, title, description string) (*models.Design, error)

	// Get retrieves a design together with its active attachments.
	Get(ctx context.Context, designID uint) (*models.Design, error)

	// List retrieves designs with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]models.Design, int64, error)
}

// designService implements DesignService
type designService struct {
	repo repository.DesignRepository
}

// NewDesignService creates a new DesignService instance
func NewDesignService(repo repository.DesignRepository) DesignService {
	return &designService{repo: repo}
}

// Create creates a new design
func (s *designService) Create(ctx context.Context, ownerID, title, description string) (*models.Design, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput,
			"title is required", apperrors.CodeInvalidInput)
	}

	design := &models.Design{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.Create(ctx, design); err != nil {
		return nil, apperrors.Wrap(err, "failed to create design")
	}
	return design, nil
}

// Get retrieves a design with its active attachments
func (s *designService) Get(ctx context.Context, designID uint) (*models.Design, error) {
	design, err := s.repo.GetWithActiveAttachments(ctx, designID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrDesignNotFound,
				fmt.Sprintf("design %d not found", designID), apperrors.CodeNotFound)
		}
		return nil, apperrors.Wrap(err, "failed to load design")
	}
	return design, nil
}

// List retrieves designs with pagination
func (s *designService) List(ctx context.Context, limit, offset int) ([]models.Design, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
