package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillsync/skillsync-backend/internal/models"
	"gorm.io/gorm"
)

// DesignRepository defines the interface for design data access
type DesignRepository interface {
	Create(ctx context.Context, design *models.Design) error
	GetByID(ctx context.Context, id uint) (*models.Design, error)
	GetWithActiveAttachments(ctx context.Context, id uint) (*models.Design, error)
	List(ctx context.Context, limit, offset int) ([]models.Design, int64, error)
}

// designRepository implements DesignRepository using GORM
type designRepository struct {
	db *gorm.DB
}

// NewDesignRepository creates a new DesignRepository instance
func NewDesignRepository(db *gorm.DB) DesignRepository {
	return &designRepository{db: db}
}

// Create creates a new design record
func (r *designRepository) Create(ctx context.Context, design *models.Design) error {
	result := r.db.WithContext(ctx).Create(design)
	if result.Error != nil {
		return fmt.Errorf("failed to create design: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a design by its ID
func (r *designRepository) GetByID(ctx context.Context, id uint) (*models.Design, error) {
	var design models.Design
	result := r.db.WithContext(ctx).First(&design, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get design by ID: %w", result.Error)
	}
	return &design, nil
}

// GetWithActiveAttachments retrieves a design together with its active
// attachments in creation order.
func (r *designRepository) GetWithActiveAttachments(ctx context.Context, id uint) (*models.Design, error) {
	var design models.Design
	result := r.db.WithContext(ctx).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("created_at ASC, id ASC")
		}).
		First(&design, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get design with attachments: %w", result.Error)
	}
	return &design, nil
}

// List retrieves designs with pagination, newest first
func (r *designRepository) List(ctx context.Context, limit, offset int) ([]models.Design, int64, error) {
	var designs []models.Design
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Design{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count designs: %w", err)
	}

	result := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&designs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list designs: %w", result.Error)
	}

	return designs, total, nil
}
