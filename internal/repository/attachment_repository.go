package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillsync/skillsync-backend/internal/models"
	"gorm.io/gorm"
)

// AttachmentRepository defines the interface for attachment data access.
// Multi-row mutations commit atomically; soft-deleted rows are invisible
// to every read method.
type AttachmentRepository interface {
	CreateBatch(ctx context.Context, attachments []*models.Attachment) error
	GetActiveByID(ctx context.Context, id uint) (*models.Attachment, error)
	ListActiveByDesign(ctx context.Context, designID uint) ([]models.Attachment, error)
	Deactivate(ctx context.Context, target *models.Attachment, promote *models.Attachment) error
}

// attachmentRepository implements AttachmentRepository using GORM
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository instance
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// CreateBatch inserts all attachment records in a single transaction.
// Either every row commits or none do.
func (r *attachmentRepository) CreateBatch(ctx context.Context, attachments []*models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, attachment := range attachments {
			if err := tx.Create(attachment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create attachments: %w", err)
	}
	return nil
}

// GetActiveByID retrieves an active attachment by its ID
func (r *attachmentRepository) GetActiveByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&attachment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attachment by ID: %w", result.Error)
	}
	return &attachment, nil
}

// ListActiveByDesign retrieves the active attachments for a design in
// creation order.
func (r *attachmentRepository) ListActiveByDesign(ctx context.Context, designID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	result := r.db.WithContext(ctx).
		Where("design_id = ? AND is_active = ?", designID, true).
		Order("created_at ASC, id ASC").
		Find(&attachments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", result.Error)
	}
	return attachments, nil
}

// Deactivate marks the target attachment inactive and, when promote is
// non-nil, marks that sibling primary. Both updates commit in one
// transaction so the single-primary invariant never tears.
func (r *attachmentRepository) Deactivate(ctx context.Context, target *models.Attachment, promote *models.Attachment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Attachment{}).
			Where("id = ? AND is_active = ?", target.ID, true).
			Updates(map[string]interface{}{"is_active": false, "is_primary": false})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if promote != nil {
			result = tx.Model(&models.Attachment{}).
				Where("id = ? AND is_active = ?", promote.ID, true).
				Update("is_primary", true)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to deactivate attachment: %w", err)
	}

	target.IsActive = false
	target.IsPrimary = false
	if promote != nil {
		promote.IsPrimary = true
	}
	return nil
}
