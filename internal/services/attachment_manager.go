package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	apperrors "github.com/skillsync/skillsync-backend/internal/errors"
	"github.com/skillsync/skillsync-backend/internal/models"
	"github.com/skillsync/skillsync-backend/internal/repository"
	"github.com/skillsync/skillsync-backend/internal/storage"
	"github.com/skillsync/skillsync-backend/internal/validator"
)

// UploadFile is a decoded file payload handed to the service by the
// transport layer.
type UploadFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// BundleResult is a completed zip archive of a design's attachments.
// Skipped counts source files that could not be read and were left out.
type BundleResult struct {
	FileName string
	Content  []byte
	Entries  int
	Skipped  int
}

// AttachmentService defines the interface for attachment lifecycle
// management over a design.
type AttachmentService interface {
	// Upload validates and stores a batch of files for a design. Files are
	// processed in input order; the first file becomes primary when the
	// design has no active primary attachment.
	Upload(ctx context.Context, designID uint, ownerID string, files []UploadFile) ([]models.Attachment, error)

	// Remove soft-deletes an attachment, promoting the earliest active
	// sibling to primary when the primary is removed. The last active
	// attachment of a design cannot be removed.
	Remove(ctx context.Context, attachmentID uint) error

	// Get retrieves a single active attachment.
	Get(ctx context.Context, attachmentID uint) (*models.Attachment, error)

	// Open retrieves an active attachment together with its payload stream.
	Open(ctx context.Context, attachmentID uint) (*models.Attachment, io.ReadCloser, error)

	// ListByDesign retrieves the active attachments for a design in
	// creation order.
	ListByDesign(ctx context.Context, designID uint) ([]models.Attachment, error)

	// Bundle builds an in-memory zip archive of all active attachments for
	// a design. Unreadable payloads are skipped, not fatal.
	Bundle(ctx context.Context, designID uint) (*BundleResult, error)
}

// attachmentService implements AttachmentService
type attachmentService struct {
	designRepo     repository.DesignRepository
	attachmentRepo repository.AttachmentRepository
	fileStorage    storage.FileStorage
	logger         *slog.Logger
}

// NewAttachmentService creates a new AttachmentService instance
func NewAttachmentService(
	designRepo repository.DesignRepository,
	attachmentRepo repository.AttachmentRepository,
	fileStorage storage.FileStorage,
	logger *slog.Logger,
) AttachmentService {
	return &attachmentService{
		designRepo:     designRepo,
		attachmentRepo: attachmentRepo,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

// Upload validates the whole batch before persisting anything, then saves
// payloads in order and commits all metadata rows in one transaction. If
// any save fails mid-batch, payloads already written are rolled back.
func (s *attachmentService) Upload(ctx context.Context, designID uint, ownerID string, files []UploadFile) ([]models.Attachment, error) {
	design, err := s.designRepo.GetWithActiveAttachments(ctx, designID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrDesignNotFound,
				fmt.Sprintf("design %d not found", designID), apperrors.CodeNotFound)
		}
		return nil, apperrors.Wrap(err, "failed to load design")
	}

	if len(files) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput,
			"at least one file is required", apperrors.CodeInvalidInput)
	}

	for _, file := range files {
		if !validator.IsAllowedImage(file.Name) {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidInput,
				fmt.Sprintf("file '%s' is not a valid image. Allowed types: %s",
					file.Name, validator.AllowedImageTypes()),
				apperrors.CodeInvalidInput)
		}
		if file.Size > validator.MaxFileSizeBytes {
			return nil, apperrors.NewAppError(apperrors.ErrInvalidInput,
				fmt.Sprintf("file '%s' exceeds maximum size of 10MB", file.Name),
				apperrors.CodeInvalidInput)
		}
	}

	hasPrimary := false
	for _, a := range design.Attachments {
		if a.IsPrimary {
			hasPrimary = true
			break
		}
	}

	attachments := make([]*models.Attachment, 0, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			s.rollbackSavedFiles(attachments)
			return nil, err
		}

		locator, err := s.fileStorage.Save(ctx, file.Name, file.Content)
		if err != nil {
			s.rollbackSavedFiles(attachments)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, apperrors.NewAppError(apperrors.ErrStorageWrite,
				fmt.Sprintf("failed to save file '%s'", file.Name),
				apperrors.CodeStorageWrite)
		}

		attachments = append(attachments, &models.Attachment{
			DesignID:    &designID,
			OwnerID:     ownerID,
			FileName:    validator.SanitizeFileName(file.Name),
			MimeType:    validator.MimeTypeFor(file.Name),
			SizeBytes:   file.Size,
			StoragePath: locator,
			IsPrimary:   i == 0 && !hasPrimary,
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		})
	}

	if err := s.attachmentRepo.CreateBatch(ctx, attachments); err != nil {
		s.rollbackSavedFiles(attachments)
		return nil, apperrors.Wrap(err, "failed to commit attachments")
	}

	s.logger.Info("uploaded attachments",
		slog.Uint64("design_id", uint64(designID)),
		slog.Int("count", len(attachments)))

	result := make([]models.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = *a
	}
	return result, nil
}

// rollbackSavedFiles deletes payloads written earlier in a failed batch.
// Each deletion is independently best-effort.
func (s *attachmentService) rollbackSavedFiles(attachments []*models.Attachment) {
	for i := len(attachments) - 1; i >= 0; i-- {
		if err := s.fileStorage.Delete(attachments[i].StoragePath); err != nil {
			s.logger.Warn("failed to roll back saved file",
				slog.String("locator", attachments[i].StoragePath),
				slog.String("error", err.Error()))
		}
	}
}

// Remove soft-deletes an attachment. The metadata deactivation is the
// authoritative outcome; payload deletion afterwards is best-effort.
func (s *attachmentService) Remove(ctx context.Context, attachmentID uint) error {
	attachment, err := s.attachmentRepo.GetActiveByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewAppError(apperrors.ErrAttachmentNotFound,
				fmt.Sprintf("attachment %d not found", attachmentID), apperrors.CodeNotFound)
		}
		return apperrors.Wrap(err, "failed to load attachment")
	}

	if attachment.DesignID == nil {
		return apperrors.NewAppError(apperrors.ErrDesignNotFound,
			"associated design not found", apperrors.CodeNotFound)
	}

	siblings, err := s.attachmentRepo.ListActiveByDesign(ctx, *attachment.DesignID)
	if err != nil {
		return apperrors.Wrap(err, "failed to load sibling attachments")
	}

	remaining := make([]models.Attachment, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID != attachment.ID {
			remaining = append(remaining, sibling)
		}
	}

	if len(remaining) == 0 {
		return apperrors.NewAppError(apperrors.ErrLastAttachment,
			"cannot delete the last attachment of a design", apperrors.CodeLastAttachment)
	}

	var promote *models.Attachment
	if attachment.IsPrimary {
		// Earliest-created active sibling takes over as primary.
		promote = &remaining[0]
	}

	if err := s.attachmentRepo.Deactivate(ctx, attachment, promote); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewAppError(apperrors.ErrAttachmentNotFound,
				fmt.Sprintf("attachment %d not found", attachmentID), apperrors.CodeNotFound)
		}
		return apperrors.Wrap(err, "failed to deactivate attachment")
	}

	if attachment.StoragePath != "" {
		if err := s.fileStorage.Delete(attachment.StoragePath); err != nil {
			s.logger.Warn("failed to delete payload for removed attachment",
				slog.Uint64("attachment_id", uint64(attachmentID)),
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("removed attachment",
		slog.Uint64("attachment_id", uint64(attachmentID)),
		slog.Bool("promoted_sibling", promote != nil))
	return nil
}

// Get retrieves a single active attachment
func (s *attachmentService) Get(ctx context.Context, attachmentID uint) (*models.Attachment, error) {
	attachment, err := s.attachmentRepo.GetActiveByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound,
				fmt.Sprintf("attachment %d not found", attachmentID), apperrors.CodeNotFound)
		}
		return nil, apperrors.Wrap(err, "failed to load attachment")
	}
	return attachment, nil
}

// Open retrieves an attachment and its payload stream. A missing payload
// surfaces as not found so the caller returns 404 rather than 500.
func (s *attachmentService) Open(ctx context.Context, attachmentID uint) (*models.Attachment, io.ReadCloser, error) {
	attachment, err := s.Get(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.fileStorage.Get(attachment.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound,
				fmt.Sprintf("payload for attachment %d is missing", attachmentID),
				apperrors.CodeNotFound)
		}
		return nil, nil, apperrors.NewAppError(apperrors.ErrStorageRead,
			fmt.Sprintf("failed to read payload for attachment %d", attachmentID),
			apperrors.CodeStorageRead)
	}

	return attachment, obj.Content, nil
}

// ListByDesign retrieves the active attachments for a design
func (s *attachmentService) ListByDesign(ctx context.Context, designID uint) ([]models.Attachment, error) {
	attachments, err := s.attachmentRepo.ListActiveByDesign(ctx, designID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list attachments")
	}
	return attachments, nil
}

// Bundle builds an in-memory zip of every active attachment. A payload
// that fails to open or copy is logged and skipped; the archive is
// returned even when every entry was skipped.
func (s *attachmentService) Bundle(ctx context.Context, designID uint) (*BundleResult, error) {
	attachments, err := s.attachmentRepo.ListActiveByDesign(ctx, designID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list attachments")
	}
	if len(attachments) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrAttachmentNotFound,
			fmt.Sprintf("no attachments found for design %d", designID),
			apperrors.CodeNotFound)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := 0
	skipped := 0
	for _, attachment := range attachments {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return nil, err
		}
		if attachment.StoragePath == "" {
			skipped++
			continue
		}

		obj, err := s.fileStorage.Get(attachment.StoragePath)
		if err != nil {
			s.logger.Warn("skipping unreadable attachment in bundle",
				slog.Uint64("attachment_id", uint64(attachment.ID)),
				slog.String("error", err.Error()))
			skipped++
			continue
		}

		entry, err := zw.Create(attachment.FileName)
		if err == nil {
			_, err = io.Copy(entry, obj.Content)
		}
		obj.Close()
		if err != nil {
			s.logger.Warn("failed to add attachment to bundle",
				slog.Uint64("attachment_id", uint64(attachment.ID)),
				slog.String("error", err.Error()))
			skipped++
			continue
		}
		entries++
	}

	if err := zw.Close(); err != nil {
		return nil, apperrors.Wrap(err, "failed to finalize bundle")
	}

	s.logger.Info("built attachment bundle",
		slog.Uint64("design_id", uint64(designID)),
		slog.Int("entries", entries),
		slog.Int("skipped", skipped))

	return &BundleResult{
		FileName: fmt.Sprintf("design_%d_attachments.zip", designID),
		Content:  buf.Bytes(),
		Entries:  entries,
		Skipped:  skipped,
	}, nil
}
