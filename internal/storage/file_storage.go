package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/skillsync/skillsync-backend/internal/validator"
)

// Storage errors
var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrFileNotFound  = errors.New("file not found")
)

// Object is a stored payload opened for reading.
type Object struct {
	Content  io.ReadCloser
	FileName string
	MimeType string
}

// Close closes the underlying content stream.
func (o *Object) Close() error {
	return o.Content.Close()
}

// FileStorage defines the interface for payload storage operations.
// Save returns an opaque locator; Delete of a locator that no longer
// resolves is a success, so callers can clean up after partial failures.
type FileStorage interface {
	Save(ctx context.Context, fileName string, content io.Reader) (string, error)
	Get(locator string) (*Object, error)
	Delete(locator string) error
}

// localStorage implements FileStorage on the local filesystem
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a FileStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStorage{basePath: basePath}, nil
}

// resolve ensures a locator stays within basePath and returns the
// absolute path for it.
func (s *localStorage) resolve(locator string) (string, error) {
	cleanPath := filepath.Clean(locator)

	if filepath.IsAbs(cleanPath) {
		return "", ErrPathTraversal
	}
	// Reject ".." only as a whole segment: file names may legitimately
	// contain consecutive dots (e.g. "img..jpg").
	for _, seg := range strings.Split(cleanPath, string(filepath.Separator)) {
		if seg == ".." {
			return "", ErrPathTraversal
		}
	}

	fullPath := filepath.Join(s.basePath, cleanPath)

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("invalid locator: %w", err)
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return absPath, nil
}

// Save writes the payload under a freshly generated locator and returns
// the locator. A failed or cancelled write leaves nothing behind.
func (s *localStorage) Save(ctx context.Context, fileName string, content io.Reader) (string, error) {
	// Unique name: uuid prefix keeps concurrent writes collision-free,
	// sanitized base name keeps the stored file recognizable.
	uniqueName := fmt.Sprintf("%s_%s", uuid.New().String(), validator.SanitizeFileName(fileName))

	// Shard into subdirectories by the first 2 chars of the uuid.
	subDir := uniqueName[:2]
	if err := os.MkdirAll(filepath.Join(s.basePath, subDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	locator := filepath.Join(subDir, uniqueName)
	fullPath := filepath.Join(s.basePath, locator)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, &contextReader{ctx: ctx, r: content}); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return locator, nil
}

// Get opens a stored payload by its locator.
func (s *localStorage) Get(locator string) (*Object, error) {
	fullPath, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	name := filepath.Base(fullPath)
	return &Object{
		Content:  file,
		FileName: name,
		MimeType: validator.MimeTypeFor(name),
	}, nil
}

// Delete removes a stored payload. A missing payload is not an error.
func (s *localStorage) Delete(locator string) error {
	fullPath, err := s.resolve(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// contextReader aborts an in-flight copy once the request context is
// cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
