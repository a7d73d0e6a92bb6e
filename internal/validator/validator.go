// Package validator provides upload validation and filename sanitization
// for the SkillSync backend.
package validator

import (
	"path"
	"path/filepath"
	"strings"
)

// MaxFileSizeBytes is the maximum allowed size per uploaded file (10 MiB)
const MaxFileSizeBytes = 10 * 1024 * 1024

// allowedImageExtensions is the allow-list of raster image formats
// accepted as design attachments.
var allowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".bmp": true, ".webp": true,
}

// mimeTypes maps allowed extensions to their content types. Anything not
// listed resolves to application/octet-stream.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// AllowedImageTypes returns a display string of accepted formats for
// validation messages.
func AllowedImageTypes() string {
	return "JPG, PNG, GIF, BMP, WEBP"
}

// IsAllowedImage reports whether the file's extension is in the image
// allow-list. The check is case-insensitive.
func IsAllowedImage(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return allowedImageExtensions[ext]
}

// MimeTypeFor derives the content type from the file extension.
func MimeTypeFor(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

// invalidFileNameChars are replaced during sanitization. Forward and back
// slashes are handled separately by stripping path components.
const invalidFileNameChars = `<>:"|?*`

// SanitizeFileName strips any path components from the client-supplied
// name and replaces filesystem-unsafe characters with underscores.
func SanitizeFileName(fileName string) string {
	// Clients may send either separator regardless of their OS.
	name := strings.ReplaceAll(fileName, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == "" {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(invalidFileNameChars, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
