package models

import "time"

// Attachment represents an image file attached to a design.
// StoragePath is an opaque locator understood by the storage layer and is
// never serialized to API responses.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DesignID    *uint     `gorm:"index" json:"design_id,omitempty"`
	OwnerID     string    `gorm:"size:64" json:"owner_id"`
	FileName    string    `gorm:"size:255" json:"file_name"`
	MimeType    string    `gorm:"size:100" json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StoragePath string    `gorm:"size:500" json:"-"`
	IsPrimary   bool      `json:"is_primary"`
	IsActive    bool      `gorm:"index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Design *Design `gorm:"foreignKey:DesignID" json:"-"`
}

// TableName returns the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
