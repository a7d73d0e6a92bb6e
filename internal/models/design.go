package models

import "time"

// Design represents a portfolio design owned by a user
type Design struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     string    `gorm:"size:64;index" json:"owner_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Attachments []Attachment `gorm:"foreignKey:DesignID" json:"attachments,omitempty"`
}

// TableName returns the table name for Design
func (Design) TableName() string {
	return "designs"
}
