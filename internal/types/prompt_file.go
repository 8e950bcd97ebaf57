package types

import (
	"time"

	"gorm.io/gorm"
)

type PromptFile struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	PromptID     string         `gorm:"type:uuid;not null;index" json:"prompt_id"`
	OriginalName string         `gorm:"column:original_name;not null" json:"original_name"`
	StorageKey   string         `gorm:"column:storage_key;not null" json:"storage_key"`
	ContentType  string         `gorm:"column:content_type" json:"content_type"`
	SizeBytes    int64          `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	Status       string         `gorm:"column:status;not null;default:'uploaded'" json:"status"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PromptFile) TableName() string { return "prompt_file" }
