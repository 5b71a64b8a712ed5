package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ResumeSourceUser = "user"
	ResumeSourceAI   = "ai"
)

// Resume is one version of a user's resume. AI improved versions point at
// the version they were derived from through ParentID.
type Resume struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID     *string        `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	JobListingID *string        `gorm:"type:uuid" json:"job_listing_id,omitempty"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Summary      string         `gorm:"type:text" json:"summary,omitempty"`
	Suggestions  []string       `gorm:"serializer:json;type:text" json:"suggestions,omitempty"`
	Source       string         `gorm:"size:10;not null;default:'user';check:source IN ('user', 'ai')" json:"source"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Resume) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
