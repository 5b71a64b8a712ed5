package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	InterviewScheduled = "scheduled"
	InterviewCompleted = "completed"
	InterviewCancelled = "cancelled"
)

// Interview is a scheduled conversation between an interviewer and a candidate
type Interview struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewerID   string         `gorm:"type:uuid;not null;index" json:"interviewer_id"`
	CandidateID     string         `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobListingID    *string        `gorm:"type:uuid;index" json:"job_listing_id,omitempty"`
	Status          string         `gorm:"size:20;not null;default:'scheduled';check:status IN ('scheduled', 'completed', 'cancelled')" json:"status"`
	ScheduledAt     time.Time      `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int            `gorm:"not null;default:30" json:"duration_minutes"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	RoomName        string         `gorm:"size:255" json:"room_name,omitempty"`
	RoomURL         string         `gorm:"size:500" json:"room_url,omitempty"`
	EndedAt         *time.Time     `json:"ended_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Interviewer *User       `gorm:"foreignKey:InterviewerID" json:"interviewer,omitempty"`
	Candidate   *User       `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	JobListing  *JobListing `gorm:"foreignKey:JobListingID" json:"job_listing,omitempty"`
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// EndsAt is the scheduled end of the interview
func (i *Interview) EndsAt() time.Time {
	return i.ScheduledAt.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

// IsParticipant reports whether userID is the interviewer or the candidate
func (i *Interview) IsParticipant(userID string) bool {
	return i.InterviewerID == userID || i.CandidateID == userID
}
