package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"

	EmploymentInternship = "internship"
	EmploymentFullTime   = "full_time"
	EmploymentPartTime   = "part_time"
	EmploymentContract   = "contract"
)

// EmploymentTypes lists the accepted values of JobListing.EmploymentType.
var EmploymentTypes = []string{EmploymentInternship, EmploymentFullTime, EmploymentPartTime, EmploymentContract}

// JobListing is a posting created by a recruiter
type JobListing struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	PostedByID      string         `gorm:"type:uuid;not null;index" json:"posted_by_id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Company         string         `gorm:"size:255;not null;index" json:"company"`
	Location        string         `gorm:"size:255" json:"location,omitempty"`
	EmploymentType  string         `gorm:"size:20;not null;check:employment_type IN ('internship', 'full_time', 'part_time', 'contract')" json:"employment_type"`
	Remote          bool           `gorm:"default:false" json:"remote"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	DescriptionText string         `gorm:"type:text" json:"description_text"` // Plain text derived from Description
	Skills          []string       `gorm:"serializer:json;type:text" json:"skills"`
	SalaryMin       *int           `json:"salary_min,omitempty"`
	SalaryMax       *int           `json:"salary_max,omitempty"`
	ApplicationURL  string         `gorm:"size:500" json:"application_url,omitempty"`
	Status          string         `gorm:"size:20;not null;default:'open';index;check:status IN ('open', 'closed')" json:"status"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	PostedBy     *User            `gorm:"foreignKey:PostedByID" json:"posted_by,omitempty"`
	Applications []JobApplication `gorm:"foreignKey:JobListingID" json:"applications,omitempty"`
}

func (j *JobListing) BeforeCreate(tx *gorm.DB) error {
	assignID(&j.ID)
	return nil
}

const (
	ApplicationSubmitted    = "submitted"
	ApplicationReviewing    = "reviewing"
	ApplicationInterviewing = "interviewing"
	ApplicationOffered      = "offered"
	ApplicationRejected     = "rejected"
	ApplicationWithdrawn    = "withdrawn"
)

// ApplicationStatuses lists the accepted values of JobApplication.Status.
var ApplicationStatuses = []string{
	ApplicationSubmitted,
	ApplicationReviewing,
	ApplicationInterviewing,
	ApplicationOffered,
	ApplicationRejected,
	ApplicationWithdrawn,
}

// JobApplication links a student to a listing. One per student and listing.
type JobApplication struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	JobListingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_user" json:"job_listing_id"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_user;index" json:"user_id"`
	ResumeID     *string   `gorm:"type:uuid" json:"resume_id,omitempty"`
	CoverLetter  string    `gorm:"type:text" json:"cover_letter,omitempty"`
	Status       string    `gorm:"size:20;not null;default:'submitted';check:status IN ('submitted', 'reviewing', 'interviewing', 'offered', 'rejected', 'withdrawn')" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	JobListing *JobListing `gorm:"foreignKey:JobListingID" json:"job_listing,omitempty"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
