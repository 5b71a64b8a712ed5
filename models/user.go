package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

type User struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"size:255" json:"-"` // Hashed password (excluded from JSON)
	FullName       string         `gorm:"size:255" json:"full_name,omitempty"`
	AvatarURL      string         `gorm:"size:500" json:"avatar_url,omitempty"`
	Role           string         `gorm:"size:20;not null;default:'student';check:role IN ('student', 'recruiter', 'admin')" json:"role"`
	Headline       string         `gorm:"size:255" json:"headline,omitempty"`
	Bio            string         `gorm:"type:text" json:"bio,omitempty"`
	University     string         `gorm:"size:255" json:"university,omitempty"`
	Major          string         `gorm:"size:255" json:"major,omitempty"`
	GraduationYear *int           `json:"graduation_year,omitempty"`
	Location       string         `gorm:"size:255" json:"location,omitempty"`
	Skills         []string       `gorm:"serializer:json;type:text" json:"skills"`
	OnboardedAt    *time.Time     `json:"onboarded_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// IsOnboarded reports whether the user finished the onboarding flow.
func (u *User) IsOnboarded() bool {
	return u.OnboardedAt != nil
}

// PublicUser is the view of a user shown to other users.
type PublicUser struct {
	ID             string   `json:"id"`
	FullName       string   `json:"full_name"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	Role           string   `json:"role"`
	Headline       string   `json:"headline,omitempty"`
	University     string   `json:"university,omitempty"`
	Major          string   `json:"major,omitempty"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
	Location       string   `json:"location,omitempty"`
	Skills         []string `json:"skills"`
}

func (u *User) Public() PublicUser {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return PublicUser{
		ID:             u.ID,
		FullName:       u.FullName,
		AvatarURL:      u.AvatarURL,
		Role:           u.Role,
		Headline:       u.Headline,
		University:     u.University,
		Major:          u.Major,
		GraduationYear: u.GraduationYear,
		Location:       u.Location,
		Skills:         skills,
	}
}

type RefreshToken struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

type PermanentToken struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (t *PermanentToken) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
