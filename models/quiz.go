package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Quiz is a practice quiz generated by the model for one user
type Quiz struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Topic      string         `gorm:"size:255;not null" json:"topic"`
	Difficulty string         `gorm:"size:20;not null;check:difficulty IN ('easy', 'medium', 'hard')" json:"difficulty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Attempts  []QuizAttempt  `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"attempts,omitempty"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	assignID(&q.ID)
	return nil
}

// QuizQuestion is one multiple choice question. Position orders questions within the quiz.
type QuizQuestion struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      string    `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Position    int       `gorm:"not null" json:"position"`
	Prompt      string    `gorm:"type:text;not null" json:"prompt"`
	Options     []string  `gorm:"serializer:json;type:text;not null" json:"options"`
	AnswerIndex int       `gorm:"not null" json:"answer_index"`
	Explanation string    `gorm:"type:text" json:"explanation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	assignID(&q.ID)
	return nil
}

// QuizAttempt stores one submission of answers for a quiz
type QuizAttempt struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID    string    `gorm:"type:uuid;not null;index" json:"quiz_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Answers   []int     `gorm:"serializer:json;type:text;not null" json:"answers"`
	Score     int       `gorm:"not null" json:"score"`
	Total     int       `gorm:"not null" json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
