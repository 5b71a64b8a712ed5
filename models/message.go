package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two friends
type Message struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID    string         `json:"sender_id" gorm:"type:uuid;not null;index:idx_messages_pair"`
	RecipientID string         `json:"recipient_id" gorm:"type:uuid;not null;index:idx_messages_pair;index"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;index"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Sender    *User `json:"-" gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE"`
	Recipient *User `json:"-" gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// ConversationSummary is the latest message exchanged with one partner
type ConversationSummary struct {
	Partner     PublicUser `json:"partner"`
	LastMessage Message    `json:"last_message"`
	UnreadCount int64      `json:"unread_count"`
}
