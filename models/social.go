package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FriendRequestPending   = "pending"
	FriendRequestAccepted  = "accepted"
	FriendRequestRejected  = "rejected"
	FriendRequestCancelled = "cancelled"
)

// FriendRequest is a connection request between two users. A request in the
// accepted state is the friendship itself.
type FriendRequest struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    string         `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID string         `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Status      string         `gorm:"size:20;not null;default:'pending';index;check:status IN ('pending', 'accepted', 'rejected', 'cancelled')" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (f *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// OtherParty returns the id of the participant that is not userID.
func (f *FriendRequest) OtherParty(userID string) string {
	if f.SenderID == userID {
		return f.RecipientID
	}
	return f.SenderID
}

// Friend is an accepted friendship seen from one side.
type Friend struct {
	RequestID string     `json:"request_id"`
	Since     time.Time  `json:"since"`
	User      PublicUser `json:"user"`
}
