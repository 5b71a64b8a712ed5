package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// SaveMessage saves a message to the database using GORM
func (r *ConversationRepository) SaveMessage(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		slog.Error("Failed to save message", "error", err, "sender_id", message.SenderID)
		return fmt.Errorf("failed to save message: %w", err)
	}

	slog.Info("Message saved", "message_id", message.ID, "sender_id", message.SenderID, "recipient_id", message.RecipientID)
	return nil
}

// GetConversation returns messages exchanged between two users, newest first.
// A non-zero before only returns messages created strictly earlier.
func (r *ConversationRepository) GetConversation(ctx context.Context, userA, userB string, before time.Time, limit int) ([]models.Message, error) {
	var messages []models.Message

	query := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", userA, userB, userB, userA)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}

	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		slog.Error("Failed to get conversation", "error", err, "user_a", userA, "user_b", userB)
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return messages, nil
}

// GetLatestPerPartner returns the newest message exchanged with each partner of
// the user, newest first
func (r *ConversationRepository) GetLatestPerPartner(ctx context.Context, userID string) ([]models.Message, error) {
	var messages []models.Message

	err := r.db.WithContext(ctx).Raw(`
		SELECT m.* FROM messages m
		JOIN (
			SELECT CASE WHEN sender_id = @user THEN recipient_id ELSE sender_id END AS partner_id,
				MAX(created_at) AS last_at
			FROM messages
			WHERE (sender_id = @user OR recipient_id = @user) AND deleted_at IS NULL
			GROUP BY CASE WHEN sender_id = @user THEN recipient_id ELSE sender_id END
		) latest ON m.created_at = latest.last_at
			AND ((m.sender_id = @user AND m.recipient_id = latest.partner_id)
				OR (m.recipient_id = @user AND m.sender_id = latest.partner_id))
		WHERE m.deleted_at IS NULL
		ORDER BY m.created_at DESC`,
		map[string]interface{}{"user": userID},
	).Scan(&messages).Error
	if err != nil {
		slog.Error("Failed to get latest messages per partner", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get latest messages: %w", err)
	}

	// Two messages sharing a timestamp both match the join; keep the first
	seen := make(map[string]bool, len(messages))
	latest := messages[:0]
	for _, message := range messages {
		partner := message.SenderID
		if partner == userID {
			partner = message.RecipientID
		}
		if seen[partner] {
			continue
		}
		seen[partner] = true
		latest = append(latest, message)
	}
	return latest, nil
}

// CountUnreadBySender returns unread inbound message counts keyed by sender
func (r *ConversationRepository) CountUnreadBySender(ctx context.Context, userID string) (map[string]int64, error) {
	var rows []struct {
		SenderID string
		Count    int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Group("sender_id").
		Scan(&rows).Error; err != nil {
		slog.Error("Failed to count unread messages", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Count
	}
	return counts, nil
}

// CountUnread returns the number of unread messages addressed to the user
func (r *ConversationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		slog.Error("Failed to count unread messages", "error", err, "user_id", userID)
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// MarkConversationRead sets read_at on unread messages from sender to reader
func (r *ConversationRepository) MarkConversationRead(ctx context.Context, readerID, senderID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", readerID, senderID).
		Update("read_at", time.Now())
	if result.Error != nil {
		slog.Error("Failed to mark conversation read", "error", result.Error, "reader_id", readerID, "sender_id", senderID)
		return 0, fmt.Errorf("failed to mark conversation read: %w", result.Error)
	}

	slog.Info("Conversation marked read", "reader_id", readerID, "sender_id", senderID, "count", result.RowsAffected)
	return result.RowsAffected, nil
}

// GetMessageByID retrieves a specific message by ID
func (r *ConversationRepository) GetMessageByID(ctx context.Context, messageID string) (*models.Message, error) {
	var message models.Message

	if err := r.db.WithContext(ctx).
		Where("id = ?", messageID).
		First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get message by ID", "error", err, "message_id", messageID)
		return nil, fmt.Errorf("failed to get message by ID: %w", err)
	}

	return &message, nil
}

// DeleteMessage deletes a specific message
func (r *ConversationRepository) DeleteMessage(ctx context.Context, messageID string) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", messageID).
		Delete(&models.Message{}).Error; err != nil {
		slog.Error("Failed to delete message", "error", err, "message_id", messageID)
		return fmt.Errorf("failed to delete message: %w", err)
	}

	slog.Info("Message deleted successfully", "message_id", messageID)
	return nil
}
