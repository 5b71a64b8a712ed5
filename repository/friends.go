package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"gorm.io/gorm"
)

func (r *GORMRepository) CreateFriendRequest(ctx context.Context, request *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		slog.Error("Failed to create friend request", "error", err, "sender_id", request.SenderID)
		return err
	}
	slog.Info("Friend request created", "request_id", request.ID, "sender_id", request.SenderID, "recipient_id", request.RecipientID)
	return nil
}

func (r *GORMRepository) GetFriendRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get friend request", "error", err, "request_id", id)
		return nil, err
	}
	return &request, nil
}

// FindActiveFriendRequest returns the pending or accepted request between two
// users in either direction, if any.
func (r *GORMRepository) FindActiveFriendRequest(ctx context.Context, userA, userB string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))", userA, userB, userB, userA).
		Where("status IN ?", []string{models.FriendRequestPending, models.FriendRequestAccepted}).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to find friend request", "error", err, "user_a", userA, "user_b", userB)
		return nil, err
	}
	return &request, nil
}

// TransitionFriendRequest moves a request out of the pending state. The update
// only applies while the row is still pending; it reports whether it did.
func (r *GORMRepository) TransitionFriendRequest(ctx context.Context, id, status string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", id, models.FriendRequestPending).
		Updates(map[string]interface{}{"status": status, "responded_at": now})
	if result.Error != nil {
		slog.Error("Failed to update friend request", "error", result.Error, "request_id", id, "status", status)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	slog.Info("Friend request updated", "request_id", id, "status", status)
	return true, nil
}

func (r *GORMRepository) DeleteFriendRequest(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FriendRequest{}).Error; err != nil {
		slog.Error("Failed to delete friend request", "error", err, "request_id", id)
		return err
	}
	slog.Info("Friend request deleted", "request_id", id)
	return nil
}

func (r *GORMRepository) ListIncomingFriendRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, models.FriendRequestPending).
		Preload("Sender").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		slog.Error("Failed to list incoming friend requests", "error", err, "user_id", userID)
		return nil, err
	}
	return requests, nil
}

func (r *GORMRepository) ListOutgoingFriendRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestPending).
		Preload("Recipient").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		slog.Error("Failed to list outgoing friend requests", "error", err, "user_id", userID)
		return nil, err
	}
	return requests, nil
}

// ListFriendships returns accepted requests involving the user with both
// parties preloaded.
func (r *GORMRepository) ListFriendships(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR recipient_id = ?) AND status = ?", userID, userID, models.FriendRequestAccepted).
		Preload("Sender").
		Preload("Recipient").
		Order("responded_at DESC").
		Find(&requests).Error
	if err != nil {
		slog.Error("Failed to list friendships", "error", err, "user_id", userID)
		return nil, err
	}
	return requests, nil
}
