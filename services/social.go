package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

// SocialService runs the friend request lifecycle:
//
//	pending -> accepted  (recipient)
//	pending -> rejected  (recipient)
//	pending -> cancelled (sender)
//
// An accepted request is the friendship; unfriending deletes it.
type SocialService struct {
	repo *repository.GORMRepository
}

func NewSocialService(repo *repository.GORMRepository) *SocialService {
	return &SocialService{repo: repo}
}

func (s *SocialService) SendRequest(ctx context.Context, senderID, recipientID string) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, ErrSelfRequest
	}

	recipient, err := s.repo.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.repo.FindActiveFriendRequest(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if existing != nil {
		slog.Info("Friend request rejected, pair already connected", "sender_id", senderID, "recipient_id", recipientID, "status", existing.Status)
		return nil, ErrAlreadyConnected
	}

	request := &models.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.FriendRequestPending,
	}
	if err := s.repo.CreateFriendRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	request.Recipient = recipient
	return request, nil
}

func (s *SocialService) Accept(ctx context.Context, userID, requestID string) (*models.FriendRequest, error) {
	return s.transition(ctx, userID, requestID, models.FriendRequestAccepted)
}

func (s *SocialService) Reject(ctx context.Context, userID, requestID string) (*models.FriendRequest, error) {
	return s.transition(ctx, userID, requestID, models.FriendRequestRejected)
}

func (s *SocialService) Cancel(ctx context.Context, userID, requestID string) (*models.FriendRequest, error) {
	return s.transition(ctx, userID, requestID, models.FriendRequestCancelled)
}

func (s *SocialService) transition(ctx context.Context, userID, requestID, status string) (*models.FriendRequest, error) {
	request, err := s.repo.GetFriendRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	if request == nil {
		return nil, ErrFriendRequestNotFound
	}

	actor := request.RecipientID
	if status == models.FriendRequestCancelled {
		actor = request.SenderID
	}
	if userID != actor {
		return nil, ErrForbidden
	}
	if request.Status != models.FriendRequestPending {
		return nil, ErrInvalidTransition
	}

	applied, err := s.repo.TransitionFriendRequest(ctx, requestID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update friend request: %w", err)
	}
	// Someone else moved it first
	if !applied {
		return nil, ErrInvalidTransition
	}

	return s.repo.GetFriendRequest(ctx, requestID)
}

// Unfriend removes the accepted request between the two users
func (s *SocialService) Unfriend(ctx context.Context, userID, otherID string) error {
	request, err := s.repo.FindActiveFriendRequest(ctx, userID, otherID)
	if err != nil {
		return fmt.Errorf("failed to find friendship: %w", err)
	}
	if request == nil || request.Status != models.FriendRequestAccepted {
		return ErrFriendshipNotFound
	}
	if err := s.repo.DeleteFriendRequest(ctx, request.ID); err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	slog.Info("Friendship removed", "user_id", userID, "other_id", otherID)
	return nil
}

func (s *SocialService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	request, err := s.repo.FindActiveFriendRequest(ctx, userA, userB)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return request != nil && request.Status == models.FriendRequestAccepted, nil
}

func (s *SocialService) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return s.repo.ListIncomingFriendRequests(ctx, userID)
}

func (s *SocialService) ListOutgoing(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return s.repo.ListOutgoingFriendRequests(ctx, userID)
}

// ListFriends returns the other side of every accepted request
func (s *SocialService) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	requests, err := s.repo.ListFriendships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	friends := make([]models.Friend, 0, len(requests))
	for _, request := range requests {
		other := request.Sender
		if request.SenderID == userID {
			other = request.Recipient
		}
		// The other account was deleted
		if other == nil {
			continue
		}
		since := request.CreatedAt
		if request.RespondedAt != nil {
			since = *request.RespondedAt
		}
		friends = append(friends, models.Friend{
			RequestID: request.ID,
			Since:     since,
			User:      other.Public(),
		})
	}
	return friends, nil
}
