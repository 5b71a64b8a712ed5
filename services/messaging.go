package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
	ws "github.com/krshsl/campusjobs/backend/websocket"
)

const maxMessageLength = 4000

// Notifier pushes realtime frames to a user's open connections
type Notifier interface {
	SendFrame(userID string, frame ws.Frame) int
}

type MessagingService struct {
	repo          *repository.GORMRepository
	conversations *repository.ConversationRepository
	social        *SocialService
	notifier      Notifier
}

func NewMessagingService(repo *repository.GORMRepository, conversations *repository.ConversationRepository, social *SocialService, notifier Notifier) *MessagingService {
	return &MessagingService{
		repo:          repo,
		conversations: conversations,
		social:        social,
		notifier:      notifier,
	}
}

func (s *MessagingService) notify(userID string, frame ws.Frame) {
	if s.notifier == nil {
		return
	}
	delivered := s.notifier.SendFrame(userID, frame)
	slog.Debug("Frame pushed", "type", frame.Type, "user_id", userID, "connections", delivered)
}

func (s *MessagingService) requireFriends(ctx context.Context, userA, userB string) error {
	friends, err := s.social.AreFriends(ctx, userA, userB)
	if err != nil {
		return err
	}
	if !friends {
		return ErrNotFriends
	}
	return nil
}

// Send stores a direct message and pushes it to both participants
func (s *MessagingService) Send(ctx context.Context, senderID, recipientID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, invalid(fmt.Sprintf("content must be at most %d characters", maxMessageLength))
	}
	if err := s.requireFriends(ctx, senderID, recipientID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.conversations.SaveMessage(ctx, message); err != nil {
		return nil, err
	}

	frame := ws.Frame{Type: ws.FrameMessage, From: senderID, To: recipientID, Message: message}
	s.notify(recipientID, frame)
	// Echo to the sender's other tabs
	s.notify(senderID, frame)
	return message, nil
}

// Typing relays a typing indicator to a friend
func (s *MessagingService) Typing(ctx context.Context, senderID, recipientID string) error {
	if err := s.requireFriends(ctx, senderID, recipientID); err != nil {
		return err
	}
	s.notify(recipientID, ws.Frame{Type: ws.FrameTyping, From: senderID})
	return nil
}

// Conversation pages through the messages between two users, newest first.
// Passing the created_at of the oldest message seen as before fetches the next page.
func (s *MessagingService) Conversation(ctx context.Context, userID, partnerID string, before time.Time, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	messages, err := s.conversations.GetConversation(ctx, userID, partnerID, before, limit)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Conversations returns the latest message with each partner, most recent first
func (s *MessagingService) Conversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	latestMessages, err := s.conversations.GetLatestPerPartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]models.Message, len(latestMessages))
	partnerIDs := make([]string, 0, len(latestMessages))
	for _, message := range latestMessages {
		partner := message.SenderID
		if partner == userID {
			partner = message.RecipientID
		}
		latest[partner] = message
		partnerIDs = append(partnerIDs, partner)
	}

	unread, err := s.conversations.CountUnreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	partners, err := s.repo.GetUsersByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation partners: %w", err)
	}

	summaries := make([]models.ConversationSummary, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		partner, ok := partners[id]
		if !ok {
			continue
		}
		summaries = append(summaries, models.ConversationSummary{
			Partner:     partner.Public(),
			LastMessage: latest[id],
			UnreadCount: unread[id],
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})
	return summaries, nil
}

// MarkRead marks messages from partner as read and tells the partner
func (s *MessagingService) MarkRead(ctx context.Context, readerID, partnerID string) (int64, error) {
	count, err := s.conversations.MarkConversationRead(ctx, readerID, partnerID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.notify(partnerID, ws.Frame{Type: ws.FrameRead, From: readerID, Count: count})
	}
	return count, nil
}

func (s *MessagingService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.conversations.CountUnread(ctx, userID)
}

// DeleteMessage soft deletes a message. Only its sender may do so.
func (s *MessagingService) DeleteMessage(ctx context.Context, userID, messageID string) error {
	message, err := s.conversations.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.SenderID != userID {
		return ErrForbidden
	}
	return s.conversations.DeleteMessage(ctx, messageID)
}
