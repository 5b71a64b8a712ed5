package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	ws "github.com/krshsl/campusjobs/backend/websocket"
)

func newMessagingFixture(t *testing.T) (*MessagingService, *fakeNotifier, *models.User, *models.User) {
	t.Helper()
	db := newTestDB(t)
	repo := newRepoFromDB(db)
	notifier := &fakeNotifier{}
	messaging := NewMessagingService(repo, newConversationsFromDB(db), NewSocialService(repo), notifier)

	alice := createUser(t, repo, "alice", models.RoleStudent)
	bob := createUser(t, repo, "bob", models.RoleStudent)
	makeFriends(t, repo, alice, bob)
	return messaging, notifier, alice, bob
}

func TestSendValidation(t *testing.T) {
	messaging, _, alice, bob := newMessagingFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		to      string
		content string
		wantErr int
	}{
		{"empty", bob.ID, "   ", 400},
		{"too long", bob.ID, strings.Repeat("a", maxMessageLength+1), 400},
		{"not friends", "someone-else", "hi", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := messaging.Send(ctx, alice.ID, tt.to, tt.content)
			if got := statusOf(err); got != tt.wantErr {
				t.Errorf("Send() status = %d, want %d (err %v)", got, tt.wantErr, err)
			}
		})
	}

	// Exactly the limit counts runes, not bytes
	if _, err := messaging.Send(ctx, alice.ID, bob.ID, strings.Repeat("é", maxMessageLength)); err != nil {
		t.Errorf("Send() at limit error = %v", err)
	}
}

func TestSendNotifiesBothSides(t *testing.T) {
	messaging, notifier, alice, bob := newMessagingFixture(t)

	message, err := messaging.Send(context.Background(), alice.ID, bob.ID, "  hello  ")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if message.Content != "hello" {
		t.Errorf("content = %q, want trimmed", message.Content)
	}

	for _, userID := range []string{alice.ID, bob.ID} {
		frames := notifier.framesFor(userID, ws.FrameMessage)
		if len(frames) != 1 {
			t.Fatalf("user %s got %d message frames, want 1", userID, len(frames))
		}
		if frames[0].From != alice.ID || frames[0].To != bob.ID {
			t.Errorf("frame = %+v", frames[0])
		}
	}
}

func TestConversationsAndMarkRead(t *testing.T) {
	messaging, notifier, alice, bob := newMessagingFixture(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		if _, err := messaging.Send(ctx, alice.ID, bob.ID, text); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	summaries, err := messaging.Conversations(ctx, bob.ID)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Conversations() = %d, want 1", len(summaries))
	}
	if summaries[0].Partner.ID != alice.ID || summaries[0].UnreadCount != 3 {
		t.Errorf("summary = partner %s unread %d", summaries[0].Partner.ID, summaries[0].UnreadCount)
	}

	unread, err := messaging.UnreadCount(ctx, bob.ID)
	if err != nil || unread != 3 {
		t.Fatalf("UnreadCount() = %d, %v, want 3", unread, err)
	}

	count, err := messaging.MarkRead(ctx, bob.ID, alice.ID)
	if err != nil || count != 3 {
		t.Fatalf("MarkRead() = %d, %v, want 3", count, err)
	}
	reads := notifier.framesFor(alice.ID, ws.FrameRead)
	if len(reads) != 1 || reads[0].Count != 3 || reads[0].From != bob.ID {
		t.Errorf("read frames = %+v", reads)
	}

	if unread, _ := messaging.UnreadCount(ctx, bob.ID); unread != 0 {
		t.Errorf("UnreadCount() after MarkRead = %d", unread)
	}
}

func TestConversationPaging(t *testing.T) {
	messaging, _, alice, bob := newMessagingFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := messaging.Send(ctx, alice.ID, bob.ID, "msg"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	page, err := messaging.Conversation(ctx, bob.ID, alice.ID, time.Time{}, 2)
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].CreatedAt.Before(page[1].CreatedAt) {
		t.Error("conversation is not newest first")
	}
}

func TestDeleteMessage(t *testing.T) {
	messaging, _, alice, bob := newMessagingFixture(t)
	ctx := context.Background()

	message, err := messaging.Send(ctx, alice.ID, bob.ID, "oops")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if err := messaging.DeleteMessage(ctx, bob.ID, message.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteMessage(recipient) error = %v, want ErrForbidden", err)
	}
	if err := messaging.DeleteMessage(ctx, alice.ID, message.ID); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	if err := messaging.DeleteMessage(ctx, alice.ID, message.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("second DeleteMessage() error = %v, want ErrMessageNotFound", err)
	}
}

func TestTypingRequiresFriendship(t *testing.T) {
	messaging, notifier, alice, bob := newMessagingFixture(t)
	ctx := context.Background()

	if err := messaging.Typing(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Typing() error = %v", err)
	}
	if got := notifier.framesFor(bob.ID, ws.FrameTyping); len(got) != 1 {
		t.Errorf("typing frames = %d, want 1", len(got))
	}
	if err := messaging.Typing(ctx, alice.ID, "stranger"); !errors.Is(err, ErrNotFriends) {
		t.Errorf("Typing(stranger) error = %v, want ErrNotFriends", err)
	}
}

func TestConversationsKeepQuietPartners(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := newRepoFromDB(db)
	messaging := NewMessagingService(repo, newConversationsFromDB(db), NewSocialService(repo), &fakeNotifier{})

	me := createUser(t, repo, "me", models.RoleStudent)
	quiet := createUser(t, repo, "quiet", models.RoleStudent)
	busy := createUser(t, repo, "busy", models.RoleStudent)
	makeFriends(t, repo, me, quiet)
	makeFriends(t, repo, me, busy)

	start := time.Now().UTC().Add(-time.Hour)
	messages := []models.Message{{SenderID: quiet.ID, RecipientID: me.ID, Content: "still there?", CreatedAt: start}}
	for i := 0; i < 600; i++ {
		messages = append(messages, models.Message{
			SenderID:    busy.ID,
			RecipientID: me.ID,
			Content:     "ping",
			CreatedAt:   start.Add(time.Duration(i+1) * time.Second),
		})
	}
	if err := db.CreateInBatches(messages, 100).Error; err != nil {
		t.Fatalf("failed to insert messages: %v", err)
	}

	summaries, err := messaging.Conversations(ctx, me.ID)
	if err != nil {
		t.Fatalf("Conversations() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Conversations() = %d summaries, want 2", len(summaries))
	}
	if summaries[0].Partner.ID != busy.ID || summaries[0].UnreadCount != 600 {
		t.Errorf("first = partner %s unread %d, want busy with 600", summaries[0].Partner.ID, summaries[0].UnreadCount)
	}
	if summaries[1].Partner.ID != quiet.ID || summaries[1].UnreadCount != 1 || summaries[1].LastMessage.Content != "still there?" {
		t.Errorf("second = partner %s unread %d last %q", summaries[1].Partner.ID, summaries[1].UnreadCount, summaries[1].LastMessage.Content)
	}
}
