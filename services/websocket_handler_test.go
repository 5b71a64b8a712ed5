package services

import (
	"encoding/json"
	"testing"

	ws "github.com/krshsl/campusjobs/backend/websocket"
)

func nextFrame(t *testing.T, client *ws.Client) (ws.Frame, bool) {
	t.Helper()
	select {
	case payload := <-client.Send:
		var frame ws.Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			t.Fatalf("failed to decode frame: %v", err)
		}
		return frame, true
	default:
		return ws.Frame{}, false
	}
}

func TestHandleWebSocketMessage(t *testing.T) {
	messaging, notifier, alice, bob := newMessagingFixture(t)
	handler := NewWebSocketHandler(messaging)

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()
	client := hub.RegisterClient(nil, alice.ID)

	tests := []struct {
		name      string
		payload   string
		wantError string
	}{
		{"malformed", `{"type":`, "invalid frame"},
		{"missing recipient", `{"type":"message","content":"hi"}`, "to is required"},
		{"unknown type", `{"type":"wave","to":"` + bob.ID + `"}`, "unknown frame type"},
		{"not friends", `{"type":"message","to":"stranger","content":"hi"}`, ErrNotFriends.Error()},
		{"empty message", `{"type":"message","to":"` + bob.ID + `","content":" "}`, "content is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler.HandleWebSocketMessage(client, []byte(tt.payload))
			frame, ok := nextFrame(t, client)
			if !ok {
				t.Fatal("no error frame queued")
			}
			if frame.Type != ws.FrameError || frame.Error != tt.wantError {
				t.Errorf("frame = %+v, want error %q", frame, tt.wantError)
			}
		})
	}

	handler.HandleWebSocketMessage(client, []byte(`{"type":"message","to":"`+bob.ID+`","content":"hello"}`))
	if frame, ok := nextFrame(t, client); ok {
		t.Errorf("unexpected frame after valid message: %+v", frame)
	}
	if got := notifier.framesFor(bob.ID, ws.FrameMessage); len(got) != 1 {
		t.Errorf("bob received %d message frames, want 1", len(got))
	}

	handler.HandleWebSocketMessage(client, []byte(`{"type":"typing","to":"`+bob.ID+`"}`))
	if got := notifier.framesFor(bob.ID, ws.FrameTyping); len(got) != 1 {
		t.Errorf("bob received %d typing frames, want 1", len(got))
	}
}
