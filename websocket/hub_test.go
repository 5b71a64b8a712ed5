package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSendToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	alice1 := hub.RegisterClient(nil, "alice")
	alice2 := hub.RegisterClient(nil, "alice")
	bob := hub.RegisterClient(nil, "bob")

	if got := hub.SendToUser("alice", []byte("hi")); got != 2 {
		t.Fatalf("SendToUser() delivered to %d clients, expected 2", got)
	}
	if got := hub.SendToUser("nobody", []byte("hi")); got != 0 {
		t.Fatalf("SendToUser() delivered to %d clients for unknown user, expected 0", got)
	}

	for _, c := range []*Client{alice1, alice2} {
		select {
		case msg := <-c.Send:
			if string(msg) != "hi" {
				t.Errorf("client received %q, expected %q", msg, "hi")
			}
		default:
			t.Errorf("client %s received nothing", c.ID)
		}
	}

	select {
	case msg := <-bob.Send:
		t.Errorf("bob received %q, expected nothing", msg)
	default:
	}
}

func TestSendFrame(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := hub.RegisterClient(nil, "alice")
	hub.SendFrame("alice", Frame{Type: FrameTyping, From: "bob"})

	var frame Frame
	if err := json.Unmarshal(<-client.Send, &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	if frame.Type != FrameTyping || frame.From != "bob" {
		t.Errorf("frame = %+v, expected typing from bob", frame)
	}
}

func TestUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := hub.RegisterClient(nil, "alice")
	if !hub.IsOnline("alice") {
		t.Fatal("IsOnline() = false after register")
	}

	hub.Unregister(client)

	deadline := time.Now().Add(time.Second)
	for hub.IsOnline("alice") {
		if time.Now().After(deadline) {
			t.Fatal("client still registered after Unregister")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, ok := <-client.Send; ok {
		t.Error("send channel still open after Unregister")
	}

	// Frames to a closed client are ignored rather than panicking
	client.SendFrame(Frame{Type: FrameError, Error: "late"})
}

func TestSlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	hub.RegisterClient(nil, "alice")
	for i := 0; i < sendBuffer; i++ {
		hub.SendToUser("alice", []byte("x"))
	}

	if got := hub.SendToUser("alice", []byte("overflow")); got != 0 {
		t.Errorf("SendToUser() = %d on a full buffer, expected 0", got)
	}
	if hub.IsOnline("alice") {
		t.Error("slow client was not dropped")
	}
}
