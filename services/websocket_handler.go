package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/krshsl/campusjobs/backend/apierror"
	ws "github.com/krshsl/campusjobs/backend/websocket"
)

const frameTimeout = 10 * time.Second

// WebSocketHandler turns inbound client frames into messaging operations
type WebSocketHandler struct {
	messaging *MessagingService
}

func NewWebSocketHandler(messaging *MessagingService) *WebSocketHandler {
	return &WebSocketHandler{messaging: messaging}
}

// HandleWebSocketMessage processes one frame. Failures are reported back to the
// sending connection as an error frame.
func (h *WebSocketHandler) HandleWebSocketMessage(client *ws.Client, messageBytes []byte) {
	var frame ws.Frame
	if err := json.Unmarshal(messageBytes, &frame); err != nil {
		slog.Warn("Failed to unmarshal WebSocket frame", "error", err, "user_id", client.UserID)
		client.SendFrame(ws.Frame{Type: ws.FrameError, Error: "invalid frame"})
		return
	}
	if frame.To == "" {
		client.SendFrame(ws.Frame{Type: ws.FrameError, Error: "to is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	var err error
	switch frame.Type {
	case ws.FrameMessage:
		_, err = h.messaging.Send(ctx, client.UserID, frame.To, frame.Content)
	case ws.FrameTyping:
		err = h.messaging.Typing(ctx, client.UserID, frame.To)
	case ws.FrameRead:
		_, err = h.messaging.MarkRead(ctx, client.UserID, frame.To)
	default:
		slog.Warn("Unknown frame type", "type", frame.Type, "user_id", client.UserID)
		client.SendFrame(ws.Frame{Type: ws.FrameError, Error: "unknown frame type"})
		return
	}

	if err != nil {
		apiErr := apierror.FromError(err)
		if apiErr.Code >= 500 {
			slog.Error("WebSocket frame failed", "error", err, "type", frame.Type, "user_id", client.UserID)
		}
		client.SendFrame(ws.Frame{Type: ws.FrameError, To: frame.To, Error: apiErr.Detail})
	}
}
