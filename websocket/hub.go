package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Frame types exchanged with browser clients
const (
	FrameMessage = "message"
	FrameTyping  = "typing"
	FrameRead    = "read"
	FrameError   = "error"
)

// Hub tracks open connections per user and delivers frames to them
type Hub struct {
	clients    map[string]map[*Client]bool
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

type Client struct {
	ID             string
	Hub            *Hub
	Conn           *websocket.Conn
	Send           chan []byte
	UserID         string
	MessageHandler func(*Client, []byte) // Called for every inbound frame, in order
}

// Frame is the JSON envelope of every websocket message. Client frames carry To;
// server frames carry From and, for delivered messages, the stored Message.
type Frame struct {
	Type    string      `json:"type"`
	To      string      `json:"to,omitempty"`
	From    string      `json:"from,omitempty"`
	Content string      `json:"content,omitempty"`
	Message interface{} `json:"message,omitempty"`
	Count   int64       `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		unregister: make(chan *Client, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Run drains unregistrations until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop closes every client and ends Run
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// RegisterClient adds a connection for userID. conn may be nil in tests.
func (h *Hub) RegisterClient(conn *websocket.Conn, userID string) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		Hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][client] = true
	count := len(h.clients[userID])
	h.mu.Unlock()

	slog.Info("Client registered", "user_id", userID, "client_id", client.ID, "connections", count)
	return client
}

// Unregister removes the client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	conns, ok := h.clients[client.UserID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	slog.Info("Client unregistered", "user_id", client.UserID, "client_id", client.ID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			h.dropLocked(client)
		}
	}
}

// SendToUser queues payload on every connection of the user and returns how
// many accepted it. Connections with a full buffer are dropped.
func (h *Hub) SendToUser(userID string, payload []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
			delivered++
		default:
			slog.Warn("Dropping slow websocket client", "user_id", userID, "client_id", client.ID)
			h.dropLocked(client)
		}
	}
	return delivered
}

// SendFrame marshals frame and delivers it to the user's connections
func (h *Hub) SendFrame(userID string, frame Frame) int {
	payload, err := json.Marshal(frame)
	if err != nil {
		slog.Error("Failed to marshal frame", "error", err, "type", frame.Type)
		return 0
	}
	return h.SendToUser(userID, payload)
}

// IsOnline reports whether the user has at least one open connection
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendFrame queues a frame for this connection only
func (c *Client) SendFrame(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		slog.Error("Failed to marshal frame", "error", err, "type", frame.Type)
		return
	}

	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()
	// Send is closed once the client is no longer registered
	if !c.Hub.clients[c.UserID][c] {
		return
	}
	select {
	case c.Send <- payload:
	default:
		slog.Warn("Client send buffer full", "user_id", c.UserID, "client_id", c.ID)
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err, "user_id", c.UserID)
			}
			break
		}

		if c.MessageHandler != nil {
			c.MessageHandler(c, messageBytes)
		} else {
			slog.Warn("No message handler registered, dropping frame", "user_id", c.UserID)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per websocket message so clients can JSON.parse each one
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
