package services

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type MessageEndpoints struct {
	messaging *MessagingService
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func NewMessageEndpoints(messaging *MessagingService) *MessageEndpoints {
	return &MessageEndpoints{messaging: messaging}
}

// RegisterRoutes mounts the messaging routes. {id} is the partner's user id,
// except on DELETE where it names the message.
func (e *MessageEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Get("/conversations", e.ListConversationsHandler)
		r.Get("/unread", e.UnreadCountHandler)
		r.Get("/{id}", e.GetConversationHandler)
		r.Post("/{id}", e.SendMessageHandler)
		r.Post("/{id}/read", e.MarkReadHandler)
		r.Delete("/{id}", e.DeleteMessageHandler)
	})
}

func (e *MessageEndpoints) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	conversations, err := e.messaging.Conversations(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

func (e *MessageEndpoints) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	count, err := e.messaging.UnreadCount(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"unread": count})
}

func (e *MessageEndpoints) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var before time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			respondError(w, r, invalid("before must be an RFC3339 timestamp"))
			return
		}
		before = parsed
	}
	limit := queryInt(r, "limit", defaultPageSize)

	messages, err := e.messaging.Conversation(r.Context(), user.ID, chi.URLParam(r, "id"), before, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response := map[string]interface{}{"messages": messages}
	if len(messages) > 0 {
		response["next_before"] = messages[len(messages)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, response)
}

func (e *MessageEndpoints) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	message, err := e.messaging.Send(r.Context(), user.ID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": message})
}

func (e *MessageEndpoints) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	count, err := e.messaging.MarkRead(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"marked_read": count})
}

func (e *MessageEndpoints) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := e.messaging.DeleteMessage(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
