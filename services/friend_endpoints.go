package services

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krshsl/campusjobs/backend/models"
)

type FriendEndpoints struct {
	socialService *SocialService
}

type friendRequestBody struct {
	RecipientID string `json:"recipient_id"`
}

func NewFriendEndpoints(socialService *SocialService) *FriendEndpoints {
	return &FriendEndpoints{socialService: socialService}
}

func (e *FriendEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/friends", func(r chi.Router) {
		r.Get("/", e.ListFriendsHandler)
		r.Delete("/{userId}", e.UnfriendHandler)

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", e.SendRequestHandler)
			r.Get("/incoming", e.ListIncomingHandler)
			r.Get("/outgoing", e.ListOutgoingHandler)
			r.Post("/{id}/accept", e.transitionHandler(e.socialService.Accept))
			r.Post("/{id}/reject", e.transitionHandler(e.socialService.Reject))
			r.Post("/{id}/cancel", e.transitionHandler(e.socialService.Cancel))
		})
	})
}

func (e *FriendEndpoints) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	friends, err := e.socialService.ListFriends(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"friends": friends,
		"count":   len(friends),
	})
}

func (e *FriendEndpoints) UnfriendHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := e.socialService.Unfriend(r.Context(), user.ID, chi.URLParam(r, "userId")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *FriendEndpoints) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req friendRequestBody
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.RecipientID == "" {
		respondError(w, r, invalid("recipient_id is required"))
		return
	}

	request, err := e.socialService.SendRequest(r.Context(), user.ID, req.RecipientID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"request": request})
}

func (e *FriendEndpoints) ListIncomingHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	requests, err := e.socialService.ListIncoming(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (e *FriendEndpoints) ListOutgoingHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	requests, err := e.socialService.ListOutgoing(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

type transitionFunc func(ctx context.Context, userID, requestID string) (*models.FriendRequest, error)

func (e *FriendEndpoints) transitionHandler(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())

		request, err := fn(r.Context(), user.ID, chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"request": request})
	}
}
