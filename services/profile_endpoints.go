package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ProfileEndpoints struct {
	profileService *ProfileService
}

func NewProfileEndpoints(profileService *ProfileService) *ProfileEndpoints {
	return &ProfileEndpoints{profileService: profileService}
}

func (e *ProfileEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", e.GetProfileHandler)
		r.Put("/", e.UpdateProfileHandler)
		r.Post("/onboarding", e.OnboardingHandler)
	})
	r.Route("/users", func(r chi.Router) {
		r.Get("/search", e.SearchUsersHandler)
		r.Get("/{id}", e.GetUserHandler)
	})
}

func (e *ProfileEndpoints) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"onboarded": user.IsOnboarded(),
	})
}

func (e *ProfileEndpoints) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req ProfileInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := e.profileService.UpdateProfile(r.Context(), user, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": updated})
}

func (e *ProfileEndpoints) OnboardingHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req OnboardingInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := e.profileService.CompleteOnboarding(r.Context(), user, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    updated,
		"message": "Onboarding completed",
	})
}

func (e *ProfileEndpoints) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	public, err := e.profileService.GetPublicUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": public})
}

func (e *ProfileEndpoints) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	limit, offset := pagination(r)

	users, total, err := e.profileService.SearchUsers(r.Context(), user.ID, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}
