package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krshsl/campusjobs/backend/models"
)

type InterviewEndpoints struct {
	interviews *InterviewService
}

func NewInterviewEndpoints(interviews *InterviewService) *InterviewEndpoints {
	return &InterviewEndpoints{interviews: interviews}
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Get("/", e.ListInterviewsHandler)
		r.With(RequireRole(models.RoleRecruiter, models.RoleAdmin)).Post("/", e.ScheduleInterviewHandler)
		r.Get("/{id}", e.GetInterviewHandler)
		r.Post("/{id}/cancel", e.CancelInterviewHandler)
		r.Post("/{id}/complete", e.CompleteInterviewHandler)
		r.Get("/{id}/join", e.JoinInterviewHandler)
	})
}

func (e *InterviewEndpoints) ScheduleInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req ScheduleInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	interview, err := e.interviews.Schedule(r.Context(), user, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"interview": interview})
}

func (e *InterviewEndpoints) ListInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	interviews, err := e.interviews.List(r.Context(), user.ID, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interviews": interviews})
}

func (e *InterviewEndpoints) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	interview, err := e.interviews.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interview": interview})
}

func (e *InterviewEndpoints) CancelInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	interview, err := e.interviews.Cancel(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interview": interview})
}

func (e *InterviewEndpoints) CompleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	interview, err := e.interviews.Complete(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"interview": interview})
}

func (e *InterviewEndpoints) JoinInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	url, err := e.interviews.Join(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"room_url": url})
}
