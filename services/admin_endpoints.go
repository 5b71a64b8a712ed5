package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

type AdminEndpoints struct {
	admin *AdminService
	jobs  *JobService
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func NewAdminEndpoints(admin *AdminService, jobs *JobService) *AdminEndpoints {
	return &AdminEndpoints{admin: admin, jobs: jobs}
}

func (e *AdminEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireRole(models.RoleAdmin))

		r.Get("/stats", e.StatsHandler)
		r.Get("/users", e.ListUsersHandler)
		r.Put("/users/{id}/role", e.SetRoleHandler)
		r.Delete("/users/{id}", e.DeleteUserHandler)
		r.Delete("/jobs/{id}", e.DeleteJobHandler)
	})
}

func (e *AdminEndpoints) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := e.admin.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (e *AdminEndpoints) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	users, total, err := e.admin.ListUsers(r.Context(), repository.UserFilter{
		Query:  r.URL.Query().Get("q"),
		Role:   r.URL.Query().Get("role"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (e *AdminEndpoints) SetRoleHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := UserFromContext(r.Context())

	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := e.admin.SetRole(r.Context(), admin, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (e *AdminEndpoints) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := UserFromContext(r.Context())

	if err := e.admin.DeleteUser(r.Context(), admin, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (e *AdminEndpoints) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	admin, _ := UserFromContext(r.Context())

	if err := e.jobs.DeleteJob(r.Context(), admin, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job listing deleted"})
}
