package services

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

type JobEndpoints struct {
	jobService *JobService
}

type applicationStatusRequest struct {
	Status string `json:"status"`
}

func NewJobEndpoints(jobService *JobService) *JobEndpoints {
	return &JobEndpoints{jobService: jobService}
}

func (e *JobEndpoints) RegisterRoutes(r chi.Router) {
	poster := RequireRole(models.RoleRecruiter, models.RoleAdmin)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", e.ListJobsHandler)
		r.With(poster).Post("/", e.CreateJobHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", e.GetJobHandler)
			r.With(poster).Put("/", e.UpdateJobHandler)
			r.With(poster).Post("/close", e.CloseJobHandler)
			r.With(poster).Delete("/", e.DeleteJobHandler)
			r.With(poster).Get("/applications", e.ListJobApplicationsHandler)
			r.Post("/apply", e.ApplyHandler)
		})
	})

	r.Route("/applications", func(r chi.Router) {
		r.Get("/", e.ListMyApplicationsHandler)
		r.With(poster).Patch("/{id}/status", e.UpdateApplicationStatusHandler)
		r.Post("/{id}/withdraw", e.WithdrawHandler)
	})
}

func (e *JobEndpoints) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	q := r.URL.Query()
	limit, offset := pagination(r)

	filter := repository.JobFilter{
		Query:          q.Get("q"),
		Location:       q.Get("location"),
		EmploymentType: q.Get("employment_type"),
		Status:         q.Get("status"),
		Limit:          limit,
		Offset:         offset,
	}
	if raw := q.Get("remote"); raw != "" {
		remote, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, invalid("remote must be true or false"))
			return
		}
		filter.Remote = &remote
	}
	if q.Get("mine") == "true" {
		filter.PostedByID = user.ID
	}

	jobs, total, err := e.jobService.ListJobs(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   jobs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (e *JobEndpoints) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := e.jobService.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (e *JobEndpoints) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req JobInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := e.jobService.CreateJob(r.Context(), user, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"job": job})
}

func (e *JobEndpoints) UpdateJobHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req JobInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := e.jobService.UpdateJob(r.Context(), user, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (e *JobEndpoints) CloseJobHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	job, err := e.jobService.CloseJob(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (e *JobEndpoints) DeleteJobHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := e.jobService.DeleteJob(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *JobEndpoints) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req ApplyInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	application, err := e.jobService.Apply(r.Context(), user, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"application": application})
}

func (e *JobEndpoints) ListJobApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	applications, err := e.jobService.ListApplicationsForJob(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applications": applications,
		"count":        len(applications),
	})
}

func (e *JobEndpoints) ListMyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	applications, err := e.jobService.ListMyApplications(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applications": applications,
		"count":        len(applications),
	})
}

func (e *JobEndpoints) UpdateApplicationStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req applicationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	application, err := e.jobService.UpdateApplicationStatus(r.Context(), user, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"application": application})
}

func (e *JobEndpoints) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	application, err := e.jobService.Withdraw(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"application": application})
}
