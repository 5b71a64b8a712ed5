package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AIEndpoints struct {
	quizzes *QuizService
	resumes *ResumeService
	career  *CareerService
	limiter *UserRateLimiter
}

type submitQuizRequest struct {
	Answers []int `json:"answers"`
}

func NewAIEndpoints(quizzes *QuizService, resumes *ResumeService, career *CareerService, limiter *UserRateLimiter) *AIEndpoints {
	return &AIEndpoints{quizzes: quizzes, resumes: resumes, career: career, limiter: limiter}
}

// RegisterRoutes mounts the AI features and resume storage. Every route that
// calls the model goes through the per-user limiter.
func (e *AIEndpoints) RegisterRoutes(r chi.Router) {
	limited := e.limiter.Middleware

	r.Route("/ai", func(r chi.Router) {
		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", e.ListQuizzesHandler)
			r.With(limited).Post("/", e.GenerateQuizHandler)
			r.Get("/{id}", e.GetQuizHandler)
			r.Post("/{id}/submit", e.SubmitQuizHandler)
		})
		r.With(limited).Post("/salary", e.EstimateSalaryHandler)
		r.With(limited).Get("/matches", e.MatchJobsHandler)
	})

	r.Route("/resumes", func(r chi.Router) {
		r.Get("/", e.ListResumesHandler)
		r.Post("/", e.CreateResumeHandler)
		r.Get("/{id}", e.GetResumeHandler)
		r.Delete("/{id}", e.DeleteResumeHandler)
		r.With(limited).Post("/{id}/improve", e.ImproveResumeHandler)
	})
}

func (e *AIEndpoints) GenerateQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req GenerateQuizInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	quiz, err := e.quizzes.Generate(r.Context(), user, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"quiz": quiz})
}

func (e *AIEndpoints) ListQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	quizzes, err := e.quizzes.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (e *AIEndpoints) GetQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	quiz, err := e.quizzes.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quiz": quiz})
}

func (e *AIEndpoints) SubmitQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req submitQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := e.quizzes.Submit(r.Context(), user.ID, chi.URLParam(r, "id"), req.Answers)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (e *AIEndpoints) EstimateSalaryHandler(w http.ResponseWriter, r *http.Request) {
	var req SalaryInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	estimate, err := e.career.EstimateSalary(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"estimate": estimate})
}

func (e *AIEndpoints) MatchJobsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	matches, err := e.career.MatchJobs(r.Context(), user, queryInt(r, "limit", defaultMatchLimit))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

func (e *AIEndpoints) CreateResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req ResumeInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resume, err := e.resumes.Create(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"resume": resume})
}

func (e *AIEndpoints) ListResumesHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	resumes, err := e.resumes.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"resumes": resumes})
}

func (e *AIEndpoints) GetResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	resume, err := e.resumes.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"resume": resume})
}

func (e *AIEndpoints) DeleteResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := e.resumes.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Resume deleted"})
}

func (e *AIEndpoints) ImproveResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req ImproveInput
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}

	resume, err := e.resumes.Improve(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"resume": resume})
}
