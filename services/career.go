package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
	"github.com/tidwall/gjson"
)

const (
	maxExperienceYears = 50
	matchCandidates    = 50
	defaultMatchLimit  = 10
	matchSnippetLength = 600
	maxSalaryAmount    = 100_000_000

	MatchSourceAI     = "ai"
	MatchSourceSkills = "skills"
)

const careerSystemPrompt = `You are a career advisor for university students and recent graduates. Respond with JSON only.`

var salarySchema = mustSchema(`{
  "type": "object",
  "required": ["min", "max", "currency", "period", "confidence", "rationale"],
  "properties": {
    "min": {"type": "number", "minimum": 0},
    "max": {"type": "number", "minimum": 0},
    "currency": {"type": "string", "minLength": 3, "maxLength": 3},
    "period": {"enum": ["year", "month", "hour"]},
    "confidence": {"enum": ["low", "medium", "high"]},
    "rationale": {"type": "string"}
  }
}`)

var matchSchema = mustSchema(`{
  "type": "object",
  "required": ["matches"],
  "properties": {
    "matches": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["job_id", "score"],
        "properties": {
          "job_id": {"type": "string"},
          "score": {"type": "number"},
          "reason": {"type": "string"}
        }
      }
    }
  }
}`)

type SalaryInput struct {
	Role            string   `json:"role"`
	Location        string   `json:"location"`
	ExperienceYears int      `json:"experience_years"`
	Skills          []string `json:"skills"`
}

type SalaryEstimate struct {
	Role       string `json:"role"`
	Location   string `json:"location,omitempty"`
	Min        int    `json:"min"`
	Max        int    `json:"max"`
	Currency   string `json:"currency"`
	Period     string `json:"period"`
	Confidence string `json:"confidence"`
	Rationale  string `json:"rationale"`
}

type JobMatch struct {
	Job    models.JobListing `json:"job"`
	Score  int               `json:"score"`
	Reason string            `json:"reason"`
	Source string            `json:"source"`
}

type CareerService struct {
	repo *repository.GORMRepository
	gen  TextGenerator
}

func NewCareerService(repo *repository.GORMRepository, gen TextGenerator) *CareerService {
	return &CareerService{repo: repo, gen: gen}
}

// EstimateSalary asks the model for a salary range. A reversed range is swapped.
func (s *CareerService) EstimateSalary(ctx context.Context, in SalaryInput) (*SalaryEstimate, error) {
	in.Role = strings.TrimSpace(in.Role)
	in.Location = strings.TrimSpace(in.Location)
	if in.Role == "" {
		return nil, invalid("role is required")
	}
	if in.ExperienceYears < 0 || in.ExperienceYears > maxExperienceYears {
		return nil, invalid(fmt.Sprintf("experience_years must be between 0 and %d", maxExperienceYears))
	}
	skills, err := normalizeSkills(in.Skills)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Estimate the salary range for this position.
Role: %s
Location: %s
Years of experience: %d
Skills: %s

Return an object of this shape:
{"min": 0, "max": 0, "currency": "USD", "period": "year", "confidence": "low|medium|high", "rationale": "one short paragraph"}`,
		in.Role, orUnknown(in.Location), in.ExperienceYears, orUnknown(strings.Join(skills, ", ")))

	var payload struct {
		Min        float64 `json:"min"`
		Max        float64 `json:"max"`
		Currency   string  `json:"currency"`
		Period     string  `json:"period"`
		Confidence string  `json:"confidence"`
		Rationale  string  `json:"rationale"`
	}
	if _, err := generateJSON(ctx, s.gen, careerSystemPrompt, prompt, salarySchema, &payload); err != nil {
		return nil, err
	}

	estimate := &SalaryEstimate{
		Role:       in.Role,
		Location:   in.Location,
		Min:        roundSalary(payload.Min),
		Max:        roundSalary(payload.Max),
		Currency:   strings.ToUpper(payload.Currency),
		Period:     payload.Period,
		Confidence: payload.Confidence,
		Rationale:  strings.TrimSpace(payload.Rationale),
	}
	if estimate.Min > estimate.Max {
		estimate.Min, estimate.Max = estimate.Max, estimate.Min
	}
	return estimate, nil
}

// roundSalary caps the amount before converting so huge model values cannot overflow
func roundSalary(amount float64) int {
	if math.IsNaN(amount) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(maxSalaryAmount, amount))))
}

func orUnknown(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

// MatchJobs ranks open listings for the user. The model scores them when one
// is configured; otherwise, or when the model fails, skill overlap is used.
func (s *CareerService) MatchJobs(ctx context.Context, user *models.User, limit int) ([]JobMatch, error) {
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	limit = min(limit, matchCandidates)

	jobs, _, err := s.repo.ListJobListings(ctx, repository.JobFilter{
		Status: models.JobStatusOpen,
		Limit:  matchCandidates,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list job listings: %w", err)
	}
	if len(jobs) == 0 {
		return []JobMatch{}, nil
	}

	resume, err := s.repo.GetLatestResume(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest resume: %w", err)
	}
	resumeText := ""
	if resume != nil {
		resumeText = resume.Content
	}

	var matches []JobMatch
	if s.gen != nil {
		matches, err = s.matchWithModel(ctx, user, resumeText, jobs)
		if err != nil {
			slog.Warn("Model job matching failed, using skill overlap", "error", err, "user_id", user.ID)
			matches = nil
		}
	}
	if matches == nil {
		matches = make([]JobMatch, 0, len(jobs))
		for _, job := range jobs {
			matches = append(matches, skillMatch(user.Skills, resumeText, job))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *CareerService) matchWithModel(ctx context.Context, user *models.User, resumeText string, jobs []models.JobListing) ([]JobMatch, error) {
	raw, err := generateJSON(ctx, s.gen, careerSystemPrompt, buildMatchPrompt(user, resumeText, jobs), matchSchema, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.JobListing, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
	}

	scored := make(map[string]bool, len(jobs))
	matches := make([]JobMatch, 0, len(jobs))
	gjson.Get(raw, "matches").ForEach(func(_, m gjson.Result) bool {
		id := m.Get("job_id").String()
		job, ok := byID[id]
		if !ok || scored[id] {
			return true
		}
		scored[id] = true
		matches = append(matches, JobMatch{
			Job:    job,
			Score:  clampScore(m.Get("score").Float()),
			Reason: strings.TrimSpace(m.Get("reason").String()),
			Source: MatchSourceAI,
		})
		return true
	})

	// Listings the model skipped still get a score
	for _, job := range jobs {
		if !scored[job.ID] {
			matches = append(matches, skillMatch(user.Skills, resumeText, job))
		}
	}
	return matches, nil
}

func buildMatchPrompt(user *models.User, resumeText string, jobs []models.JobListing) string {
	var b strings.Builder
	b.WriteString("Score how well each job fits the candidate from 0 (no fit) to 100 (perfect fit).\n\nCandidate:\n")
	fmt.Fprintf(&b, "Major: %s\nUniversity: %s\nHeadline: %s\nSkills: %s\n",
		orUnknown(user.Major), orUnknown(user.University), orUnknown(user.Headline), orUnknown(strings.Join(user.Skills, ", ")))
	if resumeText != "" {
		fmt.Fprintf(&b, "Resume:\n%s\n", truncate(resumeText, jobContextLength))
	}

	b.WriteString("\nJobs:\n")
	for _, job := range jobs {
		fmt.Fprintf(&b, "- job_id: %s\n  title: %s at %s (%s)\n  skills: %s\n  description: %s\n",
			job.ID, job.Title, job.Company, job.EmploymentType,
			strings.Join(job.Skills, ", "), truncate(job.DescriptionText, matchSnippetLength))
	}
	b.WriteString(`
Return an object of this shape, one entry per job:
{"matches": [{"job_id": "...", "score": 0, "reason": "one sentence"}]}`)
	return b.String()
}

// skillMatch scores a listing by the share of its skills found in the user's
// skills or resume text
func skillMatch(userSkills []string, resumeText string, job models.JobListing) JobMatch {
	match := JobMatch{Job: job, Source: MatchSourceSkills}
	if len(job.Skills) == 0 {
		match.Reason = "listing does not name any skills"
		return match
	}

	have := make(map[string]bool, len(userSkills))
	for _, skill := range userSkills {
		have[strings.ToLower(strings.TrimSpace(skill))] = true
	}
	resumeLower := strings.ToLower(resumeText)

	var matched []string
	for _, skill := range job.Skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			continue
		}
		if have[key] || (resumeLower != "" && strings.Contains(resumeLower, key)) {
			matched = append(matched, skill)
		}
	}

	match.Score = clampScore(100 * float64(len(matched)) / float64(len(job.Skills)))
	if len(matched) == 0 {
		match.Reason = "no matching skills"
	} else {
		match.Reason = fmt.Sprintf("matches %d of %d skills: %s", len(matched), len(job.Skills), strings.Join(matched, ", "))
	}
	return match
}

// clampScore bounds the score to 0..100 before rounding it to an int
func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}
