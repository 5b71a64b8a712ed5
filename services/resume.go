package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

const (
	maxResumeLength     = 50000
	maxTitleLength      = 255
	jobContextLength    = 4000
	improveSystemPrompt = `You are a career coach who rewrites student resumes. Keep every fact from the original; never invent employers, degrees or dates. Respond with JSON only.`
	defaultResumeTitle  = "Resume"
	improvedTitleSuffix = " (improved)"
)

var improveSchema = mustSchema(`{
  "type": "object",
  "required": ["improved_content", "summary", "suggestions"],
  "properties": {
    "improved_content": {"type": "string", "minLength": 1},
    "summary": {"type": "string"},
    "suggestions": {"type": "array", "items": {"type": "string"}}
  }
}`)

type ResumeInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ImproveInput struct {
	JobListingID *string `json:"job_listing_id"`
}

type ResumeService struct {
	repo *repository.GORMRepository
	gen  TextGenerator
}

func NewResumeService(repo *repository.GORMRepository, gen TextGenerator) *ResumeService {
	return &ResumeService{repo: repo, gen: gen}
}

func (s *ResumeService) Create(ctx context.Context, userID string, in ResumeInput) (*models.Resume, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultResumeTitle
	}
	if len(title) > maxTitleLength {
		return nil, invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if len(content) > maxResumeLength {
		return nil, invalid(fmt.Sprintf("content must be at most %d characters", maxResumeLength))
	}

	resume := &models.Resume{
		UserID:  userID,
		Title:   title,
		Content: content,
		Source:  models.ResumeSourceUser,
	}
	if err := s.repo.CreateResume(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return resume, nil
}

func (s *ResumeService) List(ctx context.Context, userID string) ([]models.Resume, error) {
	resumes, err := s.repo.ListResumes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

func (s *ResumeService) Get(ctx context.Context, userID, id string) (*models.Resume, error) {
	resume, err := s.repo.GetResume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if resume == nil || resume.UserID != userID {
		return nil, ErrResumeNotFound
	}
	return resume, nil
}

func (s *ResumeService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteResume(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}

// Improve has the model rewrite a resume, optionally targeting a listing, and
// stores the result as a new version derived from the original
func (s *ResumeService) Improve(ctx context.Context, userID, id string, in ImproveInput) (*models.Resume, error) {
	original, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var job *models.JobListing
	if in.JobListingID != nil && *in.JobListingID != "" {
		job, err = s.repo.GetJobListing(ctx, *in.JobListingID)
		if err != nil {
			return nil, fmt.Errorf("failed to get job listing: %w", err)
		}
		if job == nil {
			return nil, ErrJobNotFound
		}
	}

	var payload struct {
		ImprovedContent string   `json:"improved_content"`
		Summary         string   `json:"summary"`
		Suggestions     []string `json:"suggestions"`
	}
	if _, err := generateJSON(ctx, s.gen, improveSystemPrompt, buildImprovePrompt(original, job), improveSchema, &payload); err != nil {
		return nil, err
	}

	title := original.Title
	if !strings.HasSuffix(title, improvedTitleSuffix) && len(title)+len(improvedTitleSuffix) <= maxTitleLength {
		title += improvedTitleSuffix
	}

	improved := &models.Resume{
		UserID:      userID,
		ParentID:    &original.ID,
		Title:       title,
		Content:     strings.TrimSpace(payload.ImprovedContent),
		Summary:     strings.TrimSpace(payload.Summary),
		Suggestions: payload.Suggestions,
		Source:      models.ResumeSourceAI,
	}
	if job != nil {
		improved.JobListingID = &job.ID
	}
	if err := s.repo.CreateResume(ctx, improved); err != nil {
		return nil, fmt.Errorf("failed to store improved resume: %w", err)
	}
	return improved, nil
}

func buildImprovePrompt(resume *models.Resume, job *models.JobListing) string {
	var b strings.Builder
	b.WriteString("Improve the resume below: tighten wording, lead bullets with strong verbs and quantify results where the text already allows it.\n")
	if job != nil {
		fmt.Fprintf(&b, "Tailor it to this job: %s at %s.\n", job.Title, job.Company)
		if len(job.Skills) > 0 {
			fmt.Fprintf(&b, "Required skills: %s.\n", strings.Join(job.Skills, ", "))
		}
		fmt.Fprintf(&b, "Job description:\n%s\n", truncate(job.DescriptionText, jobContextLength))
	}
	b.WriteString(`
Return an object of this shape:
{"improved_content": "full rewritten resume text", "summary": "two sentence summary of the changes", "suggestions": ["further improvement the student should make"]}

Resume:
`)
	b.WriteString(resume.Content)
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
