package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
	"gorm.io/gorm"
)

const maxCoverLetterLength = 10000

// JobInput is the editable part of a listing. Update replaces every field.
type JobInput struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	Remote         bool     `json:"remote"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	SalaryMin      *int     `json:"salary_min"`
	SalaryMax      *int     `json:"salary_max"`
	ApplicationURL string   `json:"application_url"`
}

type ApplyInput struct {
	ResumeID    *string `json:"resume_id"`
	CoverLetter string  `json:"cover_letter"`
}

type JobService struct {
	repo *repository.GORMRepository
}

func NewJobService(repo *repository.GORMRepository) *JobService {
	return &JobService{repo: repo}
}

func (in *JobInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.ApplicationURL = strings.TrimSpace(in.ApplicationURL)

	switch {
	case in.Title == "":
		return invalid("title is required")
	case in.Company == "":
		return invalid("company is required")
	case strings.TrimSpace(in.Description) == "":
		return invalid("description is required")
	case !slices.Contains(models.EmploymentTypes, in.EmploymentType):
		return invalid("employment_type must be one of " + strings.Join(models.EmploymentTypes, ", "))
	}

	if (in.SalaryMin != nil && *in.SalaryMin < 0) || (in.SalaryMax != nil && *in.SalaryMax < 0) {
		return invalid("salary must not be negative")
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return invalid("salary_min must not exceed salary_max")
	}

	if in.ApplicationURL != "" {
		u, err := url.ParseRequestURI(in.ApplicationURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("application_url must be an http(s) URL")
		}
	}

	skills, err := normalizeSkills(in.Skills)
	if err != nil {
		return err
	}
	in.Skills = skills
	return nil
}

func (in *JobInput) applyTo(job *models.JobListing) {
	job.Title = in.Title
	job.Company = in.Company
	job.Location = in.Location
	job.EmploymentType = in.EmploymentType
	job.Remote = in.Remote
	job.Description = in.Description
	job.DescriptionText = HTMLToText(in.Description)
	job.Skills = in.Skills
	job.SalaryMin = in.SalaryMin
	job.SalaryMax = in.SalaryMax
	job.ApplicationURL = in.ApplicationURL
}

func canManageJob(user *models.User, job *models.JobListing) bool {
	return user.Role == models.RoleAdmin || job.PostedByID == user.ID
}

func (s *JobService) CreateJob(ctx context.Context, user *models.User, in JobInput) (*models.JobListing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	job := &models.JobListing{
		PostedByID: user.ID,
		Status:     models.JobStatusOpen,
	}
	in.applyTo(job)

	if err := s.repo.CreateJobListing(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job listing: %w", err)
	}
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.JobListing, error) {
	job, err := s.repo.GetJobListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// ListJobs defaults to open listings; status "all" lists every status
func (s *JobService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]models.JobListing, int64, error) {
	switch filter.Status {
	case "":
		filter.Status = models.JobStatusOpen
	case "all":
		filter.Status = ""
	case models.JobStatusOpen, models.JobStatusClosed:
	default:
		return nil, 0, invalid("status must be open, closed or all")
	}
	if filter.EmploymentType != "" && !slices.Contains(models.EmploymentTypes, filter.EmploymentType) {
		return nil, 0, invalid("unknown employment_type")
	}

	jobs, total, err := s.repo.ListJobListings(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list job listings: %w", err)
	}
	return jobs, total, nil
}

// managedJob loads a listing the user may modify
func (s *JobService) managedJob(ctx context.Context, user *models.User, id string) (*models.JobListing, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageJob(user, job) {
		return nil, ErrForbidden
	}
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, user *models.User, id string, in JobInput) (*models.JobListing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	job, err := s.managedJob(ctx, user, id)
	if err != nil {
		return nil, err
	}

	in.applyTo(job)
	if err := s.repo.UpdateJobListing(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job listing: %w", err)
	}
	return job, nil
}

func (s *JobService) CloseJob(ctx context.Context, user *models.User, id string) (*models.JobListing, error) {
	job, err := s.managedJob(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	job.Status = models.JobStatusClosed
	job.ClosedAt = &now
	if err := s.repo.UpdateJobListing(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to close job listing: %w", err)
	}
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, user *models.User, id string) error {
	if _, err := s.managedJob(ctx, user, id); err != nil {
		return err
	}
	if err := s.repo.DeleteJobListing(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job listing: %w", err)
	}
	return nil
}

// Apply records a student's application to an open listing
func (s *JobService) Apply(ctx context.Context, user *models.User, jobID string, in ApplyInput) (*models.JobApplication, error) {
	if user.Role != models.RoleStudent {
		return nil, ErrForbidden
	}
	if len(in.CoverLetter) > maxCoverLetterLength {
		return nil, invalid(fmt.Sprintf("cover_letter must be at most %d characters", maxCoverLetterLength))
	}

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrJobClosed
	}

	if in.ResumeID != nil && *in.ResumeID != "" {
		resume, err := s.repo.GetResume(ctx, *in.ResumeID)
		if err != nil {
			return nil, fmt.Errorf("failed to get resume: %w", err)
		}
		if resume == nil || resume.UserID != user.ID {
			return nil, ErrResumeNotFound
		}
	} else {
		in.ResumeID = nil
	}

	existing, err := s.repo.FindJobApplication(ctx, jobID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyApplied
	}

	application := &models.JobApplication{
		JobListingID: jobID,
		UserID:       user.ID,
		ResumeID:     in.ResumeID,
		CoverLetter:  strings.TrimSpace(in.CoverLetter),
		Status:       models.ApplicationSubmitted,
	}
	if err := s.repo.CreateJobApplication(ctx, application); err != nil {
		// Lost a race with a concurrent apply
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return application, nil
}

func (s *JobService) ListMyApplications(ctx context.Context, userID string) ([]models.JobApplication, error) {
	applications, err := s.repo.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

func (s *JobService) ListApplicationsForJob(ctx context.Context, user *models.User, jobID string) ([]models.JobApplication, error) {
	if _, err := s.managedJob(ctx, user, jobID); err != nil {
		return nil, err
	}
	applications, err := s.repo.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// UpdateApplicationStatus lets the listing owner move an application through review
func (s *JobService) UpdateApplicationStatus(ctx context.Context, user *models.User, applicationID, status string) (*models.JobApplication, error) {
	if !slices.Contains(models.ApplicationStatuses, status) {
		return nil, invalid("status must be one of " + strings.Join(models.ApplicationStatuses, ", "))
	}

	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.JobListing == nil || !canManageJob(user, application.JobListing) {
		return nil, ErrForbidden
	}
	if application.Status == models.ApplicationWithdrawn {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateJobApplicationStatus(ctx, applicationID, status); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	application.Status = status
	return application, nil
}

// Withdraw is the applicant's own exit from the process
func (s *JobService) Withdraw(ctx context.Context, user *models.User, applicationID string) (*models.JobApplication, error) {
	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.UserID != user.ID {
		return nil, ErrForbidden
	}
	if application.Status == models.ApplicationWithdrawn {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateJobApplicationStatus(ctx, applicationID, models.ApplicationWithdrawn); err != nil {
		return nil, fmt.Errorf("failed to withdraw application: %w", err)
	}
	application.Status = models.ApplicationWithdrawn
	slog.Info("Application withdrawn", "application_id", applicationID, "user_id", user.ID)
	return application, nil
}

func (s *JobService) getApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	application, err := s.repo.GetJobApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if application == nil {
		return nil, ErrApplicationNotFound
	}
	return application, nil
}
