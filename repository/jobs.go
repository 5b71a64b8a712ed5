package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/krshsl/campusjobs/backend/models"
	"gorm.io/gorm"
)

// JobFilter narrows ListJobListings. Empty fields do not filter.
type JobFilter struct {
	Query          string
	Location       string
	EmploymentType string
	Remote         *bool
	Status         string
	PostedByID     string
	Limit          int
	Offset         int
}

func (r *GORMRepository) CreateJobListing(ctx context.Context, job *models.JobListing) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		slog.Error("Failed to create job listing", "error", err)
		return err
	}
	slog.Info("Job listing created", "job_id", job.ID, "title", job.Title, "posted_by", job.PostedByID)
	return nil
}

func (r *GORMRepository) GetJobListing(ctx context.Context, id string) (*models.JobListing, error) {
	var job models.JobListing
	err := r.db.WithContext(ctx).Where("id = ?", id).Preload("PostedBy").First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get job listing", "error", err, "job_id", id)
		return nil, err
	}
	return &job, nil
}

func (r *GORMRepository) ListJobListings(ctx context.Context, filter JobFilter) ([]models.JobListing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JobListing{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(company) LIKE ? OR LOWER(description_text) LIKE ?", like, like, like)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if filter.EmploymentType != "" {
		query = query.Where("employment_type = ?", filter.EmploymentType)
	}
	if filter.Remote != nil {
		query = query.Where("remote = ?", *filter.Remote)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PostedByID != "" {
		query = query.Where("posted_by_id = ?", filter.PostedByID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("Failed to count job listings", "error", err)
		return nil, 0, err
	}

	var jobs []models.JobListing
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&jobs).Error; err != nil {
		slog.Error("Failed to list job listings", "error", err)
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *GORMRepository) UpdateJobListing(ctx context.Context, job *models.JobListing) error {
	// PostedBy is preloaded on reads; skip associations so Save only touches the listing row
	if err := r.db.WithContext(ctx).Omit("PostedBy", "Applications").Save(job).Error; err != nil {
		slog.Error("Failed to update job listing", "error", err, "job_id", job.ID)
		return err
	}
	slog.Info("Job listing updated", "job_id", job.ID, "status", job.Status)
	return nil
}

func (r *GORMRepository) DeleteJobListing(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.JobListing{}).Error; err != nil {
		slog.Error("Failed to delete job listing", "error", err, "job_id", id)
		return err
	}
	slog.Info("Job listing deleted", "job_id", id)
	return nil
}

// Application operations
func (r *GORMRepository) CreateJobApplication(ctx context.Context, application *models.JobApplication) error {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		slog.Error("Failed to create job application", "error", err, "job_id", application.JobListingID)
		return err
	}
	slog.Info("Job application created", "application_id", application.ID, "job_id", application.JobListingID, "user_id", application.UserID)
	return nil
}

func (r *GORMRepository) GetJobApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	var application models.JobApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).Preload("JobListing").First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get job application", "error", err, "application_id", id)
		return nil, err
	}
	return &application, nil
}

func (r *GORMRepository) FindJobApplication(ctx context.Context, jobID, userID string) (*models.JobApplication, error) {
	var application models.JobApplication
	err := r.db.WithContext(ctx).Where("job_listing_id = ? AND user_id = ?", jobID, userID).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to find job application", "error", err, "job_id", jobID, "user_id", userID)
		return nil, err
	}
	return &application, nil
}

func (r *GORMRepository) ListApplicationsByUser(ctx context.Context, userID string) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("JobListing").
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		slog.Error("Failed to list applications by user", "error", err, "user_id", userID)
		return nil, err
	}
	return applications, nil
}

func (r *GORMRepository) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_listing_id = ?", jobID).
		Preload("User").
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		slog.Error("Failed to list applications by job", "error", err, "job_id", jobID)
		return nil, err
	}
	return applications, nil
}

func (r *GORMRepository) UpdateJobApplicationStatus(ctx context.Context, id, status string) error {
	if err := r.db.WithContext(ctx).Model(&models.JobApplication{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		slog.Error("Failed to update job application", "error", err, "application_id", id)
		return err
	}
	slog.Info("Job application status updated", "application_id", id, "status", status)
	return nil
}
