package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"gorm.io/gorm"
)

func (r *GORMRepository) CreateInterview(ctx context.Context, interview *models.Interview) error {
	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		slog.Error("Failed to create interview", "error", err)
		return err
	}
	slog.Info("Interview created", "interview_id", interview.ID, "interviewer_id", interview.InterviewerID, "candidate_id", interview.CandidateID)
	return nil
}

func (r *GORMRepository) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Interviewer").
		Preload("Candidate").
		Preload("JobListing").
		First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get interview", "error", err, "interview_id", id)
		return nil, err
	}
	return &interview, nil
}

// ListInterviewsForUser returns interviews where the user is either participant
func (r *GORMRepository) ListInterviewsForUser(ctx context.Context, userID, status string) ([]models.Interview, error) {
	var interviews []models.Interview
	query := r.db.WithContext(ctx).Where("interviewer_id = ? OR candidate_id = ?", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.
		Preload("Interviewer").
		Preload("Candidate").
		Order("scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		slog.Error("Failed to list interviews", "error", err, "user_id", userID)
		return nil, err
	}
	return interviews, nil
}

// FinishInterview moves a scheduled interview to a terminal status. It reports
// false when the interview was no longer scheduled.
func (r *GORMRepository) FinishInterview(ctx context.Context, id, status string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Interview{}).
		Where("id = ? AND status = ?", id, models.InterviewScheduled).
		Updates(map[string]interface{}{"status": status, "ended_at": time.Now()})
	if result.Error != nil {
		slog.Error("Failed to update interview", "error", result.Error, "interview_id", id)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	slog.Info("Interview updated", "interview_id", id, "status", status)
	return true, nil
}

// ListOverdueInterviews returns scheduled interviews whose scheduled end is
// before cutoff
func (r *GORMRepository) ListOverdueInterviews(ctx context.Context, cutoff time.Time, limit int) ([]models.Interview, error) {
	var candidates []models.Interview
	// scheduled_at bounds the scan; the duration check runs in Go so the
	// query stays portable across Postgres and SQLite
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at < ?", models.InterviewScheduled, cutoff).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		slog.Error("Failed to list overdue interviews", "error", err)
		return nil, err
	}

	overdue := candidates[:0]
	for _, interview := range candidates {
		if interview.EndsAt().Before(cutoff) {
			overdue = append(overdue, interview)
		}
	}
	return overdue, nil
}
