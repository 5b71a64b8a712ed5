package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/krshsl/campusjobs/backend/models"
	"gorm.io/gorm"
)

// Quiz operations

// CreateQuiz stores the quiz and its questions in one transaction
func (r *GORMRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if err := r.db.WithContext(ctx).Create(quiz).Error; err != nil {
		slog.Error("Failed to create quiz", "error", err, "user_id", quiz.UserID)
		return err
	}
	slog.Info("Quiz created", "quiz_id", quiz.ID, "user_id", quiz.UserID, "questions", len(quiz.Questions))
	return nil
}

func (r *GORMRepository) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get quiz", "error", err, "quiz_id", id)
		return nil, err
	}
	return &quiz, nil
}

func (r *GORMRepository) ListQuizzes(ctx context.Context, userID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&quizzes).Error; err != nil {
		slog.Error("Failed to list quizzes", "error", err, "user_id", userID)
		return nil, err
	}
	return quizzes, nil
}

func (r *GORMRepository) CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		slog.Error("Failed to create quiz attempt", "error", err, "quiz_id", attempt.QuizID)
		return err
	}
	slog.Info("Quiz attempt recorded", "quiz_id", attempt.QuizID, "user_id", attempt.UserID, "score", attempt.Score, "total", attempt.Total)
	return nil
}

// Resume operations
func (r *GORMRepository) CreateResume(ctx context.Context, resume *models.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		slog.Error("Failed to create resume", "error", err, "user_id", resume.UserID)
		return err
	}
	slog.Info("Resume created", "resume_id", resume.ID, "user_id", resume.UserID, "source", resume.Source)
	return nil
}

func (r *GORMRepository) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get resume", "error", err, "resume_id", id)
		return nil, err
	}
	return &resume, nil
}

func (r *GORMRepository) ListResumes(ctx context.Context, userID string) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&resumes).Error; err != nil {
		slog.Error("Failed to list resumes", "error", err, "user_id", userID)
		return nil, err
	}
	return resumes, nil
}

// GetLatestResume returns the most recently created resume of the user
func (r *GORMRepository) GetLatestResume(ctx context.Context, userID string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get latest resume", "error", err, "user_id", userID)
		return nil, err
	}
	return &resume, nil
}

func (r *GORMRepository) DeleteResume(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Resume{}).Error; err != nil {
		slog.Error("Failed to delete resume", "error", err, "resume_id", id)
		return err
	}
	slog.Info("Resume deleted", "resume_id", id)
	return nil
}
