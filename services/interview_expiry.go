package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

const (
	expiryCheckInterval = time.Minute
	expiryBatchSize     = 100
)

// InterviewExpiryService closes interviews nobody marked as finished. An
// interview still scheduled after its room expired is marked completed.
type InterviewExpiryService struct {
	repo     *repository.GORMRepository
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
}

func NewInterviewExpiryService(repo *repository.GORMRepository) *InterviewExpiryService {
	return &InterviewExpiryService{
		repo:     repo,
		interval: expiryCheckInterval,
		grace:    roomGracePeriod,
		now:      time.Now,
	}
}

// Run checks for overdue interviews until ctx is cancelled
func (s *InterviewExpiryService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ExpireOverdue(ctx); err != nil {
				slog.Error("Interview expiry check failed", "error", err)
			}
		}
	}
}

// ExpireOverdue marks every overdue interview completed and returns how many
// it changed
func (s *InterviewExpiryService) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.repo.ListOverdueInterviews(ctx, s.now().Add(-s.grace), expiryBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, interview := range overdue {
		ok, err := s.repo.FinishInterview(ctx, interview.ID, models.InterviewCompleted)
		if err != nil {
			return expired, err
		}
		if ok {
			expired++
		}
	}
	if expired > 0 {
		slog.Info("Expired overdue interviews", "count", expired)
	}
	return expired, nil
}
