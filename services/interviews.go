package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

const (
	minInterviewMinutes     = 15
	maxInterviewMinutes     = 240
	defaultInterviewMinutes = 30
	maxInterviewNotes       = 5000

	// rooms stay open a while after the scheduled end
	roomGracePeriod = time.Hour
)

type ScheduleInput struct {
	CandidateID     string    `json:"candidate_id"`
	JobListingID    *string   `json:"job_listing_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}

type InterviewService struct {
	repo  *repository.GORMRepository
	rooms RoomProvider
	now   func() time.Time
}

// NewInterviewService builds the service. rooms may be nil, in which case
// interviews are scheduled without a video room.
func NewInterviewService(repo *repository.GORMRepository, rooms RoomProvider) *InterviewService {
	return &InterviewService{repo: repo, rooms: rooms, now: time.Now}
}

func (s *InterviewService) Schedule(ctx context.Context, interviewer *models.User, in ScheduleInput) (*models.Interview, error) {
	if in.CandidateID == "" {
		return nil, invalid("candidate_id is required")
	}
	if in.CandidateID == interviewer.ID {
		return nil, invalid("cannot schedule an interview with yourself")
	}
	if in.ScheduledAt.IsZero() || !in.ScheduledAt.After(s.now()) {
		return nil, invalid("scheduled_at must be in the future")
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = defaultInterviewMinutes
	}
	if in.DurationMinutes < minInterviewMinutes || in.DurationMinutes > maxInterviewMinutes {
		return nil, invalid(fmt.Sprintf("duration_minutes must be between %d and %d", minInterviewMinutes, maxInterviewMinutes))
	}
	in.Notes = strings.TrimSpace(in.Notes)
	if len(in.Notes) > maxInterviewNotes {
		return nil, invalid("notes are too long")
	}

	candidate, err := s.repo.GetUserByID(ctx, in.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrUserNotFound
	}

	if in.JobListingID != nil && *in.JobListingID == "" {
		in.JobListingID = nil
	}
	if in.JobListingID != nil {
		job, err := s.repo.GetJobListing(ctx, *in.JobListingID)
		if err != nil {
			return nil, fmt.Errorf("failed to get job listing: %w", err)
		}
		if job == nil {
			return nil, ErrJobNotFound
		}
	}

	interview := &models.Interview{
		ID:              uuid.New().String(),
		InterviewerID:   interviewer.ID,
		CandidateID:     candidate.ID,
		JobListingID:    in.JobListingID,
		Status:          models.InterviewScheduled,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}

	// The room is created first so a provider failure leaves nothing behind
	if s.rooms != nil {
		room, err := s.rooms.CreateRoom(ctx, "interview-"+interview.ID, interview.EndsAt().Add(roomGracePeriod))
		if err != nil {
			return nil, err
		}
		interview.RoomName = room.Name
		interview.RoomURL = room.URL
	}

	if err := s.repo.CreateInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return s.repo.GetInterview(ctx, interview.ID)
}

func (s *InterviewService) List(ctx context.Context, userID, status string) ([]models.Interview, error) {
	switch status {
	case "", models.InterviewScheduled, models.InterviewCompleted, models.InterviewCancelled:
	default:
		return nil, invalid("unknown interview status")
	}
	interviews, err := s.repo.ListInterviewsForUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// Get returns the interview to its participants and admins. Anyone else gets
// a not found so interview ids are not confirmed.
func (s *InterviewService) Get(ctx context.Context, user *models.User, id string) (*models.Interview, error) {
	interview, err := s.repo.GetInterview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}
	if !interview.IsParticipant(user.ID) && user.Role != models.RoleAdmin {
		return nil, ErrInterviewNotFound
	}
	return interview, nil
}

func (s *InterviewService) Cancel(ctx context.Context, user *models.User, id string) (*models.Interview, error) {
	interview, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !interview.IsParticipant(user.ID) {
		return nil, ErrForbidden
	}
	return s.finish(ctx, interview, models.InterviewCancelled)
}

func (s *InterviewService) Complete(ctx context.Context, user *models.User, id string) (*models.Interview, error) {
	interview, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if interview.InterviewerID != user.ID {
		return nil, ErrForbidden
	}
	return s.finish(ctx, interview, models.InterviewCompleted)
}

func (s *InterviewService) finish(ctx context.Context, interview *models.Interview, status string) (*models.Interview, error) {
	if interview.Status != models.InterviewScheduled {
		return nil, ErrInvalidTransition
	}
	ok, err := s.repo.FinishInterview(ctx, interview.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	if !ok {
		return nil, ErrInvalidTransition
	}
	slog.Info("Interview finished", "interview_id", interview.ID, "status", status)
	return s.repo.GetInterview(ctx, interview.ID)
}

// Join returns the room URL of a scheduled interview to a participant
func (s *InterviewService) Join(ctx context.Context, user *models.User, id string) (string, error) {
	interview, err := s.Get(ctx, user, id)
	if err != nil {
		return "", err
	}
	if !interview.IsParticipant(user.ID) {
		return "", ErrForbidden
	}
	if interview.Status != models.InterviewScheduled {
		return "", ErrInvalidTransition
	}
	if interview.RoomURL == "" {
		return "", ErrNoVideoRoom
	}
	return interview.RoomURL, nil
}
