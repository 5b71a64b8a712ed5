package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krshsl/campusjobs/backend/models"
)

// PlatformStats is the aggregate shown on the admin dashboard
type PlatformStats struct {
	UsersByRole           map[string]int64 `json:"users_by_role"`
	OpenJobListings       int64            `json:"open_job_listings"`
	ClosedJobListings     int64            `json:"closed_job_listings"`
	Applications          int64            `json:"applications"`
	PendingFriendRequests int64            `json:"pending_friend_requests"`
	Friendships           int64            `json:"friendships"`
	Messages              int64            `json:"messages"`
	ScheduledInterviews   int64            `json:"scheduled_interviews"`
	Quizzes               int64            `json:"quizzes"`
	Resumes               int64            `json:"resumes"`
}

// GetPlatformStats counts rows across the portal tables
func (r *GORMRepository) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{UsersByRole: map[string]int64{}}
	db := r.db.WithContext(ctx)

	var roles []struct {
		Role  string
		Count int64
	}
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error; err != nil {
		slog.Error("Failed to count users by role", "error", err)
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	for _, row := range roles {
		stats.UsersByRole[row.Role] = row.Count
	}

	counts := []struct {
		name  string
		model interface{}
		where string
		args  []interface{}
		dest  *int64
	}{
		{"open_job_listings", &models.JobListing{}, "status = ?", []interface{}{models.JobStatusOpen}, &stats.OpenJobListings},
		{"closed_job_listings", &models.JobListing{}, "status = ?", []interface{}{models.JobStatusClosed}, &stats.ClosedJobListings},
		{"applications", &models.JobApplication{}, "", nil, &stats.Applications},
		{"pending_friend_requests", &models.FriendRequest{}, "status = ?", []interface{}{models.FriendRequestPending}, &stats.PendingFriendRequests},
		{"friendships", &models.FriendRequest{}, "status = ?", []interface{}{models.FriendRequestAccepted}, &stats.Friendships},
		{"messages", &models.Message{}, "", nil, &stats.Messages},
		{"scheduled_interviews", &models.Interview{}, "status = ?", []interface{}{models.InterviewScheduled}, &stats.ScheduledInterviews},
		{"quizzes", &models.Quiz{}, "", nil, &stats.Quizzes},
		{"resumes", &models.Resume{}, "", nil, &stats.Resumes},
	}

	for _, c := range counts {
		query := db.Model(c.model)
		if c.where != "" {
			query = query.Where(c.where, c.args...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			slog.Error("Failed to count rows", "error", err, "metric", c.name)
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}

	return stats, nil
}
