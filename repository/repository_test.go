package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/krshsl/campusjobs/backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *GORMRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	repo := NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return repo
}

func mustCreateUser(t *testing.T, repo *GORMRepository, name, role string) *models.User {
	t.Helper()
	user := &models.User{Email: name + "@example.com", FullName: name, Role: role}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) error = %v", name, err)
	}
	return user
}

func TestListJobListingsFilters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	poster := mustCreateUser(t, repo, "poster", models.RoleRecruiter)
	other := mustCreateUser(t, repo, "other", models.RoleRecruiter)

	listings := []*models.JobListing{
		{PostedByID: poster.ID, Title: "Backend Intern", Company: "Northwind", Location: "Berlin", EmploymentType: models.EmploymentInternship, Remote: true, DescriptionText: "Go services", Status: models.JobStatusOpen},
		{PostedByID: poster.ID, Title: "Data Analyst", Company: "Contoso", Location: "Paris", EmploymentType: models.EmploymentFullTime, DescriptionText: "SQL dashboards", Status: models.JobStatusOpen},
		{PostedByID: other.ID, Title: "Frontend Intern", Company: "Fabrikam", Location: "Berlin", EmploymentType: models.EmploymentInternship, DescriptionText: "React", Status: models.JobStatusClosed},
	}
	for _, job := range listings {
		if err := repo.CreateJobListing(ctx, job); err != nil {
			t.Fatalf("CreateJobListing() error = %v", err)
		}
	}

	remote := true
	tests := []struct {
		name   string
		filter JobFilter
		want   int64
	}{
		{"everything", JobFilter{}, 3},
		{"query matches title case-insensitively", JobFilter{Query: "INTERN"}, 2},
		{"query matches description", JobFilter{Query: "dashboards"}, 1},
		{"location", JobFilter{Location: "berlin"}, 2},
		{"employment type", JobFilter{EmploymentType: models.EmploymentFullTime}, 1},
		{"remote only", JobFilter{Remote: &remote}, 1},
		{"open only", JobFilter{Status: models.JobStatusOpen}, 2},
		{"posted by", JobFilter{PostedByID: other.ID}, 1},
		{"combined", JobFilter{Query: "intern", Status: models.JobStatusOpen}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Limit = 10
			jobs, total, err := repo.ListJobListings(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobListings() error = %v", err)
			}
			if total != tt.want || int64(len(jobs)) != tt.want {
				t.Errorf("ListJobListings() = %d jobs, total %d, want %d", len(jobs), total, tt.want)
			}
		})
	}

	page, total, err := repo.ListJobListings(ctx, JobFilter{Limit: 1, Offset: 1})
	if err != nil || total != 3 || len(page) != 1 {
		t.Errorf("paged ListJobListings() = %d/%d, %v", len(page), total, err)
	}
}

func TestTransitionFriendRequest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	a := mustCreateUser(t, repo, "a", models.RoleStudent)
	b := mustCreateUser(t, repo, "b", models.RoleStudent)

	request := &models.FriendRequest{SenderID: a.ID, RecipientID: b.ID, Status: models.FriendRequestPending}
	if err := repo.CreateFriendRequest(ctx, request); err != nil {
		t.Fatalf("CreateFriendRequest() error = %v", err)
	}

	found, err := repo.FindActiveFriendRequest(ctx, b.ID, a.ID)
	if err != nil || found == nil || found.ID != request.ID {
		t.Fatalf("FindActiveFriendRequest(reversed) = %v, %v", found, err)
	}

	ok, err := repo.TransitionFriendRequest(ctx, request.ID, models.FriendRequestAccepted)
	if err != nil || !ok {
		t.Fatalf("first transition = %v, %v", ok, err)
	}
	ok, err = repo.TransitionFriendRequest(ctx, request.ID, models.FriendRequestRejected)
	if err != nil || ok {
		t.Errorf("second transition = %v, %v, want false", ok, err)
	}

	stored, err := repo.GetFriendRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetFriendRequest() error = %v", err)
	}
	if stored.Status != models.FriendRequestAccepted || stored.RespondedAt == nil {
		t.Errorf("stored request = %+v", stored)
	}

	friends, err := repo.ListFriendships(ctx, b.ID)
	if err != nil || len(friends) != 1 || friends[0].Sender == nil || friends[0].Recipient == nil {
		t.Errorf("ListFriendships() = %+v, %v", friends, err)
	}
}

func TestMarkConversationRead(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	conversations := NewConversationRepository(repo.DB())
	a := mustCreateUser(t, repo, "a", models.RoleStudent)
	b := mustCreateUser(t, repo, "b", models.RoleStudent)

	for i, pair := range [][2]string{{a.ID, b.ID}, {a.ID, b.ID}, {b.ID, a.ID}} {
		msg := &models.Message{SenderID: pair[0], RecipientID: pair[1], Content: fmt.Sprintf("message %d", i)}
		if err := conversations.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("SaveMessage() error = %v", err)
		}
	}

	unread, err := conversations.CountUnreadBySender(ctx, b.ID)
	if err != nil || unread[a.ID] != 2 {
		t.Fatalf("CountUnreadBySender() = %v, %v", unread, err)
	}

	marked, err := conversations.MarkConversationRead(ctx, b.ID, a.ID)
	if err != nil || marked != 2 {
		t.Fatalf("MarkConversationRead() = %d, %v, want 2", marked, err)
	}
	marked, err = conversations.MarkConversationRead(ctx, b.ID, a.ID)
	if err != nil || marked != 0 {
		t.Errorf("second MarkConversationRead() = %d, %v, want 0", marked, err)
	}

	count, err := conversations.CountUnread(ctx, a.ID)
	if err != nil || count != 1 {
		t.Errorf("CountUnread(a) = %d, %v, want 1", count, err)
	}

	messages, err := conversations.GetConversation(ctx, a.ID, b.ID, time.Time{}, 10)
	if err != nil || len(messages) != 3 {
		t.Errorf("GetConversation() = %d, %v", len(messages), err)
	}
}

func TestGetLatestPerPartner(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	conversations := NewConversationRepository(repo.DB())
	me := mustCreateUser(t, repo, "me", models.RoleStudent)
	a := mustCreateUser(t, repo, "a", models.RoleStudent)
	b := mustCreateUser(t, repo, "b", models.RoleStudent)

	start := time.Now().UTC().Add(-time.Hour)
	messages := []models.Message{
		{SenderID: a.ID, RecipientID: me.ID, Content: "a1", CreatedAt: start},
		{SenderID: me.ID, RecipientID: a.ID, Content: "a2", CreatedAt: start.Add(2 * time.Minute)},
		{SenderID: b.ID, RecipientID: me.ID, Content: "b1", CreatedAt: start.Add(time.Minute)},
		{SenderID: b.ID, RecipientID: a.ID, Content: "not mine", CreatedAt: start.Add(3 * time.Minute)},
		{SenderID: me.ID, RecipientID: b.ID, Content: "deleted", CreatedAt: start.Add(4 * time.Minute)},
	}
	if err := repo.DB().Create(&messages).Error; err != nil {
		t.Fatalf("failed to insert messages: %v", err)
	}
	if err := conversations.DeleteMessage(ctx, messages[4].ID); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}

	latest, err := conversations.GetLatestPerPartner(ctx, me.ID)
	if err != nil {
		t.Fatalf("GetLatestPerPartner() error = %v", err)
	}
	var got []string
	for _, m := range latest {
		got = append(got, m.Content)
	}
	if len(got) != 2 || got[0] != "a2" || got[1] != "b1" {
		t.Errorf("GetLatestPerPartner() = %v, want [a2 b1]", got)
	}
}

func TestDeleteUserRemovesTokensAndRequests(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	a := mustCreateUser(t, repo, "a", models.RoleStudent)
	b := mustCreateUser(t, repo, "b", models.RoleStudent)

	token := &models.RefreshToken{UserID: a.ID, Token: "refresh-" + a.ID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.CreateRefreshToken(ctx, token); err != nil {
		t.Fatalf("CreateRefreshToken() error = %v", err)
	}
	request := &models.FriendRequest{SenderID: b.ID, RecipientID: a.ID, Status: models.FriendRequestPending}
	if err := repo.CreateFriendRequest(ctx, request); err != nil {
		t.Fatalf("CreateFriendRequest() error = %v", err)
	}

	if err := repo.DeleteUser(ctx, a.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if user, err := repo.GetUserByID(ctx, a.ID); err != nil || user != nil {
		t.Errorf("GetUserByID(deleted) = %v, %v", user, err)
	}
	if stored, err := repo.GetRefreshToken(ctx, token.Token); err != nil || stored != nil {
		t.Errorf("GetRefreshToken(deleted user) = %v, %v", stored, err)
	}
	if stored, err := repo.GetFriendRequest(ctx, request.ID); err != nil || stored != nil {
		t.Errorf("GetFriendRequest(deleted user) = %v, %v", stored, err)
	}
	if user, err := repo.GetUserByID(ctx, b.ID); err != nil || user == nil {
		t.Errorf("GetUserByID(other) = %v, %v", user, err)
	}
}

func TestGetPlatformStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	recruiter := mustCreateUser(t, repo, "recruiter", models.RoleRecruiter)
	student := mustCreateUser(t, repo, "student", models.RoleStudent)
	mustCreateUser(t, repo, "student2", models.RoleStudent)

	job := &models.JobListing{PostedByID: recruiter.ID, Title: "Intern", Company: "Northwind", EmploymentType: models.EmploymentInternship, Status: models.JobStatusOpen}
	if err := repo.CreateJobListing(ctx, job); err != nil {
		t.Fatalf("CreateJobListing() error = %v", err)
	}
	application := &models.JobApplication{JobListingID: job.ID, UserID: student.ID, Status: models.ApplicationSubmitted}
	if err := repo.CreateJobApplication(ctx, application); err != nil {
		t.Fatalf("CreateJobApplication() error = %v", err)
	}

	stats, err := repo.GetPlatformStats(ctx)
	if err != nil {
		t.Fatalf("GetPlatformStats() error = %v", err)
	}
	if stats.UsersByRole[models.RoleStudent] != 2 || stats.UsersByRole[models.RoleRecruiter] != 1 {
		t.Errorf("UsersByRole = %v", stats.UsersByRole)
	}
	if stats.OpenJobListings != 1 || stats.ClosedJobListings != 0 || stats.Applications != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestListOverdueInterviews(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	interviewer := mustCreateUser(t, repo, "interviewer", models.RoleRecruiter)
	candidate := mustCreateUser(t, repo, "candidate", models.RoleStudent)

	now := time.Now().UTC()
	cutoff := now.Add(-time.Hour)
	interviews := map[string]*models.Interview{
		"long past":      {ScheduledAt: now.Add(-5 * time.Hour), DurationMinutes: 30},
		"still running":  {ScheduledAt: now.Add(-90 * time.Minute), DurationMinutes: 60},
		"future":         {ScheduledAt: now.Add(time.Hour), DurationMinutes: 30},
		"already closed": {ScheduledAt: now.Add(-5 * time.Hour), DurationMinutes: 30, Status: models.InterviewCancelled},
	}
	for name, interview := range interviews {
		interview.InterviewerID = interviewer.ID
		interview.CandidateID = candidate.ID
		if interview.Status == "" {
			interview.Status = models.InterviewScheduled
		}
		if err := repo.CreateInterview(ctx, interview); err != nil {
			t.Fatalf("CreateInterview(%s) error = %v", name, err)
		}
	}

	overdue, err := repo.ListOverdueInterviews(ctx, cutoff, 10)
	if err != nil {
		t.Fatalf("ListOverdueInterviews() error = %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != interviews["long past"].ID {
		t.Fatalf("ListOverdueInterviews() = %+v, want only the long past interview", overdue)
	}

	finished, err := repo.FinishInterview(ctx, overdue[0].ID, models.InterviewCompleted)
	if err != nil || !finished {
		t.Fatalf("FinishInterview() = %v, %v", finished, err)
	}
	finished, err = repo.FinishInterview(ctx, overdue[0].ID, models.InterviewCancelled)
	if err != nil || finished {
		t.Errorf("FinishInterview(finished) = %v, %v, want false", finished, err)
	}
}
