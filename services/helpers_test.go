package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/krshsl/campusjobs/backend/apierror"
	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
	ws "github.com/krshsl/campusjobs/backend/websocket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the schema migrated
func newTestDB(t *testing.T) *gorm.DB {
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

	if err := repository.NewGORMRepository(db).AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) *repository.GORMRepository {
	t.Helper()
	return repository.NewGORMRepository(newTestDB(t))
}

func createUser(t *testing.T, repo *repository.GORMRepository, name, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    name + "@example.com",
		FullName: name,
		Role:     role,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

func createJob(t *testing.T, repo *repository.GORMRepository, poster *models.User, title string, skills ...string) *models.JobListing {
	t.Helper()
	job := &models.JobListing{
		PostedByID:      poster.ID,
		Title:           title,
		Company:         "Northwind",
		EmploymentType:  models.EmploymentInternship,
		Description:     "<p>" + title + "</p>",
		DescriptionText: title,
		Skills:          skills,
		Status:          models.JobStatusOpen,
	}
	if err := repo.CreateJobListing(context.Background(), job); err != nil {
		t.Fatalf("failed to create job %s: %v", title, err)
	}
	return job
}

// makeFriends stores an accepted request between a and b
func makeFriends(t *testing.T, repo *repository.GORMRepository, a, b *models.User) {
	t.Helper()
	social := NewSocialService(repo)
	request, err := social.SendRequest(context.Background(), a.ID, b.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if _, err := social.Accept(context.Background(), b.ID, request.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
}

// fakeGenerator returns canned model output and records prompts
type fakeGenerator struct {
	response string
	err      error

	mu      sync.Mutex
	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, _, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.response, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type sentFrame struct {
	userID string
	frame  ws.Frame
}

// fakeNotifier records frames instead of writing to sockets
type fakeNotifier struct {
	mu     sync.Mutex
	frames []sentFrame
}

func (n *fakeNotifier) SendFrame(userID string, frame ws.Frame) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.frames = append(n.frames, sentFrame{userID: userID, frame: frame})
	return 1
}

func (n *fakeNotifier) framesFor(userID, frameType string) []ws.Frame {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []ws.Frame
	for _, f := range n.frames {
		if f.userID == userID && f.frame.Type == frameType {
			out = append(out, f.frame)
		}
	}
	return out
}

func newRepoFromDB(db *gorm.DB) *repository.GORMRepository {
	return repository.NewGORMRepository(db)
}

func newConversationsFromDB(db *gorm.DB) *repository.ConversationRepository {
	return repository.NewConversationRepository(db)
}

// statusOf maps err the way handlers do, 0 for nil
func statusOf(err error) int {
	if err == nil {
		return 0
	}
	return apierror.FromError(err).StatusCode()
}
