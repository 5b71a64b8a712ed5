package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password of every seeded account
const SeedPassword = "password123"

const (
	seedAdminEmail     = "admin@campusjobs.dev"
	seedRecruiterEmail = "recruiter@campusjobs.dev"
	seedStudentEmail   = "alex@campusjobs.dev"
	seedStudent2Email  = "sam@campusjobs.dev"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase creates demo accounts, listings and a friendship. Every step
// checks for existing rows first, so running it again is a no-op.
func (s *DatabaseSeeder) SeedDatabase(ctx context.Context) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now()
	gradYear := now.Year() + 1

	users := []models.User{
		{
			Email:       seedAdminEmail,
			Password:    string(hashedPassword),
			FullName:    "Campus Admin",
			Role:        models.RoleAdmin,
			OnboardedAt: &now,
		},
		{
			Email:       seedRecruiterEmail,
			Password:    string(hashedPassword),
			FullName:    "Riley Recruiter",
			Role:        models.RoleRecruiter,
			Headline:    "University recruiting at Northwind",
			Location:    "Seattle, WA",
			OnboardedAt: &now,
		},
		{
			Email:          seedStudentEmail,
			Password:       string(hashedPassword),
			FullName:       "Alex Student",
			Role:           models.RoleStudent,
			University:     "State University",
			Major:          "Computer Science",
			GraduationYear: &gradYear,
			Skills:         []string{"Go", "SQL", "React"},
			OnboardedAt:    &now,
		},
		{
			Email:          seedStudent2Email,
			Password:       string(hashedPassword),
			FullName:       "Sam Student",
			Role:           models.RoleStudent,
			University:     "State University",
			Major:          "Data Science",
			GraduationYear: &gradYear,
			Skills:         []string{"Python", "SQL", "Statistics"},
			OnboardedAt:    &now,
		},
	}

	seeded := make(map[string]*models.User, len(users))
	for _, user := range users {
		created, err := s.seedUser(ctx, user)
		if err != nil {
			return err
		}
		seeded[created.Email] = created
	}

	recruiter := seeded[seedRecruiterEmail]
	jobs := []models.JobListing{
		{
			Title:          "Backend Engineering Intern",
			Company:        "Northwind",
			Location:       "Seattle, WA",
			EmploymentType: models.EmploymentInternship,
			Description:    "<p>Build APIs that power our logistics platform.</p><ul><li>Go services</li><li>PostgreSQL</li></ul>",
			Skills:         []string{"Go", "SQL", "Docker"},
		},
		{
			Title:          "Junior Data Analyst",
			Company:        "Northwind",
			Location:       "Remote",
			EmploymentType: models.EmploymentFullTime,
			Remote:         true,
			Description:    "<p>Turn shipment data into dashboards and forecasts.</p>",
			Skills:         []string{"Python", "SQL", "Statistics"},
		},
		{
			Title:          "Frontend Developer (Part Time)",
			Company:        "Northwind",
			Location:       "Seattle, WA",
			EmploymentType: models.EmploymentPartTime,
			Description:    "<p>Ship customer facing features in React and TypeScript.</p>",
			Skills:         []string{"React", "TypeScript", "CSS"},
		},
	}
	for _, job := range jobs {
		if err := s.seedJob(ctx, recruiter, job); err != nil {
			return err
		}
	}

	if err := s.seedFriendship(ctx, seeded[seedStudentEmail], seeded[seedStudent2Email]); err != nil {
		return err
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

// seedUser returns the existing user with the same email or creates it
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) (*models.User, error) {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user %s: %w", user.Email, err)
	}
	if existingUser != nil {
		slog.Debug("User already exists, skipping", "email", user.Email)
		return existingUser, nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	slog.Info("Created user", "email", user.Email, "role", user.Role)
	return &user, nil
}

// seedJob creates the listing unless the poster already has one with the same title
func (s *DatabaseSeeder) seedJob(ctx context.Context, poster *models.User, job models.JobListing) error {
	existing, _, err := s.repo.ListJobListings(ctx, repository.JobFilter{
		Query:      job.Title,
		PostedByID: poster.ID,
		Limit:      10,
	})
	if err != nil {
		return fmt.Errorf("error checking job listing %s: %w", job.Title, err)
	}
	for _, e := range existing {
		if e.Title == job.Title {
			slog.Debug("Job listing already exists, skipping", "title", job.Title)
			return nil
		}
	}

	job.PostedByID = poster.ID
	job.Status = models.JobStatusOpen
	job.DescriptionText = HTMLToText(job.Description)
	if err := s.repo.CreateJobListing(ctx, &job); err != nil {
		return fmt.Errorf("failed to create job listing %s: %w", job.Title, err)
	}
	slog.Info("Created job listing", "title", job.Title)
	return nil
}

func (s *DatabaseSeeder) seedFriendship(ctx context.Context, a, b *models.User) error {
	existing, err := s.repo.FindActiveFriendRequest(ctx, a.ID, b.ID)
	if err != nil {
		return fmt.Errorf("error checking friendship: %w", err)
	}
	if existing != nil {
		return nil
	}

	now := time.Now()
	request := &models.FriendRequest{
		SenderID:    a.ID,
		RecipientID: b.ID,
		Status:      models.FriendRequestAccepted,
		RespondedAt: &now,
	}
	if err := s.repo.CreateFriendRequest(ctx, request); err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	slog.Info("Created friendship", "user_a", a.Email, "user_b", b.Email)
	return nil
}
