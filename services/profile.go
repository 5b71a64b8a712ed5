package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

const maxSkills = 50

// ProfileInput is a partial profile update. Nil fields are left unchanged.
type ProfileInput struct {
	FullName       *string  `json:"full_name"`
	AvatarURL      *string  `json:"avatar_url"`
	Headline       *string  `json:"headline"`
	Bio            *string  `json:"bio"`
	University     *string  `json:"university"`
	Major          *string  `json:"major"`
	GraduationYear *int     `json:"graduation_year"`
	Location       *string  `json:"location"`
	Skills         []string `json:"skills"`
}

type OnboardingInput struct {
	ProfileInput
	Role string `json:"role"`
}

type ProfileService struct {
	repo *repository.GORMRepository
}

func NewProfileService(repo *repository.GORMRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	if err := applyProfile(user, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// CompleteOnboarding fills the profile and fixes the role. It can run once per user.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, user *models.User, in OnboardingInput) (*models.User, error) {
	if user.IsOnboarded() {
		return nil, ErrAlreadyOnboarded
	}
	if err := applyProfile(user, in.ProfileInput); err != nil {
		return nil, err
	}
	if strings.TrimSpace(user.FullName) == "" {
		return nil, invalid("full_name is required")
	}

	// Admins keep their role; everyone else picks student or recruiter
	if user.Role != models.RoleAdmin {
		switch in.Role {
		case "":
		case models.RoleStudent, models.RoleRecruiter:
			user.Role = in.Role
		default:
			return nil, invalid("role must be student or recruiter")
		}
	}

	now := time.Now()
	user.OnboardedAt = &now
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	slog.Info("Onboarding completed", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *ProfileService) GetPublicUser(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	public := user.Public()
	return &public, nil
}

// SearchUsers finds other users by name, email or university
func (s *ProfileService) SearchUsers(ctx context.Context, callerID, query string, limit, offset int) ([]models.PublicUser, int64, error) {
	users, total, err := s.repo.ListUsers(ctx, repository.UserFilter{
		Query:     query,
		ExcludeID: callerID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}

	result := make([]models.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, users[i].Public())
	}
	return result, total, nil
}

func applyProfile(user *models.User, in ProfileInput) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&user.FullName, in.FullName)
	set(&user.AvatarURL, in.AvatarURL)
	set(&user.Headline, in.Headline)
	set(&user.Bio, in.Bio)
	set(&user.University, in.University)
	set(&user.Major, in.Major)
	set(&user.Location, in.Location)

	if in.GraduationYear != nil {
		if *in.GraduationYear < 1950 || *in.GraduationYear > 2100 {
			return invalid("graduation_year is out of range")
		}
		year := *in.GraduationYear
		user.GraduationYear = &year
	}

	if in.Skills != nil {
		skills, err := normalizeSkills(in.Skills)
		if err != nil {
			return err
		}
		user.Skills = skills
	}
	return nil
}

// normalizeSkills trims entries and drops blanks and case-insensitive duplicates
func normalizeSkills(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	skills := make([]string, 0, len(raw))
	for _, skill := range raw {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
	}
	if len(skills) > maxSkills {
		return nil, invalid(fmt.Sprintf("at most %d skills are allowed", maxSkills))
	}
	return skills, nil
}
