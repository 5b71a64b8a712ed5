package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/krshsl/campusjobs/backend/models"
)

func strPtr(s string) *string { return &s }

func TestNormalizeSkills(t *testing.T) {
	got, err := normalizeSkills([]string{" Go ", "go", "", "SQL", "  ", "Docker"})
	if err != nil {
		t.Fatalf("normalizeSkills() error = %v", err)
	}
	if want := []string{"Go", "SQL", "Docker"}; !slices.Equal(got, want) {
		t.Errorf("normalizeSkills() = %v, want %v", got, want)
	}

	many := make([]string, maxSkills+1)
	for i := range many {
		many[i] = string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	if _, err := normalizeSkills(many); statusOf(err) != 400 {
		t.Errorf("normalizeSkills(too many) error = %v, want 400", err)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	profiles := NewProfileService(repo)

	tests := []struct {
		name     string
		role     string
		in       OnboardingInput
		wantRole string
		status   int
	}{
		{"student picks recruiter", models.RoleStudent, OnboardingInput{ProfileInput: ProfileInput{FullName: strPtr("Ada")}, Role: models.RoleRecruiter}, models.RoleRecruiter, 0},
		{"empty role keeps current", models.RoleStudent, OnboardingInput{ProfileInput: ProfileInput{FullName: strPtr("Ada")}}, models.RoleStudent, 0},
		{"admin keeps admin", models.RoleAdmin, OnboardingInput{ProfileInput: ProfileInput{FullName: strPtr("Ada")}, Role: models.RoleStudent}, models.RoleAdmin, 0},
		{"cannot pick admin", models.RoleStudent, OnboardingInput{ProfileInput: ProfileInput{FullName: strPtr("Ada")}, Role: models.RoleAdmin}, "", 400},
		{"name required", models.RoleStudent, OnboardingInput{ProfileInput: ProfileInput{FullName: strPtr("  ")}}, "", 400},
		{"graduation year range", models.RoleStudent, OnboardingInput{ProfileInput: ProfileInput{FullName: strPtr("Ada"), GraduationYear: intPtr(1900)}}, "", 400},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := createUser(t, repo, "user"+string(rune('a'+i)), tt.role)
			got, err := profiles.CompleteOnboarding(ctx, user, tt.in)
			if tt.status != 0 {
				if statusOf(err) != tt.status {
					t.Errorf("CompleteOnboarding() error = %v, want %d", err, tt.status)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompleteOnboarding() error = %v", err)
			}
			if got.Role != tt.wantRole || !got.IsOnboarded() {
				t.Errorf("CompleteOnboarding() = role %q onboarded %v", got.Role, got.IsOnboarded())
			}

			if _, err := profiles.CompleteOnboarding(ctx, got, tt.in); !errors.Is(err, ErrAlreadyOnboarded) {
				t.Errorf("second CompleteOnboarding() error = %v, want ErrAlreadyOnboarded", err)
			}
		})
	}
}

func TestUpdateProfileAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	profiles := NewProfileService(repo)
	caller := createUser(t, repo, "caller", models.RoleStudent)
	other := createUser(t, repo, "other", models.RoleStudent)

	updated, err := profiles.UpdateProfile(ctx, other, ProfileInput{
		University: strPtr(" State University "),
		Skills:     []string{"Go", "GO"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.University != "State University" || len(updated.Skills) != 1 || updated.FullName != "other" {
		t.Errorf("UpdateProfile() = %+v", updated)
	}

	users, total, err := profiles.SearchUsers(ctx, caller.ID, "state", 10, 0)
	if err != nil || total != 1 || len(users) != 1 || users[0].ID != other.ID {
		t.Errorf("SearchUsers() = %+v, %d, %v", users, total, err)
	}
	users, _, err = profiles.SearchUsers(ctx, caller.ID, "caller", 10, 0)
	if err != nil || len(users) != 0 {
		t.Errorf("SearchUsers(self) = %+v, %v", users, err)
	}

	if _, err := profiles.GetPublicUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetPublicUser(missing) error = %v, want ErrUserNotFound", err)
	}
}
