package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

type AdminService struct {
	repo *repository.GORMRepository
}

func NewAdminService(repo *repository.GORMRepository) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	if filter.Role != "" && !validRole(filter.Role) {
		return nil, 0, invalid("unknown role")
	}
	users, total, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// SetRole changes another user's role. Admins cannot change their own role so
// the last admin cannot lock everyone out.
func (s *AdminService) SetRole(ctx context.Context, admin *models.User, userID, role string) (*models.User, error) {
	if !validRole(role) {
		return nil, invalid("unknown role")
	}
	if userID == admin.ID {
		return nil, invalid("admins cannot change their own role")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	// existing access tokens carry the old role
	if err := s.repo.DeleteAllUserTokens(ctx, user.ID); err != nil {
		slog.Warn("Failed to revoke tokens after role change", "error", err, "user_id", user.ID)
	}
	slog.Info("User role changed", "user_id", user.ID, "role", role, "admin_id", admin.ID)
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, admin *models.User, userID string) error {
	if userID == admin.ID {
		return ErrCannotDeleteSelf
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	slog.Info("User deleted by admin", "user_id", userID, "admin_id", admin.ID)
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*repository.PlatformStats, error) {
	stats, err := s.repo.GetPlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	return stats, nil
}

func validRole(role string) bool {
	switch role {
	case models.RoleStudent, models.RoleRecruiter, models.RoleAdmin:
		return true
	}
	return false
}
