package services

import (
	"context"
	"testing"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seeder := NewDatabaseSeeder(repo)

	for i := 0; i < 2; i++ {
		if err := seeder.SeedDatabase(ctx); err != nil {
			t.Fatalf("SeedDatabase() run %d error = %v", i+1, err)
		}
	}

	stats, err := repo.GetPlatformStats(ctx)
	if err != nil {
		t.Fatalf("GetPlatformStats() error = %v", err)
	}
	if stats.UsersByRole[models.RoleAdmin] != 1 || stats.UsersByRole[models.RoleRecruiter] != 1 || stats.UsersByRole[models.RoleStudent] != 2 {
		t.Errorf("UsersByRole = %v", stats.UsersByRole)
	}
	if stats.OpenJobListings != 3 || stats.Friendships != 1 {
		t.Errorf("stats = %+v, want 3 open listings and 1 friendship", stats)
	}

	admin, err := repo.GetUserByEmail(ctx, seedAdminEmail)
	if err != nil || admin == nil {
		t.Fatalf("GetUserByEmail(admin) = %v, %v", admin, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(SeedPassword)); err != nil {
		t.Errorf("seed admin password does not match: %v", err)
	}

	_, total, err := repo.ListJobListings(ctx, repository.JobFilter{Query: "Northwind", Limit: 10})
	if err != nil || total != 3 {
		t.Errorf("seeded Northwind listings = %d, %v", total, err)
	}
}
