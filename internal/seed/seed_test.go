package seed

import (
	"context"
	"testing"

	"github.com/act/eventportal/internal/app/repositories/memstore"
	"github.com/act/eventportal/internal/pkg/auth"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func TestCreateDefaultDataCreatesAdminOnce(t *testing.T) {
	ctx := context.Background()
	repos := memstore.New().Repositories()
	seed := AdminSeed{Username: "admin", Email: "admin@college.edu", Password: "admin-pass"}

	if err := CreateDefaultData(ctx, repos, seed, zerolog.Nop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := CreateDefaultData(ctx, repos, seed, zerolog.Nop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	admin, err := repos.Admins.GetByEmail(ctx, "admin@college.edu")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if admin.Password == "admin-pass" {
		t.Fatal("seed password stored in plain text")
	}
	if !auth.CheckPassword(admin.Password, "admin-pass") {
		t.Error("seeded hash does not match the configured password")
	}
	if admin.Username != "admin" {
		t.Errorf("username = %q", admin.Username)
	}
}

func TestCreateDefaultDataSkipsWithoutPassword(t *testing.T) {
	ctx := context.Background()
	repos := memstore.New().Repositories()

	if err := CreateDefaultData(ctx, repos, AdminSeed{Email: "admin@college.edu"}, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repos.Admins.GetByEmail(ctx, "admin@college.edu"); err == nil {
		t.Fatal("admin created without a password")
	}
}
