package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appModels "github.com/act/eventportal/internal/app/models"
	appRepos "github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// AdminSeed describes the default administrator account
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// CreateDefaultData creates the default admin when no admin with the seed email exists.
// An empty seed password disables seeding.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, admin AdminSeed, lgr zerolog.Logger) error {
	email := strings.TrimSpace(admin.Email)
	if email == "" || admin.Password == "" {
		lgr.Warn().Msg("Seed admin credentials not configured, skipping default admin")
		return nil
	}

	_, err := repos.Admins.GetByEmail(ctx, email)
	switch {
	case err == nil:
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	case !errors.Is(err, appRepos.ErrNotFound):
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	id, err := repos.Admins.Create(ctx, &appModels.Admin{
		Username: admin.Username,
		Email:    email,
		Password: hash,
	})
	if err != nil {
		// another instance may have seeded concurrently
		if errors.Is(err, appRepos.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	lgr.Info().Int64("adminID", id).Msg("Default admin user created")
	return nil
}
