package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type adminRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a PostgreSQL backed AdminRepository
func NewAdminRepository(db DBTX) AdminRepository {
	return &adminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const adminEmailKey = "admins_email_key"

var adminColumns = []string{"id", "username", "email", "password"}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) (int64, error) {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "email", "password").
		Values(admin.Username, admin.Email, admin.Password).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create admin query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if mapped := uniqueError(err, adminEmailKey); mapped != nil {
			return 0, mapped
		}
		logger.Error().Err(err).Str("email", admin.Email).Msg("Error creating admin")
		return 0, fmt.Errorf("error creating admin: %w", err)
	}
	admin.ID = id
	return id, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *adminRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns...).
		From("admins").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	admin := &models.Admin{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.Username, &admin.Email, &admin.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin: %w", err)
	}
	return admin, nil
}

func (r *adminRepository) Update(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Update("admins").
		SetMap(map[string]interface{}{
			"username": admin.Username,
			"email":    admin.Email,
		}).
		Where(squirrel.Eq{"id": admin.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update admin query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := uniqueError(err, adminEmailKey); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("adminID", admin.ID).Msg("Error updating admin")
		return fmt.Errorf("error updating admin: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	sql, args, err := r.sb.Update("admins").
		Set("password", passwordHash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update admin password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error updating admin password")
		return fmt.Errorf("error updating admin password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
