package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	UpdateLastSeen(ctx context.Context, id int64, at time.Time) error
}

type userRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewUserRepository(db *pgxpool.Pool, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, display_name, avatar_url, is_active, is_email_verified,
		       last_seen_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	var avatarURL *string
	var lastSeenAt *time.Time

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.DisplayName, &avatarURL,
		&user.IsActive, &user.IsEmailVerified, &lastSeenAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get user", "error", err, "user_id", id)
		return nil, err
	}

	user.AvatarURL = avatarURL
	user.LastSeenAt = lastSeenAt
	return user, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check user existence", "error", err, "user_id", id)
		return false, err
	}
	return exists, nil
}

func (r *userRepository) UpdateLastSeen(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_seen_at = $2 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		r.log.Error("Failed to update last seen", "error", err, "user_id", id)
		return err
	}
	return nil
}
