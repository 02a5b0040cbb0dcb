package repository

import (
	"context"
	"errors"
	"fmt"

	"food-delivery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// Create inserts a new user and returns the storage-assigned user id.
// A duplicate username maps to model.ErrDuplicateUser.
func (r *userRepository) Create(ctx context.Context, user *model.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id
	`

	var userID int64
	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Address,
	).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().Str("username", user.Username).Msg("username already exists")
			return 0, model.ErrDuplicateUser
		}
		r.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info().Int64("user_id", userID).Str("username", user.Username).Msg("user created")

	return userID, nil
}

// GetByUsername retrieves a user by username, or nil when absent.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, phone, address, created_at
		FROM users
		WHERE username = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Address,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("username", username).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("username", username).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}
