package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskpad/taskpad-api/internal/model"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateProfile(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (cognito_sub, email, name, profile_image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cognito_sub) DO NOTHING
		RETURNING id, cognito_sub, email, name, profile_image, created_at`

	row := r.db.QueryRowContext(ctx, query,
		user.CognitoSub, user.Email, user.Name, user.ProfileImage,
	)

	created, err := scanUser(row)
	if err == nil {
		return created, nil
	}
	// DO NOTHING yields no row on conflict; the profile already exists and
	// must not be created (or its created_at touched) a second time.
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetByCognitoSub(ctx, user.CognitoSub)
	}
	return model.User{}, err
}

func (r *PostgresUserRepository) GetByCognitoSub(ctx context.Context, cognitoSub string) (model.User, error) {
	query := `
		SELECT id, cognito_sub, email, name, profile_image, created_at
		FROM users
		WHERE cognito_sub = $1`

	row := r.db.QueryRowContext(ctx, query, cognitoSub)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, userID string) (model.User, error) {
	query := `
		SELECT id, cognito_sub, email, name, profile_image, created_at
		FROM users
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, userID)
	return scanUser(row)
}

func (r *PostgresUserRepository) UpdateName(ctx context.Context, userID, name string) (model.User, error) {
	query := `
		UPDATE users
		SET name = $1
		WHERE id = $2
		RETURNING id, cognito_sub, email, name, profile_image, created_at`

	row := r.db.QueryRowContext(ctx, query, name, userID)
	return scanUser(row)
}

func (r *PostgresUserRepository) UpdateProfileImage(ctx context.Context, userID, url string) (model.User, error) {
	query := `
		UPDATE users
		SET profile_image = $1
		WHERE id = $2
		RETURNING id, cognito_sub, email, name, profile_image, created_at`

	row := r.db.QueryRowContext(ctx, query, url, userID)
	return scanUser(row)
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.CognitoSub, &u.Email, &u.Name,
		&u.ProfileImage, &u.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
