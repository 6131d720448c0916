package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-classnav-api/internal/models"
)

// UserRepository provides read access to user profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindProfile returns the profile matching the owner. sql.ErrNoRows is returned unwrapped.
func (r *UserRepository) FindProfile(ctx context.Context, owner models.NavigationOwner) (*models.UserProfile, error) {
	query := `SELECT id, email, full_name FROM users WHERE id = $1 LIMIT 1`
	if owner.Key == models.OwnerKeyEmail {
		query = `SELECT id, email, full_name FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	}

	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, owner.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user profile by %s: %w", owner.Key, err)
	}
	return &profile, nil
}
