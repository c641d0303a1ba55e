package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (r *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)

	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // user not found
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return u, nil
}
