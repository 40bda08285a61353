package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestix/gestix/internal/model"
)

// ProfileRepo provides data access for per-user settings profiles.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// Get retrieves a user's profile.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	query := `
		SELECT user_id, display_name, company_name, phone, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p model.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.DisplayName, &p.CompanyName, &p.Phone, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Upsert creates or replaces a user's profile.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, company_name, phone, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    company_name = EXCLUDED.company_name,
		    phone = EXCLUDED.phone,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, p.UserID, p.DisplayName, p.CompanyName, p.Phone, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
