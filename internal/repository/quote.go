package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestix/gestix/internal/model"
)

// QuoteRepo provides data access for quotes.
type QuoteRepo struct {
	pool *pgxpool.Pool
}

const quoteColumns = `id, user_id, customer_id, title, description, status, total_amount, valid_until, created_at, updated_at`

// List retrieves all quotes owned by a user, newest first.
func (r *QuoteRepo) List(ctx context.Context, userID string) ([]*model.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*model.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	return quotes, nil
}

// Get retrieves a quote by ID within the user's scope.
func (r *QuoteRepo) Get(ctx context.Context, userID, id string) (*model.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE id = $1 AND user_id = $2
	`

	q, err := scanQuote(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

// Create inserts a new quote.
func (r *QuoteRepo) Create(ctx context.Context, q *model.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		q.ID, q.UserID, q.CustomerID, q.Title, q.Description,
		q.Status, q.TotalAmount, q.ValidUntil, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

// Update rewrites a quote's mutable fields within the user's scope.
func (r *QuoteRepo) Update(ctx context.Context, q *model.Quote) error {
	query := `
		UPDATE quotes
		SET customer_id = $3, title = $4, description = $5, status = $6,
		    total_amount = $7, valid_until = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		q.ID, q.UserID, q.CustomerID, q.Title, q.Description,
		q.Status, q.TotalAmount, q.ValidUntil, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a quote within the user's scope.
// Deleting a missing ID is a no-op.
func (r *QuoteRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM quotes WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	return nil
}

// Count returns the number of quotes owned by a user.
func (r *QuoteRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	return count, nil
}

// TotalsByStatus returns quote counts and summed amounts grouped by status.
func (r *QuoteRepo) TotalsByStatus(ctx context.Context, userID string) (map[model.QuoteStatus]StatusTotal, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM quotes
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to total quotes: %w", err)
	}
	defer rows.Close()

	totals := make(map[model.QuoteStatus]StatusTotal)
	for rows.Next() {
		var status model.QuoteStatus
		var t StatusTotal
		if err := rows.Scan(&status, &t.Count, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan quote totals: %w", err)
		}
		totals[status] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote totals: %w", err)
	}

	return totals, nil
}

// StatusTotal is one row of a grouped-by-status rollup.
type StatusTotal struct {
	Count  int64
	Amount float64
}

func scanQuote(row pgx.Row) (*model.Quote, error) {
	var q model.Quote
	err := row.Scan(
		&q.ID, &q.UserID, &q.CustomerID, &q.Title, &q.Description,
		&q.Status, &q.TotalAmount, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt,
	)
	return &q, err
}
