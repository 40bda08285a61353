package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestix/gestix/internal/model"
)

// CustomerRepo provides data access for customers.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

const customerColumns = `id, user_id, name, email, phone, cpf_cnpj, address, city, state, postal_code, notes, created_at, updated_at`

// List retrieves all customers owned by a user, newest first.
func (r *CustomerRepo) List(ctx context.Context, userID string) ([]*model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// Get retrieves a customer by ID within the user's scope.
func (r *CustomerRepo) Get(ctx context.Context, userID, id string) (*model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1 AND user_id = $2
	`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// Create inserts a new customer.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.CpfCnpj,
		c.Address, c.City, c.State, c.PostalCode, c.Notes,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update rewrites a customer's mutable fields within the user's scope.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	query := `
		UPDATE customers
		SET name = $3, email = $4, phone = $5, cpf_cnpj = $6, address = $7,
		    city = $8, state = $9, postal_code = $10, notes = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.CpfCnpj,
		c.Address, c.City, c.State, c.PostalCode, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a customer within the user's scope.
// Deleting a missing ID is a no-op.
func (r *CustomerRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM customers WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// Count returns the number of customers owned by a user.
func (r *CustomerRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.CpfCnpj,
		&c.Address, &c.City, &c.State, &c.PostalCode, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return &c, err
}
