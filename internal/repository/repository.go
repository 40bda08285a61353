// Package repository provides the database access layer. Every entity
// query filters by the owning user's ID: row-level isolation is enforced
// here, not in the handlers.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors for repository operations.
var (
	// ErrNotFound indicates the record does not exist within the
	// acting user's scope. A record owned by another user is
	// indistinguishable from a missing one.
	ErrNotFound = errors.New("record not found")
	// ErrEmailExists indicates a signup collision on email.
	ErrEmailExists = errors.New("email already registered")
)

// Repository provides database access methods, grouped per entity.
type Repository struct {
	pool *pgxpool.Pool

	Users     *UserRepo
	Profiles  *ProfileRepo
	Customers *CustomerRepo
	Products  *ProductRepo
	Quotes    *QuoteRepo
	Orders    *ServiceOrderRepo
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{pool: pool}
	r.Users = &UserRepo{pool: pool}
	r.Profiles = &ProfileRepo{pool: pool}
	r.Customers = &CustomerRepo{pool: pool}
	r.Products = &ProductRepo{pool: pool}
	r.Quotes = &QuoteRepo{pool: pool}
	r.Orders = &ServiceOrderRepo{pool: pool}
	return r, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to the entity repos.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// isUniqueViolation checks if the error is a PostgreSQL unique
// constraint violation (error code 23505).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "unique")
}
