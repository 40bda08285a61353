// Package testutil provides helpers for integration tests that talk to
// real Postgres and Redis instances. Tests skip when TEST_DATABASE_URL
// or TEST_REDIS_URL is unset.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gestix/gestix/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates every table by replaying all migrations
// in reverse then forward order.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		"000001_users",
		"000002_customers",
		"000003_products",
		"000004_quotes",
		"000005_service_orders",
		"000006_profiles",
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, migrations[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, name := range migrations {
		if err := applyMigration(ctx, pool, name+".up.sql"); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, filename string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(root, "migrations", filename))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           UniqueID("user"),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$dGVzdHNhbHQ$dGVzdGhhc2g",
		CreatedAt:    now,
	}
}

// NewTestCustomer creates a test customer owned by userID.
func NewTestCustomer(t testing.TB, userID, name string) *model.Customer {
	t.Helper()
	now := time.Now().UTC()
	return &model.Customer{
		ID:        UniqueID("cust"),
		UserID:    userID,
		Name:      name,
		Email:     "contact@example.com",
		Phone:     "+55 11 99999-0000",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestProduct creates a test product owned by userID.
func NewTestProduct(t testing.TB, userID, name string) *model.Product {
	t.Helper()
	now := time.Now().UTC()
	return &model.Product{
		ID:          UniqueID("prod"),
		UserID:      userID,
		Name:        name,
		Quantity:    10,
		MinQuantity: 5,
		CostPrice:   25.0,
		SalePrice:   49.9,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestQuote creates a test quote owned by userID.
func NewTestQuote(t testing.TB, userID, title string) *model.Quote {
	t.Helper()
	now := time.Now().UTC()
	return &model.Quote{
		ID:          UniqueID("quote"),
		UserID:      userID,
		Title:       title,
		Status:      model.QuoteStatusDraft,
		TotalAmount: 150.0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestServiceOrder creates a test service order owned by userID.
func NewTestServiceOrder(t testing.TB, userID, title string) *model.ServiceOrder {
	t.Helper()
	now := time.Now().UTC()
	return &model.ServiceOrder{
		ID:        UniqueID("order"),
		UserID:    userID,
		Title:     title,
		Equipment: "Notebook Dell",
		Status:    model.OrderStatusPending,
		LaborCost: 80.0,
		PartsCost: 120.0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestSession creates a session for userID expiring in one hour.
func NewTestSession(t testing.TB, tokenHash, userID string) *model.Session {
	t.Helper()
	return &model.Session{
		TokenHash: tokenHash,
		UserID:    userID,
		Email:     "user@example.com",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
