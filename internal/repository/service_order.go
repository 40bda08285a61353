package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/gestix/gestix/internal/model"
)

// ServiceOrderRepo provides data access for service orders.
type ServiceOrderRepo struct {
	pool *pgxpool.Pool
}

const orderColumns = `id, user_id, customer_id, title, description, equipment, status, labor_cost, parts_cost, created_at, updated_at`

// List retrieves all service orders owned by a user, newest first.
func (r *ServiceOrderRepo) List(ctx context.Context, userID string) ([]*model.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByStatuses retrieves the user's service orders in any of the given
// statuses, most recently updated first. Backs the history screen.
func (r *ServiceOrderRepo) ListByStatuses(ctx context.Context, userID string, statuses []model.OrderStatus) ([]*model.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, fmt.Errorf("failed to list service orders by status: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// Get retrieves a service order by ID within the user's scope.
func (r *ServiceOrderRepo) Get(ctx context.Context, userID, id string) (*model.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE id = $1 AND user_id = $2
	`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}
	return o, nil
}

// Create inserts a new service order.
func (r *ServiceOrderRepo) Create(ctx context.Context, o *model.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.UserID, o.CustomerID, o.Title, o.Description, o.Equipment,
		o.Status, o.LaborCost, o.PartsCost, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service order: %w", err)
	}
	return nil
}

// Update rewrites a service order's mutable fields within the user's scope.
func (r *ServiceOrderRepo) Update(ctx context.Context, o *model.ServiceOrder) error {
	query := `
		UPDATE service_orders
		SET customer_id = $3, title = $4, description = $5, equipment = $6,
		    status = $7, labor_cost = $8, parts_cost = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		o.ID, o.UserID, o.CustomerID, o.Title, o.Description, o.Equipment,
		o.Status, o.LaborCost, o.PartsCost, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update service order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a service order within the user's scope.
// Deleting a missing ID is a no-op.
func (r *ServiceOrderRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM service_orders WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete service order: %w", err)
	}
	return nil
}

// Count returns the number of service orders owned by a user.
func (r *ServiceOrderRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service_orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count service orders: %w", err)
	}
	return count, nil
}

// CountByStatuses returns the number of the user's orders in any of the
// given statuses. Backs the dashboard's active-order count.
func (r *ServiceOrderRepo) CountByStatuses(ctx context.Context, userID string, statuses []model.OrderStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM service_orders WHERE user_id = $1 AND status = ANY($2)`,
		userID, pq.Array(statusStrings(statuses)),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count service orders by status: %w", err)
	}
	return count, nil
}

// CountsByStatus returns per-status order counts for the reports rollup.
func (r *ServiceOrderRepo) CountsByStatus(ctx context.Context, userID string) (map[model.OrderStatus]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM service_orders
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count service orders by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int64)
	for rows.Next() {
		var status model.OrderStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan order counts: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order counts: %w", err)
	}

	return counts, nil
}

func statusStrings(statuses []model.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func collectOrders(rows pgx.Rows) ([]*model.ServiceOrder, error) {
	var orders []*model.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := row.Scan(
		&o.ID, &o.UserID, &o.CustomerID, &o.Title, &o.Description, &o.Equipment,
		&o.Status, &o.LaborCost, &o.PartsCost, &o.CreatedAt, &o.UpdatedAt,
	)
	return &o, err
}
