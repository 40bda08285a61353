package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestix/gestix/internal/model"
)

// ProductRepo provides data access for products.
type ProductRepo struct {
	pool *pgxpool.Pool
}

const productColumns = `id, user_id, name, description, reference, quantity, min_quantity, cost_price, sale_price, created_at, updated_at`

// List retrieves all products owned by a user, ordered by name.
func (r *ProductRepo) List(ctx context.Context, userID string) ([]*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Get retrieves a product by ID within the user's scope.
func (r *ProductRepo) Get(ctx context.Context, userID, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND user_id = $2
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.Name, p.Description, p.Reference,
		p.Quantity, p.MinQuantity, p.CostPrice, p.SalePrice,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update rewrites a product's mutable fields within the user's scope.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, reference = $5, quantity = $6,
		    min_quantity = $7, cost_price = $8, sale_price = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.Name, p.Description, p.Reference,
		p.Quantity, p.MinQuantity, p.CostPrice, p.SalePrice, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product within the user's scope.
// Deleting a missing ID is a no-op.
func (r *ProductRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM products WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// Count returns the number of products owned by a user.
func (r *ProductRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// CountLowStock returns the number of products at or below their
// per-row minimum quantity.
func (r *ProductRepo) CountLowStock(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE user_id = $1 AND quantity <= min_quantity`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return count, nil
}

// InventoryValue returns the stock valuation at cost and at sale price.
func (r *ProductRepo) InventoryValue(ctx context.Context, userID string) (cost, sale float64, err error) {
	query := `
		SELECT COALESCE(SUM(quantity * cost_price), 0),
		       COALESCE(SUM(quantity * sale_price), 0)
		FROM products
		WHERE user_id = $1
	`
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&cost, &sale); err != nil {
		return 0, 0, fmt.Errorf("failed to value inventory: %w", err)
	}
	return cost, sale, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.Reference,
		&p.Quantity, &p.MinQuantity, &p.CostPrice, &p.SalePrice,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return &p, err
}
