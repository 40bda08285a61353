package repository

import (
	"context"

	"github.com/gestix/gestix/internal/model"
)

// Aggregation adapters: the dashboard and reports services consume the
// Repository through small interfaces, satisfied by the methods below.

// CountCustomers returns the user's customer count.
func (r *Repository) CountCustomers(ctx context.Context, userID string) (int64, error) {
	return r.Customers.Count(ctx, userID)
}

// CountProducts returns the user's product count.
func (r *Repository) CountProducts(ctx context.Context, userID string) (int64, error) {
	return r.Products.Count(ctx, userID)
}

// CountQuotes returns the user's quote count.
func (r *Repository) CountQuotes(ctx context.Context, userID string) (int64, error) {
	return r.Quotes.Count(ctx, userID)
}

// CountServiceOrders returns the user's service order count.
func (r *Repository) CountServiceOrders(ctx context.Context, userID string) (int64, error) {
	return r.Orders.Count(ctx, userID)
}

// CountActiveServiceOrders returns the user's orders in an active status.
func (r *Repository) CountActiveServiceOrders(ctx context.Context, userID string) (int64, error) {
	return r.Orders.CountByStatuses(ctx, userID, model.ActiveOrderStatuses)
}

// CountLowStockProducts returns the user's products at or below threshold.
func (r *Repository) CountLowStockProducts(ctx context.Context, userID string) (int64, error) {
	return r.Products.CountLowStock(ctx, userID)
}

// QuoteTotalsByStatus returns the user's quote rollup grouped by status.
func (r *Repository) QuoteTotalsByStatus(ctx context.Context, userID string) (map[model.QuoteStatus]StatusTotal, error) {
	return r.Quotes.TotalsByStatus(ctx, userID)
}

// OrderCountsByStatus returns the user's order counts grouped by status.
func (r *Repository) OrderCountsByStatus(ctx context.Context, userID string) (map[model.OrderStatus]int64, error) {
	return r.Orders.CountsByStatus(ctx, userID)
}

// InventoryValue returns the user's stock valuation at cost and sale price.
func (r *Repository) InventoryValue(ctx context.Context, userID string) (cost, sale float64, err error) {
	return r.Products.InventoryValue(ctx, userID)
}
