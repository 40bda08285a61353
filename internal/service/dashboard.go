// Package service provides business logic above the repository layer.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gestix/gestix/internal/metrics"
)

// StatsSource supplies the per-user counts the dashboard aggregates.
// Implemented by *repository.Repository.
type StatsSource interface {
	CountCustomers(ctx context.Context, userID string) (int64, error)
	CountProducts(ctx context.Context, userID string) (int64, error)
	CountQuotes(ctx context.Context, userID string) (int64, error)
	CountServiceOrders(ctx context.Context, userID string) (int64, error)
	CountActiveServiceOrders(ctx context.Context, userID string) (int64, error)
	CountLowStockProducts(ctx context.Context, userID string) (int64, error)
}

// DashboardStats is the summary object rendered on the dashboard.
type DashboardStats struct {
	CustomersCount     int64 `json:"customersCount"`
	ProductsCount      int64 `json:"productsCount"`
	QuotesCount        int64 `json:"quotesCount"`
	ServiceOrdersCount int64 `json:"serviceOrdersCount"`
	ActiveOrders       int64 `json:"activeOrders"`
	LowStockProducts   int64 `json:"lowStockProducts"`
}

// DashboardService aggregates per-entity counts into one summary.
type DashboardService struct {
	source  StatsSource
	metrics metrics.Recorder
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(source StatsSource, recorder metrics.Recorder) *DashboardService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DashboardService{source: source, metrics: recorder}
}

// Stats runs the six count queries concurrently and joins them into one
// summary. The join is all-or-nothing: if any count fails, the whole
// aggregation fails and no partial summary is returned.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*DashboardStats, error) {
	start := time.Now()

	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.CustomersCount, err = s.source.CountCustomers(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.ProductsCount, err = s.source.CountProducts(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.QuotesCount, err = s.source.CountQuotes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.ServiceOrdersCount, err = s.source.CountServiceOrders(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveOrders, err = s.source.CountActiveServiceOrders(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.LowStockProducts, err = s.source.CountLowStockProducts(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.metrics.IncDashboardAggregation("failed")
		return nil, fmt.Errorf("dashboard aggregation: %w", err)
	}

	s.metrics.IncDashboardAggregation("success")
	s.metrics.ObserveDashboardDuration(time.Since(start))

	return &stats, nil
}
