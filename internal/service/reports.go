package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gestix/gestix/internal/model"
	"github.com/gestix/gestix/internal/repository"
)

// ReportsSource supplies the per-user rollups the reports screen renders.
// Implemented by *repository.Repository.
type ReportsSource interface {
	QuoteTotalsByStatus(ctx context.Context, userID string) (map[model.QuoteStatus]repository.StatusTotal, error)
	OrderCountsByStatus(ctx context.Context, userID string) (map[model.OrderStatus]int64, error)
	InventoryValue(ctx context.Context, userID string) (cost, sale float64, err error)
}

// QuoteTotal is one status line of the quote rollup.
type QuoteTotal struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// ReportSummary is the aggregate rollup served to the reports screen.
type ReportSummary struct {
	Quotes        map[model.QuoteStatus]QuoteTotal `json:"quotes"`
	ServiceOrders map[model.OrderStatus]int64      `json:"service_orders"`
	InventoryCost float64                          `json:"inventory_cost_value"`
	InventorySale float64                          `json:"inventory_sale_value"`
}

// ReportsService aggregates the business rollups.
type ReportsService struct {
	source ReportsSource
}

// NewReportsService creates a new ReportsService.
func NewReportsService(source ReportsSource) *ReportsService {
	return &ReportsService{source: source}
}

// Summary runs the three rollup queries concurrently. Like the dashboard,
// the join is all-or-nothing.
func (s *ReportsService) Summary(ctx context.Context, userID string) (*ReportSummary, error) {
	summary := &ReportSummary{
		Quotes:        make(map[model.QuoteStatus]QuoteTotal),
		ServiceOrders: make(map[model.OrderStatus]int64),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, err := s.source.QuoteTotalsByStatus(gctx, userID)
		if err != nil {
			return err
		}
		for status, t := range totals {
			summary.Quotes[status] = QuoteTotal{Count: t.Count, Amount: t.Amount}
		}
		return nil
	})
	g.Go(func() error {
		counts, err := s.source.OrderCountsByStatus(gctx, userID)
		if err != nil {
			return err
		}
		for status, n := range counts {
			summary.ServiceOrders[status] = n
		}
		return nil
	})
	g.Go(func() (err error) {
		summary.InventoryCost, summary.InventorySale, err = s.source.InventoryValue(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report aggregation: %w", err)
	}

	return summary, nil
}
