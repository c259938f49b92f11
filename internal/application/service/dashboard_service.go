package service

import (
	"context"
	"log"
	"time"

	"github.com/thaisrestaurant/orderdesk-api/internal/domain/analytics"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/repository"
)

// DashboardService derives the dashboard views from a snapshot of the
// orders table
type DashboardService struct {
	orderRepo repository.OrderRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(orderRepo repository.OrderRepository) *DashboardService {
	return &DashboardService{orderRepo: orderRepo}
}

// DashboardInput carries the date-range filter and sort directive
type DashboardInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Sort      analytics.SortDirective
}

// DashboardView is the computed dashboard state: the filtered+sorted order
// list plus the two chart series. MalformedCount reports rows excluded from
// every view because a raw field did not parse.
type DashboardView struct {
	Orders         []analytics.Record
	Sort           analytics.SortDirective
	Revenue        analytics.Series
	TopProducts    analytics.Ranking
	MalformedCount int
}

// GetDashboard fetches all orders and runs the aggregation pipeline over
// them. The pipeline itself is pure; this is the only place that pairs it
// with I/O.
func (s *DashboardService) GetDashboard(ctx context.Context, input *DashboardInput) (*DashboardView, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]analytics.Record, 0, len(orders))
	for i := range orders {
		records = append(records, orders[i].Record())
	}

	directive := input.Sort
	if !directive.Key.Valid() {
		directive = analytics.DefaultSort()
	}

	result := analytics.Compute(records, analytics.DateRange{Start: input.StartDate, End: input.EndDate}, directive)

	for _, m := range result.Malformed {
		log.Printf("Warning: order %s excluded from dashboard: %s", m.Record.ID, m.Reason)
	}

	return &DashboardView{
		Orders:         result.Visible,
		Sort:           directive,
		Revenue:        result.Revenue,
		TopProducts:    result.TopProducts,
		MalformedCount: len(result.Malformed),
	}, nil
}
