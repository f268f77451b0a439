package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// TopEntityLimit bounds the top-vendor/top-customer rankings.
const TopEntityLimit = 5

type AnalyticsService interface {
	GetSummary(ctx context.Context, tenantScope uuid.UUID) (model.SummaryStats, error)
	GetStatusDistribution(ctx context.Context, tenantScope uuid.UUID) ([]model.StatusCount, error)
	GetMonthlyTrends(ctx context.Context, tenantScope uuid.UUID, year int) ([]model.MonthlyTrendRow, error)
	GetTopVendors(ctx context.Context, tenantScope uuid.UUID) ([]model.EntityTotalRow, error)
	GetTopCustomers(ctx context.Context, tenantScope uuid.UUID) ([]model.EntityTotalRow, error)
	GetDashboard(ctx context.Context, tenantScope uuid.UUID) (model.AnalyticsData, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

func (s *analyticsService) GetSummary(ctx context.Context, tenantScope uuid.UUID) (model.SummaryStats, error) {
	return s.analyticsRepo.Summary(ctx, tenantScope)
}

func (s *analyticsService) GetStatusDistribution(ctx context.Context, tenantScope uuid.UUID) ([]model.StatusCount, error) {
	return s.analyticsRepo.StatusDistribution(ctx, tenantScope)
}

func (s *analyticsService) GetMonthlyTrends(ctx context.Context, tenantScope uuid.UUID, year int) ([]model.MonthlyTrendRow, error) {
	if year <= 0 {
		year = time.Now().Year()
	}
	return s.analyticsRepo.MonthlyTrends(ctx, tenantScope, year)
}

func (s *analyticsService) GetTopVendors(ctx context.Context, tenantScope uuid.UUID) ([]model.EntityTotalRow, error) {
	return s.analyticsRepo.TopVendors(ctx, tenantScope, TopEntityLimit)
}

func (s *analyticsService) GetTopCustomers(ctx context.Context, tenantScope uuid.UUID) ([]model.EntityTotalRow, error) {
	return s.analyticsRepo.TopCustomers(ctx, tenantScope, TopEntityLimit)
}

// GetDashboard runs the five aggregate queries concurrently and feeds the
// raw rows through TransformAnalytics.
func (s *analyticsService) GetDashboard(ctx context.Context, tenantScope uuid.UUID) (model.AnalyticsData, error) {
	var (
		summary model.SummaryStats
		dist    []model.StatusCount
		trends  []model.MonthlyTrendRow
		vendors []model.EntityTotalRow
		custs   []model.EntityTotalRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.analyticsRepo.Summary(gctx, tenantScope)
		return err
	})
	g.Go(func() error {
		var err error
		dist, err = s.analyticsRepo.StatusDistribution(gctx, tenantScope)
		return err
	})
	g.Go(func() error {
		var err error
		trends, err = s.analyticsRepo.MonthlyTrends(gctx, tenantScope, time.Now().Year())
		return err
	})
	g.Go(func() error {
		var err error
		vendors, err = s.analyticsRepo.TopVendors(gctx, tenantScope, TopEntityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		custs, err = s.analyticsRepo.TopCustomers(gctx, tenantScope, TopEntityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.AnalyticsData{}, fmt.Errorf("failed to load dashboard analytics: %w", err)
	}

	return TransformAnalytics(summary, dist, trends, vendors, custs), nil
}

// monthAbbrev maps calendar month numbers to chart labels.
var monthAbbrev = map[int]string{
	1: "Jan", 2: "Feb", 3: "Mar", 4: "Apr", 5: "May", 6: "Jun",
	7: "Jul", 8: "Aug", 9: "Sep", 10: "Oct", 11: "Nov", 12: "Dec",
}

// MonthLabel returns the 3-letter abbreviation for a month number, or
// "Unknown" when the number is out of range.
func MonthLabel(month int) string {
	if label, ok := monthAbbrev[month]; ok {
		return label
	}
	return "Unknown"
}

// TransformAnalytics converts raw aggregation rows into the dashboard
// payload. It is a pure function over its inputs.
//
// ActiveInvoices = Total - Paid - Overdue is the only derived count; it is
// passed through unclamped, so inconsistent upstream counts surface as
// negative values instead of being hidden.
func TransformAnalytics(
	summary model.SummaryStats,
	dist []model.StatusCount,
	trends []model.MonthlyTrendRow,
	topVendors []model.EntityTotalRow,
	topCustomers []model.EntityTotalRow,
) model.AnalyticsData {
	out := model.AnalyticsData{
		Summary: model.AnalyticsSummary{
			TotalInvoices:   summary.TotalInvoices,
			ActiveInvoices:  summary.TotalInvoices - summary.PaidCount - summary.OverdueCount,
			PaidInvoices:    summary.PaidCount,
			OverdueInvoices: summary.OverdueCount,
			TotalAmount:     summary.TotalAmount,
			PaidAmount:      summary.PaidAmount,
			UnpaidAmount:    summary.UnpaidAmount,
		},
		StatusDistribution: make([]model.StatusSlice, 0, len(dist)),
		MonthlyTrends:      make([]model.TrendPoint, 0, len(trends)),
		TopVendors:         make([]model.EntityTotal, 0, len(topVendors)),
		TopCustomers:       make([]model.EntityTotal, 0, len(topCustomers)),
	}

	var totalCount int64
	for _, row := range dist {
		totalCount += row.Count
	}
	for _, row := range dist {
		slice := model.StatusSlice{Status: row.Status, Count: row.Count}
		// Zero-guard: an empty distribution yields 0%, not NaN.
		if totalCount > 0 {
			slice.Percentage = float64(row.Count) / float64(totalCount) * 100
		}
		out.StatusDistribution = append(out.StatusDistribution, slice)
	}

	for _, row := range trends {
		out.MonthlyTrends = append(out.MonthlyTrends, model.TrendPoint{
			Month:       MonthLabel(row.Month),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		})
	}

	// The backend queries already rank top entities; order is untouched.
	for _, row := range topVendors {
		out.TopVendors = append(out.TopVendors, model.EntityTotal(row))
	}
	for _, row := range topCustomers {
		out.TopCustomers = append(out.TopCustomers, model.EntityTotal(row))
	}

	return out
}
