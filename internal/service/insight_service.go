package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"invoscope/internal/insight"
	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// DefaultWindowDays is the trailing window applied when the caller does not
// ask for one.
const DefaultWindowDays = 30

var ErrEntityNameRequired = errors.New("entity name is required")

// EntityTotalResponse is one vendor/customer aggregate row.
type EntityTotalResponse struct {
	Name        string `json:"name"`
	TotalAmount string `json:"total_amount"`
}

// MonthlyBreakdownResponse is one month group of a single entity.
type MonthlyBreakdownResponse struct {
	MonthLabel   string   `json:"month_label"`
	TotalAmount  string   `json:"total_amount"`
	InvoiceDates []string `json:"invoice_dates"`
}

type InsightService interface {
	VendorTotals(ctx context.Context, tenantScope uuid.UUID, windowDays int) ([]EntityTotalResponse, error)
	CustomerTotals(ctx context.Context, tenantScope uuid.UUID, windowDays int) ([]EntityTotalResponse, error)
	MonthlyBreakdown(ctx context.Context, tenantScope uuid.UUID, windowDays int, byCustomer bool, name string) ([]MonthlyBreakdownResponse, error)
}

type insightService struct {
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

func NewInsightService(invoiceRepo repository.InvoiceRepository) InsightService {
	return &insightService{invoiceRepo: invoiceRepo, now: time.Now}
}

func (s *insightService) windowed(ctx context.Context, tenantScope uuid.UUID, windowDays int) ([]model.Invoice, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	invoices, err := s.invoiceRepo.ListForInsights(ctx, tenantScope)
	if err != nil {
		return nil, err
	}
	return insight.FilterByWindow(invoices, windowDays, s.now()), nil
}

func (s *insightService) totals(ctx context.Context, tenantScope uuid.UUID, windowDays int, keyOf insight.KeyFunc) ([]EntityTotalResponse, error) {
	invoices, err := s.windowed(ctx, tenantScope, windowDays)
	if err != nil {
		return nil, err
	}
	rows := insight.AggregateBy(invoices, keyOf)
	out := make([]EntityTotalResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, EntityTotalResponse{
			Name:        row.Name,
			TotalAmount: row.TotalAmount.StringFixed(4),
		})
	}
	return out, nil
}

func (s *insightService) VendorTotals(ctx context.Context, tenantScope uuid.UUID, windowDays int) ([]EntityTotalResponse, error) {
	return s.totals(ctx, tenantScope, windowDays, insight.ByVendor)
}

func (s *insightService) CustomerTotals(ctx context.Context, tenantScope uuid.UUID, windowDays int) ([]EntityTotalResponse, error) {
	return s.totals(ctx, tenantScope, windowDays, insight.ByCustomer)
}

func (s *insightService) MonthlyBreakdown(ctx context.Context, tenantScope uuid.UUID, windowDays int, byCustomer bool, name string) ([]MonthlyBreakdownResponse, error) {
	if name == "" {
		return nil, ErrEntityNameRequired
	}
	invoices, err := s.windowed(ctx, tenantScope, windowDays)
	if err != nil {
		return nil, err
	}
	keyOf := insight.ByVendor
	if byCustomer {
		keyOf = insight.ByCustomer
	}
	groups := insight.BreakdownByMonth(invoices, name, keyOf)
	out := make([]MonthlyBreakdownResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlyBreakdownResponse{
			MonthLabel:   g.MonthLabel,
			TotalAmount:  g.TotalAmount.StringFixed(4),
			InvoiceDates: g.InvoiceDates,
		})
	}
	return out, nil
}
