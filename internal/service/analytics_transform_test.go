package service

import (
	"math"
	"testing"

	"invoscope/internal/model"
)

func TestTransformAnalytics_Summary(t *testing.T) {
	data := TransformAnalytics(model.SummaryStats{
		TotalInvoices: 10,
		PaidCount:     4,
		OverdueCount:  2,
		TotalAmount:   1000,
		PaidAmount:    400,
		UnpaidAmount:  600,
	}, nil, nil, nil, nil)

	if data.Summary.ActiveInvoices != 4 {
		t.Errorf("ActiveInvoices = %d, want 4", data.Summary.ActiveInvoices)
	}
	if data.Summary.TotalAmount != 1000 || data.Summary.PaidAmount != 400 {
		t.Errorf("amounts not passed through: %+v", data.Summary)
	}
}

func TestTransformAnalytics_NegativeActiveIsNotClamped(t *testing.T) {
	// Inconsistent upstream counts must surface, not be hidden at zero.
	data := TransformAnalytics(model.SummaryStats{
		TotalInvoices: 3,
		PaidCount:     3,
		OverdueCount:  2,
	}, nil, nil, nil, nil)

	if data.Summary.ActiveInvoices != -2 {
		t.Errorf("ActiveInvoices = %d, want -2", data.Summary.ActiveInvoices)
	}
}

func TestTransformAnalytics_StatusPercentages(t *testing.T) {
	dist := []model.StatusCount{
		{Status: model.StatusPaid, Count: 3},
		{Status: model.StatusUnpaid, Count: 1},
	}

	data := TransformAnalytics(model.SummaryStats{}, dist, nil, nil, nil)

	if got := data.StatusDistribution[0].Percentage; got != 75 {
		t.Errorf("PAID percentage = %v, want 75", got)
	}
	if got := data.StatusDistribution[1].Percentage; got != 25 {
		t.Errorf("UNPAID percentage = %v, want 25", got)
	}
}

func TestTransformAnalytics_ZeroTotalYieldsZeroPercent(t *testing.T) {
	dist := []model.StatusCount{
		{Status: model.StatusPaid, Count: 0},
		{Status: model.StatusUnpaid, Count: 0},
	}

	data := TransformAnalytics(model.SummaryStats{}, dist, nil, nil, nil)

	for _, s := range data.StatusDistribution {
		if s.Percentage != 0 {
			t.Errorf("%s percentage = %v, want 0", s.Status, s.Percentage)
		}
		if math.IsNaN(s.Percentage) {
			t.Errorf("%s percentage is NaN", s.Status)
		}
	}
}

func TestTransformAnalytics_MonthLabels(t *testing.T) {
	trends := []model.MonthlyTrendRow{
		{Month: 1, Count: 2, TotalAmount: 20},
		{Month: 12, Count: 1, TotalAmount: 10},
		{Month: 0, Count: 1, TotalAmount: 5},
		{Month: 13, Count: 1, TotalAmount: 5},
	}

	data := TransformAnalytics(model.SummaryStats{}, nil, trends, nil, nil)

	want := []string{"Jan", "Dec", "Unknown", "Unknown"}
	for i, w := range want {
		if data.MonthlyTrends[i].Month != w {
			t.Errorf("trend[%d].Month = %q, want %q", i, data.MonthlyTrends[i].Month, w)
		}
	}
}

func TestTransformAnalytics_TopEntitiesPreserveOrder(t *testing.T) {
	vendors := []model.EntityTotalRow{
		{Name: "Globex", InvoiceCount: 2, TotalAmount: 200},
		{Name: "Acme", InvoiceCount: 3, TotalAmount: 150},
	}

	data := TransformAnalytics(model.SummaryStats{}, nil, nil, vendors, nil)

	if len(data.TopVendors) != 2 {
		t.Fatalf("TopVendors length = %d, want 2", len(data.TopVendors))
	}
	if data.TopVendors[0].Name != "Globex" || data.TopVendors[1].Name != "Acme" {
		t.Errorf("top vendor order changed: %+v", data.TopVendors)
	}
	if data.TopVendors[0].TotalAmount != 200 {
		t.Errorf("TotalAmount = %v, want 200", data.TopVendors[0].TotalAmount)
	}
}
