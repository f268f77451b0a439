package insight

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"invoscope/internal/model"
)

func inv(vendor, customer, issueDate string, total float64) model.Invoice {
	return model.Invoice{
		VendorName:   vendor,
		CustomerName: customer,
		IssueDate:    issueDate,
		TotalAmount:  decimal.NewFromFloat(total),
	}
}

func names(rows []EntityTotal) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func labels(groups []MonthlyBreakdown) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.MonthLabel)
	}
	return out
}

func TestFilterByWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		invoices []model.Invoice
		days     int
		want     []string // expected issue dates, in order
	}{
		{
			name: "boundary date is inclusive",
			invoices: []model.Invoice{
				inv("A", "", "2024-03-05", 10), // exactly 10 days back
				inv("A", "", "2024-03-04", 10), // one day outside
			},
			days: 10,
			want: []string{"2024-03-05"},
		},
		{
			name: "today is inclusive",
			invoices: []model.Invoice{
				inv("A", "", "2024-03-15", 10),
			},
			days: 10,
			want: []string{"2024-03-15"},
		},
		{
			name: "future dates are excluded",
			invoices: []model.Invoice{
				inv("A", "", "2024-03-16", 10),
			},
			days: 10,
			want: []string{},
		},
		{
			name: "malformed dates are dropped silently",
			invoices: []model.Invoice{
				inv("A", "", "2024-03-10", 10),
				inv("A", "", "not-a-date", 10),
				inv("A", "", "", 10),
				inv("A", "", "2024-03-12", 10),
			},
			days: 10,
			want: []string{"2024-03-10", "2024-03-12"},
		},
		{
			name: "input order is preserved",
			invoices: []model.Invoice{
				inv("A", "", "2024-03-14", 10),
				inv("A", "", "2024-03-08", 10),
				inv("A", "", "2024-03-11", 10),
			},
			days: 10,
			want: []string{"2024-03-14", "2024-03-08", "2024-03-11"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByWindow(tt.invoices, tt.days, now)
			if len(got) > len(tt.invoices) {
				t.Fatalf("result larger than input: %d > %d", len(got), len(tt.invoices))
			}
			dates := make([]string, 0, len(got))
			for _, i := range got {
				dates = append(dates, i.IssueDate)
			}
			if !reflect.DeepEqual(dates, tt.want) {
				t.Errorf("FilterByWindow() dates = %v, want %v", dates, tt.want)
			}
		})
	}
}

func TestFilterByWindow_AheadOfUTCZone(t *testing.T) {
	// Shortly after local midnight in a zone ahead of UTC, today's
	// invoice must still count as today.
	tokyo := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2024, 3, 15, 0, 30, 0, 0, tokyo)

	got := FilterByWindow([]model.Invoice{
		inv("A", "", "2024-03-15", 10),
		inv("A", "", "2024-03-16", 10),
	}, 10, now)

	dates := make([]string, 0, len(got))
	for _, i := range got {
		dates = append(dates, i.IssueDate)
	}
	if want := []string{"2024-03-15"}; !reflect.DeepEqual(dates, want) {
		t.Errorf("FilterByWindow() dates = %v, want %v", dates, want)
	}
}

func TestFilterByWindow_BadDateHook(t *testing.T) {
	var dropped []string
	BadDateHook = func(i model.Invoice) { dropped = append(dropped, i.IssueDate) }
	defer func() { BadDateHook = nil }()

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	FilterByWindow([]model.Invoice{
		inv("A", "", "2024-03-10", 10),
		inv("A", "", "03/10/2024", 10),
		inv("A", "", "garbage", 10),
	}, 10, now)

	want := []string{"03/10/2024", "garbage"}
	if !reflect.DeepEqual(dropped, want) {
		t.Errorf("hook fired for %v, want %v", dropped, want)
	}
}

func TestAggregateBy(t *testing.T) {
	invoices := []model.Invoice{
		inv("Acme", "", "2024-01-05", 100),
		inv("acme", "", "2024-01-06", 40),  // case differs: distinct key
		inv("Acme ", "", "2024-01-07", 30), // trailing space: distinct key
		inv("Acme", "", "2024-01-08", 50),
		inv("Globex", "", "2024-01-09", 200),
	}

	rows := AggregateBy(invoices, ByVendor)

	wantNames := []string{"Globex", "Acme", "acme", "Acme "}
	if got := names(rows); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("AggregateBy() order = %v, want %v", got, wantNames)
	}
	if !rows[1].TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Acme total = %s, want 150", rows[1].TotalAmount)
	}

	// Sum preservation.
	var inputSum, outputSum decimal.Decimal
	for _, i := range invoices {
		inputSum = inputSum.Add(i.TotalAmount)
	}
	for _, r := range rows {
		outputSum = outputSum.Add(r.TotalAmount)
	}
	if !inputSum.Equal(outputSum) {
		t.Errorf("sum not preserved: input %s, output %s", inputSum, outputSum)
	}
}

func TestAggregateBy_StableTies(t *testing.T) {
	invoices := []model.Invoice{
		inv("First", "", "2024-01-01", 100),
		inv("Second", "", "2024-01-02", 100),
		inv("Third", "", "2024-01-03", 100),
	}

	rows := AggregateBy(invoices, ByVendor)
	want := []string{"First", "Second", "Third"}
	if got := names(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("tie order = %v, want %v", got, want)
	}
}

func TestAggregateBy_Empty(t *testing.T) {
	rows := AggregateBy(nil, ByVendor)
	if rows == nil || len(rows) != 0 {
		t.Errorf("AggregateBy(nil) = %v, want empty non-nil slice", rows)
	}
}

func TestBreakdownByMonth(t *testing.T) {
	invoices := []model.Invoice{
		inv("Acme", "", "2024-01-20", 100),
		inv("Acme", "", "2024-01-05", 40),
		inv("Globex", "", "2024-01-10", 999), // different vendor, excluded
		inv("Acme", "", "2024-02-10", 50),
		inv("Acme", "", "bad-date", 7), // dropped
	}

	groups := BreakdownByMonth(invoices, "Acme", ByVendor)

	wantLabels := []string{"January 2024", "February 2024"}
	if got := labels(groups); !reflect.DeepEqual(got, wantLabels) {
		t.Fatalf("group order = %v, want %v", got, wantLabels)
	}

	jan := groups[0]
	if !jan.TotalAmount.Equal(decimal.NewFromInt(140)) {
		t.Errorf("January total = %s, want 140", jan.TotalAmount)
	}
	wantDates := []string{"2024-01-05", "2024-01-20"}
	if !reflect.DeepEqual(jan.InvoiceDates, wantDates) {
		t.Errorf("January dates = %v, want %v (ascending)", jan.InvoiceDates, wantDates)
	}

	// Exhaustive and disjoint: every parsable Acme invoice in exactly one group.
	total := 0
	for _, g := range groups {
		total += len(g.InvoiceDates)
	}
	if total != 3 {
		t.Errorf("grouped %d invoices, want 3", total)
	}
}

func TestSortMonthLabelsLexicographically(t *testing.T) {
	// Across year boundaries string order diverges from calendar order:
	// "March 2024" compares greater than "January 2025" even though it is
	// ten months earlier.
	groups := []MonthlyBreakdown{
		{MonthLabel: "January 2025"},
		{MonthLabel: "March 2024"},
		{MonthLabel: "February 2025"},
	}

	SortMonthLabelsLexicographically(groups)

	want := []string{"March 2024", "January 2025", "February 2025"}
	if got := labels(groups); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestVendorPipelineEndToEnd(t *testing.T) {
	invoices := []model.Invoice{
		inv("Acme", "", "2024-01-05", 100),
		inv("Acme", "", "2024-02-10", 50),
		inv("Globex", "", "2024-01-20", 200),
	}
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	filtered := FilterByWindow(invoices, 400, now)
	if len(filtered) != 3 {
		t.Fatalf("window should include all 3 invoices, got %d", len(filtered))
	}

	rows := AggregateBy(filtered, ByVendor)
	wantNames := []string{"Globex", "Acme"}
	if got := names(rows); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("aggregate order = %v, want %v", got, wantNames)
	}
	if !rows[0].TotalAmount.Equal(decimal.NewFromInt(200)) || !rows[1].TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("totals = %s/%s, want 200/150", rows[0].TotalAmount, rows[1].TotalAmount)
	}

	groups := BreakdownByMonth(filtered, "Acme", ByVendor)
	if len(groups) != 2 {
		t.Fatalf("want 2 month groups, got %d", len(groups))
	}
	if groups[0].MonthLabel != "January 2024" || groups[1].MonthLabel != "February 2024" {
		t.Errorf("group order = %v", labels(groups))
	}
	if !groups[0].TotalAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("January total = %s, want 100", groups[0].TotalAmount)
	}
	if !reflect.DeepEqual(groups[0].InvoiceDates, []string{"2024-01-05"}) {
		t.Errorf("January dates = %v", groups[0].InvoiceDates)
	}
	if !groups[1].TotalAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("February total = %s, want 50", groups[1].TotalAmount)
	}
}
