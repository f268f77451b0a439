package model

// Raw aggregation rows scanned from SQL. These are the backend DTOs the
// Analytics Summary Transformer consumes.

// SummaryStats holds whole-window invoice counts and sums.
type SummaryStats struct {
	TotalInvoices int64   `json:"total_invoices"`
	PaidCount     int64   `json:"paid_count"`
	UnpaidCount   int64   `json:"unpaid_count"`
	OverdueCount  int64   `json:"overdue_count"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	UnpaidAmount  float64 `json:"unpaid_amount"`
}

// StatusCount is one row of the status distribution query.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthlyTrendRow is one row of the monthly trend query. Month is the
// calendar month number (1-12).
type MonthlyTrendRow struct {
	Month       int     `json:"month"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// EntityTotalRow is one ranked vendor or customer row, already ordered by
// the backend query.
type EntityTotalRow struct {
	Name         string  `json:"name"`
	InvoiceCount int64   `json:"invoice_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// Presentation shapes produced by the transformer.

// AnalyticsSummary is the dashboard headline block. ActiveInvoices is
// derived as Total - Paid - Overdue and may go negative when upstream
// counts disagree; the raw value is passed through.
type AnalyticsSummary struct {
	TotalInvoices   int64   `json:"total_invoices"`
	ActiveInvoices  int64   `json:"active_invoices"`
	PaidInvoices    int64   `json:"paid_invoices"`
	OverdueInvoices int64   `json:"overdue_invoices"`
	TotalAmount     float64 `json:"total_amount"`
	PaidAmount      float64 `json:"paid_amount"`
	UnpaidAmount    float64 `json:"unpaid_amount"`
}

// StatusSlice is one entry of the status distribution donut.
type StatusSlice struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is one point of the monthly trend chart. Month is a 3-letter
// English abbreviation, or "Unknown" for out-of-range month numbers.
type TrendPoint struct {
	Month       string  `json:"month"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// EntityTotal is one top-vendor or top-customer row, order untouched from
// the backend ranking.
type EntityTotal struct {
	Name         string  `json:"name"`
	InvoiceCount int64   `json:"invoice_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// AnalyticsData is the complete dashboard payload.
type AnalyticsData struct {
	Summary            AnalyticsSummary `json:"summary"`
	StatusDistribution []StatusSlice    `json:"status_distribution"`
	MonthlyTrends      []TrendPoint     `json:"monthly_trends"`
	TopVendors         []EntityTotal    `json:"top_vendors"`
	TopCustomers       []EntityTotal    `json:"top_customers"`
}
