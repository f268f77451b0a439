// Package insight holds the pure invoice aggregation pipeline: trailing
// date-window filtering, vendor/customer totals, and per-month breakdowns
// for a single vendor or customer. All functions are synchronous, never
// touch I/O, and leave their input untouched.
package insight

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"invoscope/internal/model"
)

// KeyFunc selects the grouping key for an invoice, typically the vendor or
// customer name. Keys are compared by exact string equality.
type KeyFunc func(inv model.Invoice) string

// ByVendor keys invoices by vendor name.
func ByVendor(inv model.Invoice) string { return inv.VendorName }

// ByCustomer keys invoices by customer name.
func ByCustomer(inv model.Invoice) string { return inv.CustomerName }

// EntityTotal is one aggregate row: a distinct vendor/customer name and the
// sum of total amounts over its invoices.
type EntityTotal struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MonthlyBreakdown is one calendar month of a single vendor's or
// customer's invoices.
type MonthlyBreakdown struct {
	MonthLabel   string          `json:"month_label"` // "January 2006"
	TotalAmount  decimal.Decimal `json:"total_amount"`
	InvoiceDates []string        `json:"invoice_dates"` // ascending YYYY-MM-DD
}

// BadDateHook, when set, fires for every invoice dropped because its issue
// date does not parse. Dropping stays silent toward callers; the hook is
// the one place drops become observable.
var BadDateHook func(inv model.Invoice)

func parseIssueDate(inv model.Invoice) (time.Time, bool) {
	t, err := time.Parse(model.DateLayout, inv.IssueDate)
	if err != nil {
		if BadDateHook != nil {
			BadDateHook(inv)
		}
		return time.Time{}, false
	}
	return t, true
}

// FilterByWindow returns the invoices whose issue date falls within the
// trailing window of the given number of days, counting back from now.
// Both the boundary date and today are inclusive. Input order is
// preserved; invoices with unparsable issue dates are excluded.
func FilterByWindow(invoices []model.Invoice, days int, now time.Time) []model.Invoice {
	start := now.AddDate(0, 0, -days)
	// Issue dates are calendar dates parsed as UTC midnights. Pin both
	// boundaries to midnight of the calendar date, taken from now's own
	// zone, so the boundary date and today stay inside the window no
	// matter the server's offset from UTC.
	windowStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]model.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		t, ok := parseIssueDate(inv)
		if !ok {
			continue
		}
		if t.Before(windowStart) || t.After(windowEnd) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// AggregateBy groups invoices by the selected key and sums TotalAmount per
// distinct key. Rows come back ordered by total descending; ties keep
// first-encountered order. Empty input yields an empty slice.
func AggregateBy(invoices []model.Invoice, keyOf KeyFunc) []EntityTotal {
	index := make(map[string]int, len(invoices))
	rows := make([]EntityTotal, 0)

	for _, inv := range invoices {
		key := keyOf(inv)
		if i, ok := index[key]; ok {
			rows[i].TotalAmount = rows[i].TotalAmount.Add(inv.TotalAmount)
			continue
		}
		index[key] = len(rows)
		rows = append(rows, EntityTotal{Name: key, TotalAmount: inv.TotalAmount})
	}

	// Stable sort so equal totals keep insertion order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount)
	})
	return rows
}

// BreakdownByMonth restricts invoices to those whose key exactly matches
// target, then groups them by calendar month of the issue date. Each group
// carries the month label, the summed total, and the group's issue dates
// sorted ascending. Invoices with unparsable issue dates are dropped.
func BreakdownByMonth(invoices []model.Invoice, target string, keyOf KeyFunc) []MonthlyBreakdown {
	index := make(map[string]int)
	groups := make([]MonthlyBreakdown, 0)

	for _, inv := range invoices {
		if keyOf(inv) != target {
			continue
		}
		t, ok := parseIssueDate(inv)
		if !ok {
			continue
		}
		label := t.Format("January 2006")
		i, ok := index[label]
		if !ok {
			index[label] = len(groups)
			groups = append(groups, MonthlyBreakdown{MonthLabel: label})
			i = len(groups) - 1
		}
		groups[i].TotalAmount = groups[i].TotalAmount.Add(inv.TotalAmount)
		groups[i].InvoiceDates = append(groups[i].InvoiceDates, inv.IssueDate)
	}

	for i := range groups {
		// ISO date strings sort lexicographically into chronological order.
		sort.Strings(groups[i].InvoiceDates)
	}

	SortMonthLabelsLexicographically(groups)
	return groups
}

// SortMonthLabelsLexicographically orders groups by descending string
// comparison of the rendered month label. Across ranges whose labels start
// with different month names this is not chronological ("March 2024" sorts
// ahead of the later "January 2025"); the long-standing client behavior is
// kept verbatim, and isolating it here makes a future correction a
// one-line change.
func SortMonthLabelsLexicographically(groups []MonthlyBreakdown) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].MonthLabel > groups[j].MonthLabel
	})
}
