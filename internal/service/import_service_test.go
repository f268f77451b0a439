package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1 * time.Second},
		{3, 2 * time.Second},
		{4, 4 * time.Second},
		{5, 5 * time.Second}, // capped
		{10, 5 * time.Second},
	}

	for _, tt := range tests {
		if got := backoffDelay(tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func newTestImportService() *importService {
	return &importService{
		client:     &http.Client{Timeout: 5 * time.Second},
		retryDelay: func(int) time.Duration { return time.Millisecond },
	}
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestFetchFeed_ClientErrorIsTerminal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := newTestImportService()
	if _, err := s.fetchFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if calls != 1 {
		t.Errorf("4xx was retried: %d calls, want 1", calls)
	}
}

func TestFetchFeed_ServerErrorIsRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := newTestImportService()
	body, err := s.fetchFeed(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetchFeed() error = %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("body = %q, want []", body)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetchFeed_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestImportService()
	if _, err := s.fetchFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != feedMaxAttempts {
		t.Errorf("calls = %d, want %d", calls, feedMaxAttempts)
	}
}

func TestFetchFeed_ContextCancelStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestImportService()
	start := time.Now()
	_, err := s.fetchFeed(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancelled fetch still waited %v", elapsed)
	}
}

func TestToInvoice(t *testing.T) {
	s := newTestImportService()
	tenantID := mustUUID(t)

	inv, ok := s.toInvoice(FeedInvoice{
		InvoiceNo:    "EXT-1",
		IssueDate:    "2024-01-05",
		VendorName:   "Acme",
		CustomerName: "Globex",
		TotalAmount:  "150.50",
		Status:       "PAID",
		Items: []FeedLineItem{
			{Description: "Widget", Quantity: "2", UnitPrice: "10.25"},
			{Description: "Broken", Quantity: "x", UnitPrice: "1"},
		},
	}, tenantID)
	if !ok {
		t.Fatal("valid record was rejected")
	}
	if inv.Status != "PAID" || inv.Currency != "USD" {
		t.Errorf("status/currency = %s/%s", inv.Status, inv.Currency)
	}
	if len(inv.Items) != 1 {
		t.Errorf("unparsable line items must be skipped, got %d items", len(inv.Items))
	}
	if !inv.Items[0].Amount.Equal(decimalFromString(t, "20.50")) {
		t.Errorf("line amount = %s, want 20.50", inv.Items[0].Amount)
	}

	// A malformed issue date is stored as-is; the insight pipeline drops it
	// later.
	inv, ok = s.toInvoice(FeedInvoice{
		InvoiceNo:    "EXT-2",
		IssueDate:    "05/01/2024",
		VendorName:   "Acme",
		CustomerName: "Globex",
		TotalAmount:  "10",
	}, tenantID)
	if !ok || inv.IssueDate != "05/01/2024" {
		t.Errorf("malformed date not preserved: ok=%v date=%q", ok, inv.IssueDate)
	}
	if inv.Status != "UNPAID" {
		t.Errorf("missing status should default to UNPAID, got %q", inv.Status)
	}

	// Records without the identifying fields are skipped.
	if _, ok := s.toInvoice(FeedInvoice{TotalAmount: "10"}, tenantID); ok {
		t.Error("record without invoice_no/vendor/customer was accepted")
	}
	if _, ok := s.toInvoice(FeedInvoice{InvoiceNo: "X", VendorName: "A", CustomerName: "B", TotalAmount: "abc"}, tenantID); ok {
		t.Error("record with unparsable total was accepted")
	}
}
