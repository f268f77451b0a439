package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// Feed fetch retry policy. Delays double from the base up to the cap.
const (
	feedMaxAttempts  = 4
	feedBaseDelay    = 500 * time.Millisecond
	feedMaxDelay     = 5 * time.Second
	feedFetchTimeout = 30 * time.Second
)

// terminalStatusError marks a response that must not be retried.
type terminalStatusError struct {
	status int
}

func (e *terminalStatusError) Error() string {
	return fmt.Sprintf("feed returned status %d", e.status)
}

// FeedLineItem is one line of an external feed record.
type FeedLineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// FeedInvoice is one record of the external invoice feed.
type FeedInvoice struct {
	InvoiceNo    string         `json:"invoice_no"`
	IssueDate    string         `json:"issue_date"`
	DueDate      string         `json:"due_date"`
	VendorName   string         `json:"vendor_name"`
	CustomerName string         `json:"customer_name"`
	TotalAmount  string         `json:"total_amount"`
	Status       string         `json:"status"`
	Currency     string         `json:"currency"`
	Items        []FeedLineItem `json:"items"`
}

// ImportResult reports how one feed import went.
type ImportResult struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type ImportService interface {
	ImportFromFeed(ctx context.Context, feedURL string, tenantID uuid.UUID, actorID uuid.UUID) (ImportResult, error)
}

type importService struct {
	invoiceRepo repository.InvoiceRepository
	audit       AuditService
	events      Broadcaster
	client      *http.Client
	retryDelay  func(attempt int) time.Duration
}

func NewImportService(invoiceRepo repository.InvoiceRepository, audit AuditService, events Broadcaster) ImportService {
	return &importService{
		invoiceRepo: invoiceRepo,
		audit:       audit,
		events:      events,
		client:      &http.Client{Timeout: feedFetchTimeout},
		retryDelay:  backoffDelay,
	}
}

// backoffDelay returns the sleep before retry number attempt (1-based),
// doubling from the base and capped.
func backoffDelay(attempt int) time.Duration {
	delay := feedBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= feedMaxDelay {
			return feedMaxDelay
		}
	}
	return delay
}

// fetchFeed downloads the feed body, retrying transient failures. Network
// errors and 5xx responses are retried with exponential backoff; any 4xx
// response fails immediately.
func (s *importService) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= feedMaxAttempts; attempt++ {
		if attempt > 1 {
			delay := s.retryDelay(attempt - 1)
			log.Warn().
				Str("url", feedURL).
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying invoice feed fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		body, err := s.fetchOnce(ctx, feedURL)
		if err == nil {
			return body, nil
		}
		var terminal *terminalStatusError
		if errors.As(err, &terminal) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("feed fetch failed after %d attempts: %w", feedMaxAttempts, lastErr)
}

func (s *importService) fetchOnce(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return io.ReadAll(resp.Body)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &terminalStatusError{status: resp.StatusCode}
	default:
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
}

func (s *importService) ImportFromFeed(ctx context.Context, feedURL string, tenantID uuid.UUID, actorID uuid.UUID) (ImportResult, error) {
	if tenantID == uuid.Nil {
		return ImportResult{}, errors.New("a tenant is required to import invoices")
	}
	if feedURL == "" {
		return ImportResult{}, errors.New("feed url is required")
	}

	body, err := s.fetchFeed(ctx, feedURL)
	if err != nil {
		return ImportResult{}, err
	}

	var records []FeedInvoice
	if err := json.Unmarshal(body, &records); err != nil {
		return ImportResult{}, fmt.Errorf("failed to decode invoice feed: %w", err)
	}

	result := ImportResult{Fetched: len(records)}
	invoices := make([]model.Invoice, 0, len(records))
	for _, rec := range records {
		inv, ok := s.toInvoice(rec, tenantID)
		if !ok {
			result.Skipped++
			continue
		}
		invoices = append(invoices, inv)
	}

	if len(invoices) > 0 {
		if err := s.invoiceRepo.CreateBatch(ctx, invoices); err != nil {
			return ImportResult{}, fmt.Errorf("failed to store imported invoices: %w", err)
		}
	}
	result.Imported = len(invoices)

	s.audit.Record(ctx, AuditEntry{
		TenantID: &tenantID,
		ActorID:  &actorID,
		Action:   "IMPORT",
		Entity:   "invoice",
		Detail:   fmt.Sprintf("imported %d of %d records from feed", result.Imported, result.Fetched),
	})
	if s.events != nil {
		s.events.BroadcastEvent(EventInvoiceImported, map[string]interface{}{
			"imported": result.Imported,
			"skipped":  result.Skipped,
		})
	}

	return result, nil
}

// toInvoice maps one feed record to a stored invoice. Records missing the
// fields every invoice needs are skipped; issue dates are stored as given,
// even when malformed, and the aggregation pipeline excludes them later.
func (s *importService) toInvoice(rec FeedInvoice, tenantID uuid.UUID) (model.Invoice, bool) {
	if rec.InvoiceNo == "" || rec.VendorName == "" || rec.CustomerName == "" {
		return model.Invoice{}, false
	}

	total, err := decimal.NewFromString(rec.TotalAmount)
	if err != nil {
		return model.Invoice{}, false
	}

	status := rec.Status
	if status != model.StatusPaid && status != model.StatusUnpaid && status != model.StatusOverdue {
		status = model.StatusUnpaid
	}
	currency := rec.Currency
	if currency == "" {
		currency = "USD"
	}

	items := make([]model.LineItem, 0, len(rec.Items))
	for i, it := range rec.Items {
		qty, qerr := decimal.NewFromString(it.Quantity)
		price, perr := decimal.NewFromString(it.UnitPrice)
		if qerr != nil || perr != nil {
			continue
		}
		items = append(items, model.LineItem{
			LineNumber:  i + 1,
			Description: it.Description,
			Quantity:    qty,
			UnitPrice:   price,
			Amount:      qty.Mul(price),
		})
	}

	return model.Invoice{
		TenantID:     tenantID,
		InvoiceNo:    rec.InvoiceNo,
		IssueDate:    rec.IssueDate,
		DueDate:      rec.DueDate,
		VendorName:   rec.VendorName,
		CustomerName: rec.CustomerName,
		Subtotal:     total,
		TotalAmount:  total,
		Status:       status,
		Currency:     currency,
		Items:        items,
	}, true
}
