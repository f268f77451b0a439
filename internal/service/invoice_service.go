package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoscope/internal/model"
	"invoscope/internal/repository"
)

// Broadcaster pushes domain events to connected dashboard clients. A nil
// broadcaster disables events.
type Broadcaster interface {
	BroadcastEvent(event string, payload interface{})
}

// Event names pushed over the WebSocket hub.
const (
	EventInvoiceCreated  = "invoice.created"
	EventInvoiceUpdated  = "invoice.updated"
	EventInvoiceArchived = "invoice.archived"
	EventInvoiceImported = "invoice.imported"
)

// --- DTOs ---

type LineItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

type CreateInvoiceRequest struct {
	InvoiceNo       string            `json:"invoice_no"` // generated when empty
	IssueDate       string            `json:"issue_date" binding:"required"`
	DueDate         string            `json:"due_date" binding:"required"`
	VendorName      string            `json:"vendor_name" binding:"required"`
	VendorAddress   string            `json:"vendor_address"`
	VendorPhone     string            `json:"vendor_phone"`
	VendorEmail     string            `json:"vendor_email"`
	CustomerName    string            `json:"customer_name" binding:"required"`
	CustomerAddress string            `json:"customer_address"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerEmail   string            `json:"customer_email"`
	Subtotal        string            `json:"subtotal"` // derived from items when they are present
	Discount        string            `json:"discount"`
	TaxRate         string            `json:"tax_rate"`
	Status          string            `json:"status" binding:"omitempty,oneof=PAID UNPAID OVERDUE"`
	Currency        string            `json:"currency"`
	Terms           string            `json:"terms"`
	Items           []LineItemRequest `json:"items"`
}

type UpdateInvoiceRequest struct {
	IssueDate       *string `json:"issue_date"`
	DueDate         *string `json:"due_date"`
	VendorName      *string `json:"vendor_name"`
	VendorAddress   *string `json:"vendor_address"`
	VendorPhone     *string `json:"vendor_phone"`
	VendorEmail     *string `json:"vendor_email"`
	CustomerName    *string `json:"customer_name"`
	CustomerAddress *string `json:"customer_address"`
	CustomerPhone   *string `json:"customer_phone"`
	CustomerEmail   *string `json:"customer_email"`
	Status          *string `json:"status"`
	Currency        *string `json:"currency"`
	Terms           *string `json:"terms"`

	// Re-pricing block: when Items is present the money columns are
	// recomputed from scratch with Discount/TaxRate (defaulting to the
	// stored values).
	Items    []LineItemRequest `json:"items"`
	Discount *string           `json:"discount"`
	TaxRate  *string           `json:"tax_rate"`
}

type InvoiceFilter struct {
	Status       string
	VendorName   string
	CustomerName string
	Archived     *bool
	Page         int
	Limit        int
}

type LineItemResponse struct {
	LineNumber  int    `json:"line_number"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

type InvoiceResponse struct {
	ID              string             `json:"id"`
	InvoiceNo       string             `json:"invoice_no"`
	TenantID        string             `json:"tenant_id"`
	IssueDate       string             `json:"issue_date"`
	DueDate         string             `json:"due_date"`
	VendorName      string             `json:"vendor_name"`
	VendorAddress   string             `json:"vendor_address"`
	VendorPhone     string             `json:"vendor_phone"`
	VendorEmail     string             `json:"vendor_email"`
	CustomerName    string             `json:"customer_name"`
	CustomerAddress string             `json:"customer_address"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email"`
	Subtotal        string             `json:"subtotal"`
	Discount        string             `json:"discount"`
	TaxRate         string             `json:"tax_rate"`
	TaxAmount       string             `json:"tax_amount"`
	TotalAmount     string             `json:"total_amount"`
	Status          string             `json:"status"`
	Currency        string             `json:"currency"`
	Terms           string             `json:"terms"`
	Archived        bool               `json:"archived"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       string             `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest, tenantID uuid.UUID, actorID uuid.UUID) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string, tenantScope uuid.UUID) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter, tenantScope uuid.UUID) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest, tenantScope uuid.UUID, actorID uuid.UUID) (InvoiceResponse, error)
	ArchiveInvoice(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error
	RestoreInvoice(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error
	DeleteInvoice(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	txManager   repository.TransactionManager
	audit       AuditService
	events      Broadcaster
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	events Broadcaster,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		audit:       audit,
		events:      events,
	}
}

// --- Implementation ---

type pricing struct {
	subtotal  decimal.Decimal
	discount  decimal.Decimal
	taxRate   decimal.Decimal
	taxAmount decimal.Decimal
	total     decimal.Decimal
	items     []model.LineItem
}

// computePricing builds line items and the money columns, holding the
// invariant total = subtotal - discount + taxAmount.
func computePricing(items []LineItemRequest, subtotalStr, discountStr, taxRateStr string) (pricing, error) {
	var p pricing
	var err error

	p.discount = decimal.Zero
	if discountStr != "" {
		if p.discount, err = decimal.NewFromString(discountStr); err != nil {
			return p, fmt.Errorf("invalid discount: %w", err)
		}
	}
	p.taxRate = decimal.Zero
	if taxRateStr != "" {
		if p.taxRate, err = decimal.NewFromString(taxRateStr); err != nil {
			return p, fmt.Errorf("invalid tax_rate: %w", err)
		}
	}

	if len(items) > 0 {
		p.subtotal = decimal.Zero
		p.items = make([]model.LineItem, 0, len(items))
		for i, item := range items {
			qty, qErr := decimal.NewFromString(item.Quantity)
			if qErr != nil {
				return p, fmt.Errorf("invalid quantity on line %d: %w", i+1, qErr)
			}
			price, pErr := decimal.NewFromString(item.UnitPrice)
			if pErr != nil {
				return p, fmt.Errorf("invalid unit_price on line %d: %w", i+1, pErr)
			}
			amount := qty.Mul(price)
			p.subtotal = p.subtotal.Add(amount)
			p.items = append(p.items, model.LineItem{
				LineNumber:  i + 1,
				Description: item.Description,
				Quantity:    qty,
				UnitPrice:   price,
				Amount:      amount,
			})
		}
	} else {
		if subtotalStr == "" {
			return p, errors.New("subtotal is required when no line items are given")
		}
		if p.subtotal, err = decimal.NewFromString(subtotalStr); err != nil {
			return p, fmt.Errorf("invalid subtotal: %w", err)
		}
	}

	p.taxAmount = p.subtotal.Sub(p.discount).Mul(p.taxRate)
	p.total = p.subtotal.Sub(p.discount).Add(p.taxAmount)
	return p, nil
}

func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, tenantID uuid.UUID, actorID uuid.UUID) (InvoiceResponse, error) {
	if tenantID == uuid.Nil {
		return InvoiceResponse{}, errors.New("a tenant is required to create invoices")
	}
	if !validDate(req.IssueDate) {
		return InvoiceResponse{}, fmt.Errorf("invalid issue_date %q: want YYYY-MM-DD", req.IssueDate)
	}
	if !validDate(req.DueDate) {
		return InvoiceResponse{}, fmt.Errorf("invalid due_date %q: want YYYY-MM-DD", req.DueDate)
	}

	p, err := computePricing(req.Items, req.Subtotal, req.Discount, req.TaxRate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusUnpaid
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	invoiceNo := req.InvoiceNo
	if invoiceNo == "" {
		invoiceNo, err = s.generateInvoiceNo(ctx, tenantID)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to generate invoice number: %w", err)
		}
	}

	invoice := model.Invoice{
		InvoiceNo:       invoiceNo,
		TenantID:        tenantID,
		IssueDate:       req.IssueDate,
		DueDate:         req.DueDate,
		VendorName:      req.VendorName,
		VendorAddress:   req.VendorAddress,
		VendorPhone:     req.VendorPhone,
		VendorEmail:     req.VendorEmail,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Subtotal:        p.subtotal,
		Discount:        p.discount,
		TaxRate:         p.taxRate,
		TaxAmount:       p.taxAmount,
		TotalAmount:     p.total,
		Status:          status,
		Currency:        currency,
		Terms:           req.Terms,
		Items:           p.items,
	}

	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		TenantID: &tenantID,
		ActorID:  &actorID,
		Action:   "CREATE",
		Entity:   "invoice",
		EntityID: invoice.ID.String(),
		Detail:   invoice.InvoiceNo,
	})
	if s.events != nil {
		s.events.BroadcastEvent(EventInvoiceCreated, map[string]string{
			"id":         invoice.ID.String(),
			"invoice_no": invoice.InvoiceNo,
		})
	}

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string, tenantScope uuid.UUID) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID, tenantScope)
	if err != nil {
		return InvoiceResponse{}, errors.New("invoice not found")
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter, tenantScope uuid.UUID) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		TenantID:     tenantScope,
		Status:       filter.Status,
		VendorName:   filter.VendorName,
		CustomerName: filter.CustomerName,
		Archived:     filter.Archived,
		Page:         filter.Page,
		Limit:        filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest, tenantScope uuid.UUID, actorID uuid.UUID) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, invoiceID, tenantScope)
		if findErr != nil {
			return errors.New("invoice not found")
		}
		if invoice.Archived {
			return errors.New("cannot edit an archived invoice")
		}

		if req.IssueDate != nil {
			if !validDate(*req.IssueDate) {
				return fmt.Errorf("invalid issue_date %q: want YYYY-MM-DD", *req.IssueDate)
			}
			invoice.IssueDate = *req.IssueDate
		}
		if req.DueDate != nil {
			if !validDate(*req.DueDate) {
				return fmt.Errorf("invalid due_date %q: want YYYY-MM-DD", *req.DueDate)
			}
			invoice.DueDate = *req.DueDate
		}
		if req.Status != nil {
			switch *req.Status {
			case model.StatusPaid, model.StatusUnpaid, model.StatusOverdue:
				invoice.Status = *req.Status
			default:
				return fmt.Errorf("invalid status %q", *req.Status)
			}
		}
		applyString := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		applyString(&invoice.VendorName, req.VendorName)
		applyString(&invoice.VendorAddress, req.VendorAddress)
		applyString(&invoice.VendorPhone, req.VendorPhone)
		applyString(&invoice.VendorEmail, req.VendorEmail)
		applyString(&invoice.CustomerName, req.CustomerName)
		applyString(&invoice.CustomerAddress, req.CustomerAddress)
		applyString(&invoice.CustomerPhone, req.CustomerPhone)
		applyString(&invoice.CustomerEmail, req.CustomerEmail)
		applyString(&invoice.Currency, req.Currency)
		applyString(&invoice.Terms, req.Terms)

		if len(req.Items) > 0 {
			discount := invoice.Discount.String()
			if req.Discount != nil {
				discount = *req.Discount
			}
			taxRate := invoice.TaxRate.String()
			if req.TaxRate != nil {
				taxRate = *req.TaxRate
			}
			p, pErr := computePricing(req.Items, "", discount, taxRate)
			if pErr != nil {
				return pErr
			}
			for i := range p.items {
				p.items[i].InvoiceID = invoice.ID
			}
			invoice.Items = p.items
			invoice.Subtotal = p.subtotal
			invoice.Discount = p.discount
			invoice.TaxRate = p.taxRate
			invoice.TaxAmount = p.taxAmount
			invoice.TotalAmount = p.total
		}

		return s.invoiceRepo.Update(txCtx, invoice)
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		TenantID: &invoice.TenantID,
		ActorID:  &actorID,
		Action:   "UPDATE",
		Entity:   "invoice",
		EntityID: invoice.ID.String(),
		Detail:   invoice.InvoiceNo,
	})
	if s.events != nil {
		s.events.BroadcastEvent(EventInvoiceUpdated, map[string]string{
			"id":         invoice.ID.String(),
			"invoice_no": invoice.InvoiceNo,
		})
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ArchiveInvoice(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error {
	return s.setArchived(ctx, id, tenantScope, actorID, true)
}

func (s *invoiceService) RestoreInvoice(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error {
	return s.setArchived(ctx, id, tenantScope, actorID, false)
}

func (s *invoiceService) setArchived(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID, archived bool) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	if err := s.invoiceRepo.SetArchived(ctx, invoiceID, tenantScope, archived); err != nil {
		return errors.New("invoice not found")
	}

	action := "ARCHIVE"
	if !archived {
		action = "RESTORE"
	}
	s.audit.Record(ctx, AuditEntry{
		ActorID:  &actorID,
		Action:   action,
		Entity:   "invoice",
		EntityID: invoiceID.String(),
	})
	if s.events != nil {
		s.events.BroadcastEvent(EventInvoiceArchived, map[string]interface{}{
			"id":       invoiceID.String(),
			"archived": archived,
		})
	}
	return nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string, tenantScope uuid.UUID, actorID uuid.UUID) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	if err := s.invoiceRepo.Delete(ctx, invoiceID, tenantScope); err != nil {
		return errors.New("invoice not found")
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:  &actorID,
		Action:   "DELETE",
		Entity:   "invoice",
		EntityID: invoiceID.String(),
	})
	return nil
}

func (s *invoiceService) generateInvoiceNo(ctx context.Context, tenantID uuid.UUID) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, tenantID, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, LineItemResponse{
			LineNumber:  item.LineNumber,
			Description: item.Description,
			Quantity:    item.Quantity.StringFixed(4),
			UnitPrice:   item.UnitPrice.StringFixed(4),
			Amount:      item.Amount.StringFixed(4),
		})
	}

	return InvoiceResponse{
		ID:              inv.ID.String(),
		InvoiceNo:       inv.InvoiceNo,
		TenantID:        inv.TenantID.String(),
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		VendorName:      inv.VendorName,
		VendorAddress:   inv.VendorAddress,
		VendorPhone:     inv.VendorPhone,
		VendorEmail:     inv.VendorEmail,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerPhone:   inv.CustomerPhone,
		CustomerEmail:   inv.CustomerEmail,
		Subtotal:        inv.Subtotal.StringFixed(4),
		Discount:        inv.Discount.StringFixed(4),
		TaxRate:         inv.TaxRate.StringFixed(4),
		TaxAmount:       inv.TaxAmount.StringFixed(4),
		TotalAmount:     inv.TotalAmount.StringFixed(4),
		Status:          inv.Status,
		Currency:        inv.Currency,
		Terms:           inv.Terms,
		Archived:        inv.Archived,
		Items:           items,
		CreatedAt:       inv.CreatedAt.Format(time.RFC3339),
	}
}
