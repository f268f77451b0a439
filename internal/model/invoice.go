package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice status constants
const (
	StatusPaid    = "PAID"
	StatusUnpaid  = "UNPAID"
	StatusOverdue = "OVERDUE"
)

// DateLayout is the calendar-date format invoices carry on the wire and at
// rest. Issue and due dates are stored as raw strings because imported
// feeds occasionally ship malformed values; those rows are kept as-is and
// excluded by the insight pipeline.
const DateLayout = "2006-01-02"

// Invoice represents a billing document owned by exactly one tenant.
// Invariant: TotalAmount = Subtotal - Discount + TaxAmount, enforced at
// create/update time by the service layer.
type Invoice struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo       string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_tenant_invoice_no" json:"invoice_no"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_tenant_invoice_no" json:"tenant_id"`
	Tenant          *Tenant         `gorm:"foreignKey:TenantID" json:"-"`
	IssueDate       string          `gorm:"type:varchar(10);index" json:"issue_date"` // YYYY-MM-DD
	DueDate         string          `gorm:"type:varchar(10)" json:"due_date"`         // YYYY-MM-DD
	VendorName      string          `gorm:"type:varchar(255);index" json:"vendor_name"`
	VendorAddress   string          `gorm:"type:text" json:"vendor_address"`
	VendorPhone     string          `gorm:"type:varchar(50)" json:"vendor_phone"`
	VendorEmail     string          `gorm:"type:varchar(255)" json:"vendor_email"`
	CustomerName    string          `gorm:"type:varchar(255);index" json:"customer_name"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	CustomerPhone   string          `gorm:"type:varchar(50)" json:"customer_phone"`
	CustomerEmail   string          `gorm:"type:varchar(255)" json:"customer_email"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"tax_rate"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Status          string          `gorm:"type:varchar(20);not null;default:'UNPAID';index" json:"status"` // PAID, UNPAID, OVERDUE
	Currency        string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Items           []LineItem      `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE;" json:"items"`
	Terms           string          `gorm:"type:text" json:"terms"`
	Archived        bool            `gorm:"default:false;index" json:"archived"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// LineItem is one ordered line of an invoice.
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineNumber  int             `gorm:"not null" json:"line_number"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
}
