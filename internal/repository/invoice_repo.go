package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoscope/internal/model"
)

// InvoiceListFilter narrows the paginated invoice listing. TenantID of
// uuid.Nil means unscoped (Super Admin).
type InvoiceListFilter struct {
	TenantID     uuid.UUID
	Status       string // PAID, UNPAID, OVERDUE or empty for all
	VendorName   string
	CustomerName string
	Archived     *bool
	Page         int
	Limit        int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	CreateBatch(ctx context.Context, invoices []model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ListForInsights(ctx context.Context, tenantID uuid.UUID) ([]model.Invoice, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	SetArchived(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, archived bool) error
	Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
	CountByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) CreateBatch(ctx context.Context, invoices []model.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).CreateInBatches(invoices, 100).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	q := scopeTenant(GetDB(ctx, r.db).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number asc")
	}), tenantID)
	if err := q.First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		q = scopeTenant(q, filter.TenantID)
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.VendorName != "" {
			q = q.Where("vendor_name = ?", filter.VendorName)
		}
		if filter.CustomerName != "" {
			q = q.Where("customer_name = ?", filter.CustomerName)
		}
		if filter.Archived != nil {
			q = q.Where("archived = ?", *filter.Archived)
		}
		return q
	}

	if err := apply(db.Model(&model.Invoice{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	q := apply(db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number asc")
	}))
	if err := q.Order("issue_date desc, created_at desc").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// ListForInsights loads the non-archived invoices the pure aggregation
// pipeline consumes. Line items are not needed there.
func (r *invoiceRepository) ListForInsights(ctx context.Context, tenantID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	q := scopeTenant(GetDB(ctx, r.db), tenantID).Where("archived = ?", false)
	if err := q.Order("created_at asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
}

func (r *invoiceRepository) SetArchived(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, archived bool) error {
	q := scopeTenant(GetDB(ctx, r.db).Model(&model.Invoice{}), tenantID)
	res := q.Where("id = ?", id).Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	q := scopeTenant(GetDB(ctx, r.db), tenantID)
	res := q.Where("id = ?", id).Delete(&model.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepository) CountByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	var count int64
	q := scopeTenant(GetDB(ctx, r.db).Model(&model.Invoice{}), tenantID)
	if err := q.Where("invoice_no LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
