package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoscope/internal/model"
)

// validDateExpr keeps SQL date arithmetic away from malformed issue dates;
// those rows are preserved at rest and simply left out of trend queries,
// matching the insight pipeline's drop policy.
const validDateExpr = `issue_date ~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}$'`

// AnalyticsRepository runs the read-side aggregation queries the
// Analytics Summary Transformer consumes. TenantID of uuid.Nil means
// unscoped (Super Admin).
type AnalyticsRepository interface {
	Summary(ctx context.Context, tenantID uuid.UUID) (model.SummaryStats, error)
	StatusDistribution(ctx context.Context, tenantID uuid.UUID) ([]model.StatusCount, error)
	MonthlyTrends(ctx context.Context, tenantID uuid.UUID, year int) ([]model.MonthlyTrendRow, error)
	TopVendors(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.EntityTotalRow, error)
	TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.EntityTotalRow, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) base(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	q := GetDB(ctx, r.db).Model(&model.Invoice{}).Where("archived = ?", false)
	return scopeTenant(q, tenantID)
}

func (r *analyticsRepository) Summary(ctx context.Context, tenantID uuid.UUID) (model.SummaryStats, error) {
	var stats model.SummaryStats
	err := r.base(ctx, tenantID).
		Select(`
			COUNT(*) AS total_invoices,
			COUNT(*) FILTER (WHERE status = ?) AS paid_count,
			COUNT(*) FILTER (WHERE status = ?) AS unpaid_count,
			COUNT(*) FILTER (WHERE status = ?) AS overdue_count,
			COALESCE(SUM(total_amount), 0) AS total_amount,
			COALESCE(SUM(total_amount) FILTER (WHERE status = ?), 0) AS paid_amount,
			COALESCE(SUM(total_amount) FILTER (WHERE status != ?), 0) AS unpaid_amount`,
			model.StatusPaid, model.StatusUnpaid, model.StatusOverdue,
			model.StatusPaid, model.StatusPaid).
		Scan(&stats).Error
	return stats, err
}

func (r *analyticsRepository) StatusDistribution(ctx context.Context, tenantID uuid.UUID) ([]model.StatusCount, error) {
	var rows []model.StatusCount
	err := r.base(ctx, tenantID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) MonthlyTrends(ctx context.Context, tenantID uuid.UUID, year int) ([]model.MonthlyTrendRow, error) {
	var rows []model.MonthlyTrendRow
	err := r.base(ctx, tenantID).
		Select(`
			CAST(SUBSTRING(issue_date FROM 6 FOR 2) AS INT) AS month,
			COUNT(*) AS count,
			COALESCE(SUM(total_amount), 0) AS total_amount`).
		Where(validDateExpr).
		Where("SUBSTRING(issue_date FROM 1 FOR 4) = ?", fmt.Sprintf("%04d", year)).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopVendors(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.EntityTotalRow, error) {
	return r.topBy(ctx, tenantID, "vendor_name", limit)
}

func (r *analyticsRepository) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.EntityTotalRow, error) {
	return r.topBy(ctx, tenantID, "customer_name", limit)
}

func (r *analyticsRepository) topBy(ctx context.Context, tenantID uuid.UUID, column string, limit int) ([]model.EntityTotalRow, error) {
	var rows []model.EntityTotalRow
	err := r.base(ctx, tenantID).
		Select(column + ` AS name, COUNT(*) AS invoice_count, COALESCE(SUM(total_amount), 0) AS total_amount`).
		Group(column).
		Order("total_amount DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
