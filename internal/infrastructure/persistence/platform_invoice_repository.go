package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPlatformInvoiceRepository implements billing.PlatformInvoiceRepository
// using GORM. Callers are platform operators; role enforcement happens in
// the application layer, so no datascope filtering applies here.
type GormPlatformInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPlatformInvoiceRepository creates a new GormPlatformInvoiceRepository
func NewGormPlatformInvoiceRepository(db *gorm.DB) *GormPlatformInvoiceRepository {
	return &GormPlatformInvoiceRepository{db: db}
}

// Save creates or updates a platform invoice. A number collision surfaces
// as billing.ErrDuplicateInvoiceNumber.
func (r *GormPlatformInvoiceRepository) Save(ctx context.Context, invoice *billing.PlatformInvoice) error {
	model := models.PlatformInvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return billing.ErrDuplicateInvoiceNumber
		}
		return err
	}
	return nil
}

// FindByID finds a platform invoice by ID
func (r *GormPlatformInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PlatformInvoice, error) {
	var model models.PlatformInvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns platform invoices, paginated
func (r *GormPlatformInvoiceRepository) List(ctx context.Context, query billing.PlatformInvoiceQuery) (shared.Paginated[*billing.PlatformInvoice], error) {
	q := r.db.WithContext(ctx).Model(&models.PlatformInvoiceModel{})

	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.Period != "" {
		q = q.Where("period = ?", query.Period)
	}
	if query.SocietyID != nil {
		q = q.Where("society_id = ?", *query.SocietyID)
	}
	if query.Search != "" {
		keyword := "%" + query.Search + "%"
		q = q.Where("invoice_number ILIKE ? OR society_code ILIKE ?", keyword, keyword)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.PlatformInvoice]{}, err
	}

	sortField := ValidateSortField(query.OrderBy, PlatformInvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(query.OrderDir)

	var invoiceModels []models.PlatformInvoiceModel
	if err := q.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&invoiceModels).Error; err != nil {
		return shared.Paginated[*billing.PlatformInvoice]{}, err
	}

	invoices := make([]*billing.PlatformInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}

	return shared.NewPaginated(invoices, total, query.Page, query.PageSize), nil
}

// UpdatePaid loads the platform invoice under a row lock, applies fn, and
// persists the result in the same transaction
func (r *GormPlatformInvoiceRepository) UpdatePaid(ctx context.Context, id uuid.UUID, fn func(*billing.PlatformInvoice) error) (*billing.PlatformInvoice, error) {
	var updated *billing.PlatformInvoice

	err := runInTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var model models.PlatformInvoiceModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		invoice := model.ToDomain()
		if err := fn(invoice); err != nil {
			return err
		}

		model.FromDomain(invoice)
		if err := tx.Save(&model).Error; err != nil {
			return err
		}

		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RevenueStats summarizes subscription revenue across all societies
func (r *GormPlatformInvoiceRepository) RevenueStats(ctx context.Context) (*billing.PlatformRevenueStats, error) {
	var rows []struct {
		Status billing.InvoiceStatus
		Total  decimal.Decimal
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.PlatformInvoiceModel{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status <> ?", billing.InvoiceStatusCancelled).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &billing.PlatformRevenueStats{
		TotalBilled: decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, row := range rows {
		stats.TotalBilled = stats.TotalBilled.Add(row.Total)
		stats.InvoiceCount += row.Count
		if row.Status == billing.InvoiceStatusPaid {
			stats.Collected = row.Total
			stats.PaidCount = row.Count
		} else {
			stats.Outstanding = stats.Outstanding.Add(row.Total)
		}
	}

	return stats, nil
}

// MonthlyTrend returns per-period billed and collected amounts for the
// most recent months, newest first
func (r *GormPlatformInvoiceRepository) MonthlyTrend(ctx context.Context, months int) ([]billing.MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}

	var rows []struct {
		Period    string
		Billed    decimal.Decimal
		Collected decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.PlatformInvoiceModel{}).
		Select(
			"period, "+
				"COALESCE(SUM(amount), 0) AS billed, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS collected",
			billing.InvoiceStatusPaid,
		).
		Where("status <> ?", billing.InvoiceStatusCancelled).
		Group("period").
		Order("period DESC").
		Limit(months).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	trend := make([]billing.MonthlyRevenue, len(rows))
	for i, row := range rows {
		trend[i] = billing.MonthlyRevenue{
			Period:    row.Period,
			Billed:    row.Billed,
			Collected: row.Collected,
		}
	}
	return trend, nil
}

// TopSocieties ranks societies by collected subscription revenue
func (r *GormPlatformInvoiceRepository) TopSocieties(ctx context.Context, limit int) ([]billing.SocietyRevenue, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []struct {
		SocietyID   uuid.UUID
		SocietyCode string
		Collected   decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.PlatformInvoiceModel{}).
		Select("society_id, society_code, COALESCE(SUM(amount), 0) AS collected").
		Where("status = ?", billing.InvoiceStatusPaid).
		Group("society_id, society_code").
		Order("collected DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ranking := make([]billing.SocietyRevenue, len(rows))
	for i, row := range rows {
		ranking[i] = billing.SocietyRevenue{
			SocietyID:   row.SocietyID,
			SocietyCode: row.SocietyCode,
			Collected:   row.Collected,
		}
	}
	return ranking, nil
}
