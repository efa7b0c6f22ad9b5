package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/infrastructure/persistence/datascope"
	"github.com/societyos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice. A number collision surfaces as
// billing.ErrDuplicateInvoiceNumber so the caller can regenerate and retry.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return billing.ErrDuplicateInvoiceNumber
		}
		return err
	}
	return nil
}

// SaveWithLock saves the invoice with optimistic locking
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return runInTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var current models.InvoiceModel
		if err := tx.Select("version").Where("id = ?", invoice.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// New record, just save
				model := models.InvoiceModelFromDomain(invoice)
				if err := tx.Create(model).Error; err != nil {
					if isDuplicateKeyErr(err) {
						return billing.ErrDuplicateInvoiceNumber
					}
					return err
				}
				return nil
			}
			return err
		}

		// Domain model already incremented the version
		expectedVersion := invoice.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Invoice has been modified by another user")
		}

		model := models.InvoiceModelFromDomain(invoice)
		result := tx.Model(model).
			Where("id = ? AND version = ?", invoice.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Invoice has been modified by another user")
		}
		return nil
	})
}

// CreateBatch inserts a full billing cycle in one transaction. Either
// every invoice lands or none do; the first number collision aborts the
// batch with billing.ErrDuplicateInvoiceNumber.
func (r *GormInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	return runInTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		for _, invoice := range invoices {
			model := models.InvoiceModelFromDomain(invoice)
			if err := tx.Create(model).Error; err != nil {
				if isDuplicateKeyErr(err) {
					return billing.ErrDuplicateInvoiceNumber
				}
				return err
			}
		}
		return nil
	})
}

// FindByID finds an invoice visible to the caller. Invisible and absent
// invoices are indistinguishable: both read as not found.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceInvoice)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its number within the caller's visibility
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, access identity.AccessContext, number string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceInvoice)).
		Where("invoice_number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns invoices visible to the caller, paginated
func (r *GormInvoiceRepository) List(ctx context.Context, access identity.AccessContext, query billing.InvoiceQuery) (shared.Paginated[*billing.Invoice], error) {
	q := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(datascope.Scope(access, datascope.ResourceInvoice))

	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.Period != "" {
		q = q.Where("period = ?", query.Period)
	}
	if query.UnitID != nil {
		q = q.Where("unit_id = ?", *query.UnitID)
	}
	if query.ResidentID != nil {
		q = q.Where("resident_id = ?", *query.ResidentID)
	}
	if query.Search != "" {
		keyword := "%" + query.Search + "%"
		q = q.Where("invoice_number ILIKE ? OR unit_label ILIKE ?", keyword, keyword)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.Invoice]{}, err
	}

	sortField := ValidateSortField(query.OrderBy, InvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(query.OrderDir)

	var invoiceModels []models.InvoiceModel
	if err := q.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&invoiceModels).Error; err != nil {
		return shared.Paginated[*billing.Invoice]{}, err
	}

	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}

	return shared.NewPaginated(invoices, total, query.Page, query.PageSize), nil
}

// ExistsForPeriod reports whether the society already has any
// non-cancelled invoice for the period
func (r *GormInvoiceRepository) ExistsForPeriod(ctx context.Context, societyID uuid.UUID, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("society_id = ? AND period = ? AND status <> ?", societyID, period, billing.InvoiceStatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdatePaid loads the invoice under a row lock, applies fn, and persists
// the result in the same transaction. Concurrent payment attempts
// serialize on the row lock, so the second caller sees the already-paid
// state and fn rejects it.
func (r *GormInvoiceRepository) UpdatePaid(ctx context.Context, access identity.AccessContext, id uuid.UUID, fn func(*billing.Invoice) error) (*billing.Invoice, error) {
	var updated *billing.Invoice

	err := runInTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var model models.InvoiceModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(datascope.Scope(access, datascope.ResourceInvoice)).
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

// ReconcilePayment marks the invoice paid and appends the matching INCOME
// ledger entry in one transaction. The row lock serializes concurrent
// payment attempts; the loser reloads the paid invoice and fails with
// ALREADY_PAID before anything is written.
func (r *GormInvoiceRepository) ReconcilePayment(ctx context.Context, access identity.AccessContext, id uuid.UUID, mode billing.PaymentMode, recordedBy uuid.UUID) (*billing.Invoice, *billing.Transaction, error) {
	var (
		updated *billing.Invoice
		entry   *billing.Transaction
	)

	err := runInTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var model models.InvoiceModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(datascope.Scope(access, datascope.ResourceInvoice)).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		invoice := model.ToDomain()
		if err := invoice.MarkPaid(mode, time.Now()); err != nil {
			return err
		}

		model.FromDomain(invoice)
		if err := tx.Save(&model).Error; err != nil {
			return err
		}

		txn, err := billing.NewMaintenanceIncome(invoice, recordedBy)
		if err != nil {
			return err
		}
		if err := tx.Create(models.TransactionModelFromDomain(txn)).Error; err != nil {
			return err
		}

		updated = invoice
		entry = txn
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, entry, nil
}

// MarkOverdueBefore flags all pending invoices of the society past due as
// of now. Returns the number of invoices flagged.
func (r *GormInvoiceRepository) MarkOverdueBefore(ctx context.Context, societyID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("society_id = ? AND status = ? AND due_date < ?", societyID, billing.InvoiceStatusPending, now).
		Updates(map[string]interface{}{
			"status":     billing.InvoiceStatusOverdue,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// invoiceStatusRow is one row of the grouped stats query
type invoiceStatusRow struct {
	Status billing.InvoiceStatus
	Total  decimal.Decimal
	Count  int64
}

// Stats re-derives billing aggregates with a grouped query over every
// invoice the caller can see. An empty period spans all periods; a
// non-empty period narrows the aggregate to that month. Cancelled
// invoices are excluded entirely.
func (r *GormInvoiceRepository) Stats(ctx context.Context, access identity.AccessContext, period string) (*billing.InvoiceStats, error) {
	q := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(datascope.Scope(access, datascope.ResourceInvoice)).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status <> ?", billing.InvoiceStatusCancelled)
	if period != "" {
		q = q.Where("period = ?", period)
	}

	var rows []invoiceStatusRow
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &billing.InvoiceStats{
		Period:      period,
		TotalBilled: decimal.Zero,
		Collected:   decimal.Zero,
		Pending:     decimal.Zero,
		Overdue:     decimal.Zero,
	}

	for _, row := range rows {
		stats.TotalBilled = stats.TotalBilled.Add(row.Total)
		stats.TotalCount += row.Count

		switch row.Status {
		case billing.InvoiceStatusPaid:
			stats.Collected = row.Total
			stats.PaidCount = row.Count
		case billing.InvoiceStatusPending:
			stats.Pending = row.Total
			stats.PendingCount = row.Count
		case billing.InvoiceStatusOverdue:
			stats.Overdue = row.Total
			stats.OverdueCount = row.Count
		}
	}

	return stats, nil
}
