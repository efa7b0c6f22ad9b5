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
)

// GormTransactionRepository implements billing.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save creates or updates a ledger entry
func (r *GormTransactionRepository) Save(ctx context.Context, txn *billing.Transaction) error {
	model := models.TransactionModelFromDomain(txn)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a ledger entry visible to the caller
func (r *GormTransactionRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*billing.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceTransaction)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds ledger entries carrying the given document
// reference. The reference is a loose string, so several entries may
// share one (e.g. a payment and its later correction).
func (r *GormTransactionRepository) FindByReference(ctx context.Context, access identity.AccessContext, referenceNo string) ([]*billing.Transaction, error) {
	var txnModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.Scope(access, datascope.ResourceTransaction)).
		Where("reference_no = ?", referenceNo).
		Order("txn_date ASC").
		Find(&txnModels).Error; err != nil {
		return nil, err
	}

	txns := make([]*billing.Transaction, len(txnModels))
	for i := range txnModels {
		txns[i] = txnModels[i].ToDomain()
	}
	return txns, nil
}

// List returns ledger entries visible to the caller, paginated
func (r *GormTransactionRepository) List(ctx context.Context, access identity.AccessContext, query billing.TransactionQuery) (shared.Paginated[*billing.Transaction], error) {
	q := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Scopes(datascope.Scope(access, datascope.ResourceTransaction))

	if query.Type != "" {
		q = q.Where("type = ?", query.Type)
	}
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.From != nil {
		q = q.Where("txn_date >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("txn_date <= ?", *query.To)
	}
	if query.Search != "" {
		keyword := "%" + query.Search + "%"
		q = q.Where("description ILIKE ? OR reference_no ILIKE ?", keyword, keyword)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.Transaction]{}, err
	}

	sortField := ValidateSortField(query.OrderBy, TransactionSortFields, "txn_date")
	sortOrder := ValidateSortOrder(query.OrderDir)

	var txnModels []models.TransactionModel
	if err := q.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&txnModels).Error; err != nil {
		return shared.Paginated[*billing.Transaction]{}, err
	}

	txns := make([]*billing.Transaction, len(txnModels))
	for i := range txnModels {
		txns[i] = txnModels[i].ToDomain()
	}

	return shared.NewPaginated(txns, total, query.Page, query.PageSize), nil
}

// Summary re-derives the society's cash position over a date range from
// ledger rows
func (r *GormTransactionRepository) Summary(ctx context.Context, access identity.AccessContext, from, to time.Time) (*billing.LedgerSummary, error) {
	var rows []struct {
		Type  billing.TransactionType
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Scopes(datascope.Scope(access, datascope.ResourceTransaction)).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("txn_date >= ? AND txn_date <= ?", from, to).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &billing.LedgerSummary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Type {
		case billing.TransactionTypeIncome:
			summary.Income = row.Total
		case billing.TransactionTypeExpense:
			summary.Expense = row.Total
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)

	return summary, nil
}
