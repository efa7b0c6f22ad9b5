package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredTransaction(t *testing.T, repo *GormTransactionRepository, societyID uuid.UUID, txnType billing.TransactionType, category string, amount int64, txnDate time.Time) *billing.Transaction {
	t.Helper()

	txn, err := billing.NewTransaction(
		societyID, txnType, category,
		valueobject.NewMoneyINR(decimal.NewFromInt(amount)),
		billing.PaymentModeCash, txnDate, uuid.New(),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), txn))
	return txn
}

func TestTransactionRepositoryLedger(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	societyID := uuid.New()
	june := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	july := time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)

	newStoredTransaction(t, repo, societyID, billing.TransactionTypeIncome, billing.CategoryMaintenance, 1500, june)
	newStoredTransaction(t, repo, societyID, billing.TransactionTypeIncome, billing.CategoryAmenity, 500, july)
	newStoredTransaction(t, repo, societyID, billing.TransactionTypeExpense, "Security", 800, july)
	newStoredTransaction(t, repo, uuid.New(), billing.TransactionTypeIncome, billing.CategoryMaintenance, 9999, july)

	admin := societyAccess(t, identity.RoleAccountant, societyID)

	t.Run("summary derives cash position for the range", func(t *testing.T) {
		summary, err := repo.Summary(ctx, admin,
			time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, summary.Income.Equal(decimal.NewFromInt(2000)), "got %s", summary.Income)
		assert.True(t, summary.Expense.Equal(decimal.NewFromInt(800)), "got %s", summary.Expense)
		assert.True(t, summary.Net.Equal(decimal.NewFromInt(1200)), "got %s", summary.Net)
	})

	t.Run("summary respects the date range", func(t *testing.T) {
		summary, err := repo.Summary(ctx, admin,
			time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, summary.Income.Equal(decimal.NewFromInt(1500)))
		assert.True(t, summary.Expense.IsZero())
	})

	t.Run("list filters by type and category", func(t *testing.T) {
		page, err := repo.List(ctx, admin, billing.TransactionQuery{
			Filter: shared.DefaultFilter(),
			Type:   billing.TransactionTypeIncome,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		page, err = repo.List(ctx, admin, billing.TransactionQuery{
			Filter:   shared.DefaultFilter(),
			Category: "Security",
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Total)
		assert.Equal(t, billing.TransactionTypeExpense, page.Items[0].Type)
	})

	t.Run("list filters by date range", func(t *testing.T) {
		from := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
		page, err := repo.List(ctx, admin, billing.TransactionQuery{
			Filter: shared.DefaultFilter(),
			From:   &from,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})
}

func TestTransactionRepositoryInvoiceReference(t *testing.T) {
	db := setupBillingTestDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	societyID := uuid.New()
	period := billing.Period{Year: 2026, Month: time.August}
	recordedBy := uuid.New()

	inv := newStoredInvoice(t, invoiceRepo, societyID, nil, period, 1500)
	require.NoError(t, inv.MarkPaid(billing.PaymentModeUPI, time.Now()))
	require.NoError(t, invoiceRepo.Save(ctx, inv))

	txn, err := billing.NewMaintenanceIncome(inv, recordedBy)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, txn))

	admin := societyAccess(t, identity.RoleAccountant, societyID)

	t.Run("entry found by loose invoice reference", func(t *testing.T) {
		entries, err := repo.FindByReference(ctx, admin, inv.InvoiceNumber)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, billing.CategoryMaintenance, entries[0].Category)
		assert.True(t, entries[0].Amount.Equal(inv.Amount))
	})

	t.Run("ledger entry survives invoice cancellation", func(t *testing.T) {
		// Cancelling a paid invoice is rejected, so simulate the
		// document disappearing entirely.
		require.NoError(t, db.Exec("DELETE FROM invoices WHERE id = ?", inv.GetID()).Error)

		entries, err := repo.FindByReference(ctx, admin, inv.InvoiceNumber)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
