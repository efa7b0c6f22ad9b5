package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	societyID := uuid.New()
	recordedBy := uuid.New()
	amount := valueobject.NewMoneyINRFromFloat(1200)

	t.Run("valid expense", func(t *testing.T) {
		txn, err := NewTransaction(societyID, TransactionTypeExpense, "Security", amount, PaymentModeBankTransfer, time.Now(), recordedBy)
		require.NoError(t, err)
		assert.Equal(t, TransactionTypeExpense, txn.Type)
		assert.False(t, txn.IsIncome())
		assert.Equal(t, societyID, txn.GetSocietyID())
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := NewTransaction(societyID, TransactionType("TRANSFER"), "Misc", amount, PaymentModeCash, time.Now(), recordedBy)
		assert.Error(t, err)
	})

	t.Run("empty category rejected", func(t *testing.T) {
		_, err := NewTransaction(societyID, TransactionTypeIncome, "  ", amount, PaymentModeCash, time.Now(), recordedBy)
		assert.Error(t, err)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := NewTransaction(societyID, TransactionTypeIncome, "Misc", valueobject.ZeroINR(), PaymentModeCash, time.Now(), recordedBy)
		assert.Error(t, err)
	})

	t.Run("missing recorder rejected", func(t *testing.T) {
		_, err := NewTransaction(societyID, TransactionTypeIncome, "Misc", amount, PaymentModeCash, time.Now(), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestNewMaintenanceIncome(t *testing.T) {
	recordedBy := uuid.New()

	t.Run("paid invoice produces income entry", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.MarkPaid(PaymentModeUPI, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)))

		txn, err := NewMaintenanceIncome(inv, recordedBy)
		require.NoError(t, err)
		assert.Equal(t, TransactionTypeIncome, txn.Type)
		assert.Equal(t, CategoryMaintenance, txn.Category)
		assert.Equal(t, inv.InvoiceNumber, txn.ReferenceNo, "invoice travels as a loose reference")
		assert.True(t, txn.Amount.Equal(inv.Amount))
		assert.Equal(t, PaymentModeUPI, txn.Mode)
		assert.Equal(t, inv.GetSocietyID(), txn.GetSocietyID())
	})

	t.Run("unpaid invoice rejected", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := NewMaintenanceIncome(inv, recordedBy)
		assert.Error(t, err)
	})
}

func TestTransactionSetReference(t *testing.T) {
	txn, err := NewTransaction(uuid.New(), TransactionTypeIncome, "Amenity", valueobject.NewMoneyINRFromFloat(500), PaymentModeCard, time.Now(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, txn.SetReference("INV-202609-A101-0042"))
	assert.Equal(t, "INV-202609-A101-0042", txn.ReferenceNo)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	assert.Error(t, txn.SetReference(string(long)))
}
