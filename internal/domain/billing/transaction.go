package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
)

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Well-known ledger categories. Category is free text; these are the
// ones the platform writes itself.
const (
	CategoryMaintenance = "Maintenance"
	CategoryPenalty     = "Penalty"
	CategoryAmenity     = "Amenity"
)

// Transaction is one entry in a society's cash ledger. Invoice
// payments produce INCOME entries referencing the invoice by number;
// the reference is a plain string, not a foreign key, so ledger rows
// survive invoice cancellation.
type Transaction struct {
	shared.SocietyAggregateRoot
	Type        TransactionType `gorm:"type:varchar(10);not null;index"`
	Category    string          `gorm:"type:varchar(100);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Mode        PaymentMode     `gorm:"type:varchar(20);not null"`
	TxnDate     time.Time       `gorm:"not null;index"`
	ReferenceNo string          `gorm:"type:varchar(50);index"`
	Description string          `gorm:"type:text"`
	RecordedBy  uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction records a ledger entry
func NewTransaction(
	societyID uuid.UUID,
	txnType TransactionType,
	category string,
	amount valueobject.Money,
	mode PaymentMode,
	txnDate time.Time,
	recordedBy uuid.UUID,
) (*Transaction, error) {
	category = strings.TrimSpace(category)
	if !txnType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TXN_TYPE", "Transaction type must be INCOME or EXPENSE")
	}
	if category == "" || len(category) > 100 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category must be 1-100 characters")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Recording user is required")
	}
	if txnDate.IsZero() {
		txnDate = time.Now()
	}

	return &Transaction{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		Type:                 txnType,
		Category:             category,
		Amount:               amount.Amount(),
		Mode:                 mode,
		TxnDate:              txnDate,
		RecordedBy:           recordedBy,
	}, nil
}

// NewMaintenanceIncome records the income entry produced by an invoice
// payment. The invoice number travels as a loose reference string.
func NewMaintenanceIncome(inv *Invoice, recordedBy uuid.UUID) (*Transaction, error) {
	if !inv.IsPaid() || inv.PaymentMode == nil || inv.PaidDate == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Income entry requires a paid invoice")
	}

	txn, err := NewTransaction(
		inv.SocietyID,
		TransactionTypeIncome,
		CategoryMaintenance,
		valueobject.NewMoneyINR(inv.Amount),
		*inv.PaymentMode,
		*inv.PaidDate,
		recordedBy,
	)
	if err != nil {
		return nil, err
	}

	txn.ReferenceNo = inv.InvoiceNumber
	txn.Description = "Maintenance payment for unit " + inv.UnitLabel + ", period " + inv.Period
	return txn, nil
}

// SetDescription sets the free-text description
func (t *Transaction) SetDescription(description string) {
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetReference sets the loose document reference
func (t *Transaction) SetReference(referenceNo string) error {
	if len(referenceNo) > 50 {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 50 characters")
	}
	t.ReferenceNo = referenceNo
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// AmountMoney returns the transaction amount as Money
func (t *Transaction) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(t.Amount)
}

// IsIncome returns true for INCOME entries
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}
