package billing

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of a maintenance invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"   // Raised, awaiting payment
	InvoiceStatusPaid      InvoiceStatus = "PAID"      // Payment received
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"   // Past due date, unpaid
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED" // Voided before payment
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanPay returns true if a payment can be recorded in this status
func (s InvoiceStatus) CanPay() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// PaymentMode represents how a payment was made
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeOnline       PaymentMode = "ONLINE"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeUPI,
		PaymentModeBankTransfer, PaymentModeCard, PaymentModeOnline:
		return true
	}
	return false
}

// Invoice represents a maintenance invoice raised against a unit for
// one billing period. It is the aggregate root for payment operations.
type Invoice struct {
	shared.SocietyAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	UnitID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitLabel     string          `gorm:"type:varchar(20);not null"`
	ResidentID    *uuid.UUID      `gorm:"type:uuid;index"`
	Period        string          `gorm:"type:varchar(7);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DueDate       time.Time       `gorm:"not null"`
	PaidDate      *time.Time
	PaymentMode   *PaymentMode `gorm:"type:varchar(20)"`
	Remark        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice raises a new invoice against a unit for a billing period
func NewInvoice(
	societyID uuid.UUID,
	unitID uuid.UUID,
	unitLabel string,
	residentID *uuid.UUID,
	period Period,
	amount valueobject.Money,
	dueDate time.Time,
) (*Invoice, error) {
	unitLabel = strings.TrimSpace(unitLabel)
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if unitLabel == "" || len(unitLabel) > 20 {
		return nil, shared.NewDomainError("INVALID_UNIT_LABEL", "Unit label must be 1-20 characters")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period is required")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	inv := &Invoice{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		InvoiceNumber:        NewInvoiceNumber(period, unitLabel),
		UnitID:               unitID,
		UnitLabel:            unitLabel,
		ResidentID:           residentID,
		Period:               period.String(),
		Amount:               amount.Amount(),
		Status:               InvoiceStatusPending,
		DueDate:              dueDate,
	}

	inv.AddDomainEvent(NewInvoiceRaisedEvent(inv))

	return inv, nil
}

// NewInvoiceNumber builds an invoice number of the form
// INV-<YYYYMM>-<unit label>-<4-digit suffix>. The suffix is random, so
// a unique-index collision is resolved by calling RegenerateNumber.
func NewInvoiceNumber(period Period, unitLabel string) string {
	return fmt.Sprintf("INV-%s-%s-%s", period.YearMonth(), unitLabel, randomDigits(4))
}

// RegenerateNumber replaces the invoice number with a fresh suffix.
// Used when the previous number collided with an existing invoice.
func (i *Invoice) RegenerateNumber() {
	period, err := ParsePeriod(i.Period)
	if err != nil {
		return
	}
	i.InvoiceNumber = NewInvoiceNumber(period, i.UnitLabel)
}

func randomDigits(width int) string {
	limit := big.NewInt(1)
	for range width {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % limit.Int64())
	}
	return fmt.Sprintf("%0*d", width, n.Int64())
}

// AmountMoney returns the invoice amount as Money
func (i *Invoice) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(i.Amount)
}

// MarkPaid records a successful payment. A paid invoice rejects a
// second payment so concurrent callers cannot double-collect.
func (i *Invoice) MarkPaid(mode PaymentMode, paidAt time.Time) error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Invoice %s is already paid", i.InvoiceNumber))
	}
	if !i.Status.CanPay() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay invoice in %s status", i.Status))
	}
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	i.Status = InvoiceStatusPaid
	i.PaidDate = &paidAt
	i.PaymentMode = &mode
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// MarkOverdue flags a pending invoice that has passed its due date
func (i *Invoice) MarkOverdue(now time.Time) error {
	if i.Status != InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status overdue", i.Status))
	}
	if now.Before(i.DueDate) {
		return shared.NewDomainError("NOT_DUE", "Invoice due date has not passed")
	}

	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceOverdueEvent(i))

	return nil
}

// Cancel voids an unpaid invoice
func (i *Invoice) Cancel(reason string) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", i.Status))
	}

	i.Status = InvoiceStatusCancelled
	i.Remark = reason
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceCancelledEvent(i, reason))

	return nil
}

// IsPaid returns true if the invoice has been paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOverdue returns true if the invoice is flagged overdue
func (i *Invoice) IsOverdue() bool {
	return i.Status == InvoiceStatusOverdue
}
