package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
)

// PlatformInvoice represents the platform billing a society for its
// subscription. It is not society-scoped data: only platform operators
// see these, so it embeds the plain aggregate root and carries the
// billed society as an ordinary field.
type PlatformInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SocietyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SocietyCode   string          `gorm:"type:varchar(20);not null"`
	Period        string          `gorm:"type:varchar(7);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DueDate       time.Time       `gorm:"not null"`
	PaidDate      *time.Time
	PaymentMode   *PaymentMode `gorm:"type:varchar(20)"`
	Remark        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PlatformInvoice) TableName() string {
	return "platform_invoices"
}

// NewPlatformInvoice bills a society for one period
func NewPlatformInvoice(
	societyID uuid.UUID,
	societyCode string,
	period Period,
	amount valueobject.Money,
	dueDate time.Time,
) (*PlatformInvoice, error) {
	if societyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society ID cannot be empty")
	}
	if societyCode == "" {
		return nil, shared.NewDomainError("INVALID_SOCIETY", "Society code cannot be empty")
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

	return &PlatformInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     NewPlatformInvoiceNumber(period, societyCode),
		SocietyID:         societyID,
		SocietyCode:       societyCode,
		Period:            period.String(),
		Amount:            amount.Amount(),
		Status:            InvoiceStatusPending,
		DueDate:           dueDate,
	}, nil
}

// NewPlatformInvoiceNumber builds a number of the form
// PINV-<YYYYMM>-<society code>-<4-digit suffix>
func NewPlatformInvoiceNumber(period Period, societyCode string) string {
	return fmt.Sprintf("PINV-%s-%s-%s", period.YearMonth(), societyCode, randomDigits(4))
}

// RegenerateNumber replaces the invoice number with a fresh suffix
// after a unique-index collision
func (p *PlatformInvoice) RegenerateNumber() {
	period, err := ParsePeriod(p.Period)
	if err != nil {
		return
	}
	p.InvoiceNumber = NewPlatformInvoiceNumber(period, p.SocietyCode)
}

// AmountMoney returns the invoice amount as Money
func (p *PlatformInvoice) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Amount)
}

// MarkPaid records a payment; a second payment is rejected
func (p *PlatformInvoice) MarkPaid(mode PaymentMode, paidAt time.Time) error {
	if p.Status == InvoiceStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Invoice %s is already paid", p.InvoiceNumber))
	}
	if !p.Status.CanPay() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay invoice in %s status", p.Status))
	}
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	p.Status = InvoiceStatusPaid
	p.PaidDate = &paidAt
	p.PaymentMode = &mode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// MarkOverdue flags a pending invoice past its due date
func (p *PlatformInvoice) MarkOverdue(now time.Time) error {
	if p.Status != InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status overdue", p.Status))
	}
	if now.Before(p.DueDate) {
		return shared.NewDomainError("NOT_DUE", "Invoice due date has not passed")
	}

	p.Status = InvoiceStatusOverdue
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Cancel voids an unpaid invoice
func (p *PlatformInvoice) Cancel(reason string) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", p.Status))
	}

	p.Status = InvoiceStatusCancelled
	p.Remark = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}
