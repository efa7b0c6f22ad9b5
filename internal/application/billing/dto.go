package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
)

// ChargeSchedule describes how one billing cycle prices its invoices:
// every unit in the cycle is billed Maintenance plus Utility. LateFee
// is the penalty a society may apply to overdue invoices and is
// validated here for later use.
type ChargeSchedule struct {
	Maintenance decimal.Decimal
	Utility     decimal.Decimal
	LateFee     decimal.Decimal
}

// Total returns the amount each invoice in the cycle bills
func (s ChargeSchedule) Total() decimal.Decimal {
	return s.Maintenance.Add(s.Utility)
}

// Validate checks the schedule's amounts. A schedule that bills
// nothing is rejected here, before any unit is enumerated.
func (s ChargeSchedule) Validate() error {
	if s.Maintenance.IsNegative() || s.Utility.IsNegative() || s.LateFee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Schedule amounts cannot be negative")
	}
	if !s.Total().IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Schedule must bill a positive amount")
	}
	return nil
}

// GenerateCycleInput requests invoice generation for one period
type GenerateCycleInput struct {
	SocietyID *uuid.UUID // required for platform callers, ignored otherwise
	Period    string     // "YYYY-MM"
	Block     string     // optional: restrict the cycle to one block
	DueDate   *time.Time // optional: overrides the configured grace days
	Schedule  ChargeSchedule
}

// CreateInvoiceInput raises a single ad-hoc invoice against one unit
type CreateInvoiceInput struct {
	SocietyID *uuid.UUID
	UnitID    uuid.UUID
	Period    string
	Amount    decimal.Decimal // zero falls back to the unit's monthly charge
	DueDate   *time.Time
}

// PayInvoiceInput records a payment against an invoice
type PayInvoiceInput struct {
	InvoiceNumber string
	Mode          billing.PaymentMode
}

// RecordTransactionInput appends a manual ledger entry
type RecordTransactionInput struct {
	SocietyID   *uuid.UUID
	Category    string
	Amount      decimal.Decimal
	Mode        billing.PaymentMode
	TxnDate     time.Time
	ReferenceNo string
	Description string
}

// resolveSocietyID picks the society an operation targets: society
// roles always act on their own society, platform operators must name
// one explicitly.
func resolveSocietyID(access identity.AccessContext, explicit *uuid.UUID) (uuid.UUID, error) {
	if !access.Role.IsPlatform() {
		return access.RequireSociety()
	}
	if explicit == nil || *explicit == uuid.Nil {
		return uuid.Nil, shared.NewDomainError("MISSING_SOCIETY", "Platform operators must specify a society")
	}
	return *explicit, nil
}
