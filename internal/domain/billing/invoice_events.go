package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceRaised    = "InvoiceRaised"
	EventTypeInvoicePaid      = "InvoicePaid"
	EventTypeInvoiceOverdue   = "InvoiceOverdue"
	EventTypeInvoiceCancelled = "InvoiceCancelled"
)

// InvoiceRaisedEvent is published when a new invoice is raised
type InvoiceRaisedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	UnitLabel     string          `json:"unit_label"`
	Period        string          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
}

// NewInvoiceRaisedEvent creates a new InvoiceRaisedEvent
func NewInvoiceRaisedEvent(inv *Invoice) *InvoiceRaisedEvent {
	return &InvoiceRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRaised, AggregateTypeInvoice, inv.ID, inv.SocietyID),
		InvoiceNumber:   inv.InvoiceNumber,
		UnitLabel:       inv.UnitLabel,
		Period:          inv.Period,
		Amount:          inv.Amount,
		DueDate:         inv.DueDate,
	}
}

// InvoicePaidEvent is published when an invoice payment is recorded
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   PaymentMode     `json:"payment_mode"`
	PaidDate      time.Time       `json:"paid_date"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	evt := &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.SocietyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          inv.Amount,
	}
	if inv.PaymentMode != nil {
		evt.PaymentMode = *inv.PaymentMode
	}
	if inv.PaidDate != nil {
		evt.PaidDate = *inv.PaidDate
	}
	return evt
}

// InvoiceOverdueEvent is published when an invoice passes its due date unpaid
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID, inv.SocietyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Amount:          inv.Amount,
		DueDate:         inv.DueDate,
	}
}

// InvoiceCancelledEvent is published when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason,omitempty"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, reason string) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID, inv.SocietyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          reason,
	}
}
