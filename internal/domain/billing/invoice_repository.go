package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
)

// ErrDuplicateInvoiceNumber signals a unique-index collision on the
// invoice number. Callers regenerate the suffix and retry; every other
// storage failure is non-retryable.
var ErrDuplicateInvoiceNumber = shared.NewDomainError("DUPLICATE_INVOICE_NUMBER", "Invoice number already exists")

// InvoiceQuery narrows invoice listings
type InvoiceQuery struct {
	shared.Filter
	Status     InvoiceStatus
	Period     string
	UnitID     *uuid.UUID
	ResidentID *uuid.UUID
}

// InvoiceStats is the billing aggregate a society's dashboard shows.
// All sums are recomputed from invoice rows, never cached. Period is
// empty when the aggregate spans every period.
type InvoiceStats struct {
	Period       string          `json:"period,omitempty"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
	Collected    decimal.Decimal `json:"collected"`
	Pending      decimal.Decimal `json:"pending"`
	Overdue      decimal.Decimal `json:"overdue"`
	TotalCount   int64           `json:"total_count"`
	PaidCount    int64           `json:"paid_count"`
	PendingCount int64           `json:"pending_count"`
	OverdueCount int64           `json:"overdue_count"`
}

// InvoiceRepository defines the persistence contract for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// CreateBatch inserts a full billing cycle in one transaction.
	// Either every invoice lands or none do. A number collision
	// surfaces as ErrDuplicateInvoiceNumber.
	CreateBatch(ctx context.Context, invoices []*Invoice) error

	FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, access identity.AccessContext, number string) (*Invoice, error)
	List(ctx context.Context, access identity.AccessContext, query InvoiceQuery) (shared.Paginated[*Invoice], error)

	// ExistsForPeriod reports whether the society already has any
	// non-cancelled invoice for the period.
	ExistsForPeriod(ctx context.Context, societyID uuid.UUID, period string) (bool, error)

	// UpdatePaid loads the invoice under a row lock, applies fn, and
	// persists the result in the same transaction. Concurrent payment
	// attempts serialize here.
	UpdatePaid(ctx context.Context, access identity.AccessContext, id uuid.UUID, fn func(*Invoice) error) (*Invoice, error)

	// ReconcilePayment marks the invoice paid and appends the matching
	// INCOME ledger entry in one transaction. Both writes commit or both
	// roll back; a second payment attempt fails with ALREADY_PAID.
	ReconcilePayment(ctx context.Context, access identity.AccessContext, id uuid.UUID, mode PaymentMode, recordedBy uuid.UUID) (*Invoice, *Transaction, error)

	// MarkOverdueBefore flags all pending invoices past due as of now.
	// Returns the number of invoices flagged.
	MarkOverdueBefore(ctx context.Context, societyID uuid.UUID, now time.Time) (int64, error)

	// Stats re-derives billing aggregates with a grouped query over
	// every invoice the caller can see. A non-empty period narrows the
	// aggregate to that period.
	Stats(ctx context.Context, access identity.AccessContext, period string) (*InvoiceStats, error)
}
