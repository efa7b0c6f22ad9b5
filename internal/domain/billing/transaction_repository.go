package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
)

// TransactionQuery narrows ledger listings
type TransactionQuery struct {
	shared.Filter
	Type     TransactionType
	Category string
	From     *time.Time
	To       *time.Time
}

// LedgerSummary holds a society's cash position over a date range
type LedgerSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// TransactionRepository defines the persistence contract for ledger entries
type TransactionRepository interface {
	Save(ctx context.Context, txn *Transaction) error
	FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*Transaction, error)
	FindByReference(ctx context.Context, access identity.AccessContext, referenceNo string) ([]*Transaction, error)
	List(ctx context.Context, access identity.AccessContext, query TransactionQuery) (shared.Paginated[*Transaction], error)
	Summary(ctx context.Context, access identity.AccessContext, from, to time.Time) (*LedgerSummary, error)
}
