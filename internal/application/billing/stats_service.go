package billing

import (
	"context"
	"time"

	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// StatsService derives billing aggregates. Every number is recomputed
// from rows at read time; nothing is cached or maintained on write.
// Visibility is the caller's own: a resident's stats cover exactly the
// invoices billed to them.
type StatsService struct {
	invoiceRepo billing.InvoiceRepository
	txnRepo     billing.TransactionRepository
	logger      *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	invoiceRepo billing.InvoiceRepository,
	txnRepo billing.TransactionRepository,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		invoiceRepo: invoiceRepo,
		txnRepo:     txnRepo,
		logger:      logger,
	}
}

// ComputeStats aggregates the caller's visible invoices by status.
// With no period named the aggregate spans every period, so the total
// billed equals the sum of all visible invoice amounts; a period
// narrows it to one month. No invoices yields all-zero sums.
func (s *StatsService) ComputeStats(ctx context.Context, access identity.AccessContext, periodStr string) (*billing.InvoiceStats, error) {
	if periodStr == "" {
		return s.invoiceRepo.Stats(ctx, access, "")
	}

	period, err := billing.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.Stats(ctx, access, period.String())
}

// CashPosition sums the society's ledger over a date range. A zero
// range defaults to the current month.
func (s *StatsService) CashPosition(ctx context.Context, access identity.AccessContext, from, to time.Time) (*billing.LedgerSummary, error) {
	if from.IsZero() || to.IsZero() {
		period := billing.PeriodOf(time.Now())
		from = period.Start()
		to = period.End()
	}

	return s.txnRepo.Summary(ctx, access, from, to)
}
