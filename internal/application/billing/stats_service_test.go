package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComputeStats(t *testing.T) {
	ctx := context.Background()
	societyID := uuid.New()

	t.Run("aggregates the named period", func(t *testing.T) {
		access := societyContext(t, identity.RoleAdmin, societyID)
		stats := &billing.InvoiceStats{
			Period:       "2026-08",
			TotalBilled:  decimal.NewFromInt(5000),
			Collected:    decimal.NewFromInt(2500),
			Pending:      decimal.NewFromInt(2500),
			TotalCount:   2,
			PaidCount:    1,
			PendingCount: 1,
		}

		invoiceRepo := new(MockInvoiceRepository)
		invoiceRepo.On("Stats", ctx, access, "2026-08").Return(stats, nil)

		service := NewStatsService(invoiceRepo, new(MockTransactionRepository), zap.NewNop())
		got, err := service.ComputeStats(ctx, access, "2026-08")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5000).Equal(got.TotalBilled))
		assert.Equal(t, int64(1), got.PaidCount)
	})

	t.Run("empty period spans all periods", func(t *testing.T) {
		access := societyContext(t, identity.RoleAccountant, societyID)

		invoiceRepo := new(MockInvoiceRepository)
		invoiceRepo.On("Stats", ctx, access, "").
			Return(&billing.InvoiceStats{
				TotalBilled: decimal.NewFromInt(6500),
				TotalCount:  3,
			}, nil)

		service := NewStatsService(invoiceRepo, new(MockTransactionRepository), zap.NewNop())
		got, err := service.ComputeStats(ctx, access, "")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(6500).Equal(got.TotalBilled))
		assert.Empty(t, got.Period)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("malformed period is rejected", func(t *testing.T) {
		access := societyContext(t, identity.RoleAdmin, societyID)
		service := NewStatsService(new(MockInvoiceRepository), new(MockTransactionRepository), zap.NewNop())

		_, err := service.ComputeStats(ctx, access, "Sep-2026")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
	})

	t.Run("residents read their own stats", func(t *testing.T) {
		access := societyContext(t, identity.RoleResident, societyID)

		invoiceRepo := new(MockInvoiceRepository)
		invoiceRepo.On("Stats", ctx, access, "2026-09").
			Return(&billing.InvoiceStats{Period: "2026-09", TotalCount: 1}, nil)

		service := NewStatsService(invoiceRepo, new(MockTransactionRepository), zap.NewNop())
		got, err := service.ComputeStats(ctx, access, "2026-09")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.TotalCount)
	})
}

func TestCashPosition(t *testing.T) {
	ctx := context.Background()
	societyID := uuid.New()
	access := societyContext(t, identity.RoleAdmin, societyID)

	t.Run("sums the requested range", func(t *testing.T) {
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
		summary := &billing.LedgerSummary{
			Income:  decimal.NewFromInt(10000),
			Expense: decimal.NewFromInt(4000),
			Net:     decimal.NewFromInt(6000),
		}

		txnRepo := new(MockTransactionRepository)
		txnRepo.On("Summary", ctx, access, from, to).Return(summary, nil)

		service := NewStatsService(new(MockInvoiceRepository), txnRepo, zap.NewNop())
		got, err := service.CashPosition(ctx, access, from, to)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(6000).Equal(got.Net))
	})

	t.Run("zero range defaults to the current month", func(t *testing.T) {
		period := billing.PeriodOf(time.Now())

		txnRepo := new(MockTransactionRepository)
		txnRepo.On("Summary", ctx, access, period.Start(), period.End()).
			Return(&billing.LedgerSummary{}, nil)

		service := NewStatsService(new(MockInvoiceRepository), txnRepo, zap.NewNop())
		_, err := service.CashPosition(ctx, access, time.Time{}, time.Time{})
		require.NoError(t, err)
		txnRepo.AssertExpectations(t)
	})
}
