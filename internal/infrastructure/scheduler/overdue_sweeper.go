package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const sweeperPageSize = 100

// OverdueSweeperConfig controls the background overdue sweep
type OverdueSweeperConfig struct {
	// Interval between sweeps. Zero disables the sweeper.
	Interval time.Duration
}

// OverdueSweeper periodically flags pending invoices past their due
// date across all active societies. It complements the manual
// sweep-overdue endpoint so statuses stay current without operator
// intervention.
type OverdueSweeper struct {
	invoiceRepo billing.InvoiceRepository
	societyRepo identity.SocietyRepository
	config      OverdueSweeperConfig
	logger      *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewOverdueSweeper creates a new overdue sweeper
func NewOverdueSweeper(
	invoiceRepo billing.InvoiceRepository,
	societyRepo identity.SocietyRepository,
	config OverdueSweeperConfig,
	logger *zap.Logger,
) *OverdueSweeper {
	return &OverdueSweeper{
		invoiceRepo: invoiceRepo,
		societyRepo: societyRepo,
		config:      config,
		logger:      logger,
	}
}

// Start launches the sweep loop. Starting a running sweeper is a no-op.
func (s *OverdueSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.config.Interval <= 0 {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx)
	s.logger.Info("Overdue sweeper started", zap.Duration("interval", s.config.Interval))
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish
func (s *OverdueSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	<-s.done
	s.running = false
	s.logger.Info("Overdue sweeper stopped")
}

func (s *OverdueSweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepAll(ctx)
		}
	}
}

// SweepAll walks every active society and flags its overdue invoices.
// Per-society failures are logged and skipped so one bad society does
// not stall the rest.
func (s *OverdueSweeper) SweepAll(ctx context.Context) {
	now := time.Now()
	var flagged int64

	filter := shared.DefaultFilter()
	filter.PageSize = sweeperPageSize

	for page := 1; ; page++ {
		filter.Page = page
		societies, err := s.societyRepo.List(ctx, identity.SocietyStatusActive, filter)
		if err != nil {
			s.logger.Error("Overdue sweep failed to list societies", zap.Error(err))
			return
		}

		for _, society := range societies.Items {
			count, err := s.invoiceRepo.MarkOverdueBefore(ctx, society.GetID(), now)
			if err != nil {
				s.logger.Error("Overdue sweep failed for society",
					zap.String("society_id", society.GetID().String()),
					zap.Error(err),
				)
				continue
			}
			flagged += count
		}

		if page >= societies.TotalPages {
			break
		}
	}

	if flagged > 0 {
		s.logger.Info("Overdue sweep flagged invoices", zap.Int64("flagged", flagged))
	}
}
