package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// BillingCycleConfig contains configuration for cycle generation
type BillingCycleConfig struct {
	DueGraceDays  int // Days after period start before an invoice is due
	NumberRetries int // Invoice number regeneration attempts on collision
}

// DefaultBillingCycleConfig returns default configuration
func DefaultBillingCycleConfig() BillingCycleConfig {
	return BillingCycleConfig{
		DueGraceDays:  10,
		NumberRetries: 3,
	}
}

// BillingCycleService generates maintenance invoices for a society's
// units, one cycle per billing period.
type BillingCycleService struct {
	invoiceRepo billing.InvoiceRepository
	unitRepo    identity.UnitRepository
	societyRepo identity.SocietyRepository
	config      BillingCycleConfig
	logger      *zap.Logger
}

// NewBillingCycleService creates a new billing cycle service
func NewBillingCycleService(
	invoiceRepo billing.InvoiceRepository,
	unitRepo identity.UnitRepository,
	societyRepo identity.SocietyRepository,
	config BillingCycleConfig,
	logger *zap.Logger,
) *BillingCycleService {
	return &BillingCycleService{
		invoiceRepo: invoiceRepo,
		unitRepo:    unitRepo,
		societyRepo: societyRepo,
		config:      config,
		logger:      logger,
	}
}

// GenerateCycle raises one invoice per matching unit for the period,
// all inside a single transaction. Zero matching units is an empty
// result, not an error. Re-generating a period is allowed and produces
// a second, disjoint set of invoices.
func (s *BillingCycleService) GenerateCycle(ctx context.Context, access identity.AccessContext, input GenerateCycleInput) ([]*billing.Invoice, error) {
	if !access.Role.CanManageBilling() {
		return nil, shared.ErrForbidden
	}

	societyID, err := resolveSocietyID(access, input.SocietyID)
	if err != nil {
		return nil, err
	}

	period, err := billing.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}
	if err := input.Schedule.Validate(); err != nil {
		return nil, err
	}

	society, err := s.societyRepo.FindByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if !society.IsActive() {
		return nil, shared.NewDomainError("SOCIETY_NOT_ACTIVE", "Billing requires an active society")
	}

	units, err := s.unitRepo.ListBySociety(ctx, societyID)
	if err != nil {
		return nil, err
	}

	block := strings.ToUpper(strings.TrimSpace(input.Block))
	dueDate := period.DueDate(s.config.DueGraceDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	// Every enumerated unit gets an invoice for the same amount; a
	// cycle never drops units.
	amount := valueobject.NewMoneyINR(input.Schedule.Total())
	invoices := make([]*billing.Invoice, 0, len(units))
	for _, unit := range units {
		if block != "" && unit.Block != block {
			continue
		}

		invoice, err := billing.NewInvoice(
			societyID, unit.GetID(), unit.Label(), unit.BilledParty(),
			period, amount, dueDate,
		)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	if len(invoices) == 0 {
		return invoices, nil
	}

	if err := s.createWithRetry(ctx, invoices); err != nil {
		return nil, err
	}

	s.logger.Info("Billing cycle generated",
		zap.String("society_id", societyID.String()),
		zap.String("period", period.String()),
		zap.Int("invoices", len(invoices)))

	return invoices, nil
}

// createWithRetry inserts the batch, regenerating every invoice number
// after a unique-index collision. The suffix space is small enough that
// a re-run against an existing cycle can collide; anything past the
// retry budget surfaces as the collision error itself.
func (s *BillingCycleService) createWithRetry(ctx context.Context, invoices []*billing.Invoice) error {
	var err error
	for attempt := 0; attempt <= s.config.NumberRetries; attempt++ {
		if attempt > 0 {
			for _, invoice := range invoices {
				invoice.RegenerateNumber()
			}
			s.logger.Warn("Invoice number collision, regenerated batch",
				zap.Int("attempt", attempt))
		}

		err = s.invoiceRepo.CreateBatch(ctx, invoices)
		if err == nil || !errors.Is(err, billing.ErrDuplicateInvoiceNumber) {
			return err
		}
	}
	return err
}

// CreateInvoice raises a single ad-hoc invoice against one unit
func (s *BillingCycleService) CreateInvoice(ctx context.Context, access identity.AccessContext, input CreateInvoiceInput) (*billing.Invoice, error) {
	if !access.Role.CanManageBilling() {
		return nil, shared.ErrForbidden
	}

	societyID, err := resolveSocietyID(access, input.SocietyID)
	if err != nil {
		return nil, err
	}
	period, err := billing.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByID(ctx, access, input.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.SocietyID != societyID {
		return nil, shared.ErrNotFound
	}

	amount := input.Amount
	if amount.IsZero() {
		amount = unit.MaintenanceCharge
	}
	dueDate := period.DueDate(s.config.DueGraceDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	invoice, err := billing.NewInvoice(
		societyID, unit.GetID(), unit.Label(), unit.BilledParty(),
		period, valueobject.NewMoneyINR(amount), dueDate,
	)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt <= s.config.NumberRetries; attempt++ {
		if attempt > 0 {
			invoice.RegenerateNumber()
		}
		err = s.invoiceRepo.Save(ctx, invoice)
		if err == nil || !errors.Is(err, billing.ErrDuplicateInvoiceNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// CycleExists reports whether the society already has non-cancelled
// invoices for the period. Handlers use it to warn before re-generation.
func (s *BillingCycleService) CycleExists(ctx context.Context, access identity.AccessContext, societyID *uuid.UUID, periodStr string) (bool, error) {
	if !access.Role.CanManageBilling() {
		return false, shared.ErrForbidden
	}

	sid, err := resolveSocietyID(access, societyID)
	if err != nil {
		return false, err
	}
	period, err := billing.ParsePeriod(periodStr)
	if err != nil {
		return false, err
	}

	return s.invoiceRepo.ExistsForPeriod(ctx, sid, period.String())
}

// SweepOverdue flags every pending invoice of the society whose due
// date has passed. Returns the number of invoices flagged.
func (s *BillingCycleService) SweepOverdue(ctx context.Context, access identity.AccessContext, societyID *uuid.UUID) (int64, error) {
	if !access.Role.CanManageBilling() {
		return 0, shared.ErrForbidden
	}

	sid, err := resolveSocietyID(access, societyID)
	if err != nil {
		return 0, err
	}

	flagged, err := s.invoiceRepo.MarkOverdueBefore(ctx, sid, time.Now())
	if err != nil {
		return 0, err
	}
	if flagged > 0 {
		s.logger.Info("Overdue sweep flagged invoices",
			zap.String("society_id", sid.String()),
			zap.Int64("count", flagged))
	}
	return flagged, nil
}
