package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PlatformBillingConfig contains configuration for subscription billing
type PlatformBillingConfig struct {
	FeePerUnit    decimal.Decimal // Monthly subscription fee per unit
	DueGraceDays  int
	NumberRetries int
}

// PlatformInvoiceService bills societies for their platform
// subscription. Everything here is platform-operator only; society
// members never see these invoices.
type PlatformInvoiceService struct {
	platformRepo billing.PlatformInvoiceRepository
	societyRepo  identity.SocietyRepository
	config       PlatformBillingConfig
	logger       *zap.Logger
}

// NewPlatformInvoiceService creates a new platform invoice service
func NewPlatformInvoiceService(
	platformRepo billing.PlatformInvoiceRepository,
	societyRepo identity.SocietyRepository,
	config PlatformBillingConfig,
	logger *zap.Logger,
) *PlatformInvoiceService {
	return &PlatformInvoiceService{
		platformRepo: platformRepo,
		societyRepo:  societyRepo,
		config:       config,
		logger:       logger,
	}
}

// GenerateMonthly bills every active society for one period: fee per
// unit times the society's unit count. Societies with no units are
// skipped. Returns the invoices raised.
func (s *PlatformInvoiceService) GenerateMonthly(ctx context.Context, access identity.AccessContext, periodStr string) ([]*billing.PlatformInvoice, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}

	period, err := billing.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}
	dueDate := period.DueDate(s.config.DueGraceDays)

	var invoices []*billing.PlatformInvoice

	filter := shared.DefaultFilter()
	filter.PageSize = 100
	for page := 1; ; page++ {
		filter.Page = page
		societies, err := s.societyRepo.List(ctx, identity.SocietyStatusActive, filter)
		if err != nil {
			return nil, err
		}

		for _, society := range societies.Items {
			if society.TotalUnits == 0 {
				s.logger.Warn("Skipping society with no units",
					zap.String("society_id", society.GetID().String()),
					zap.String("code", society.Code))
				continue
			}

			fee := s.config.FeePerUnit.Mul(decimal.NewFromInt(int64(society.TotalUnits)))
			invoice, err := billing.NewPlatformInvoice(
				society.GetID(), society.Code, period,
				valueobject.NewMoneyINR(fee), dueDate,
			)
			if err != nil {
				return nil, err
			}

			if err := s.saveWithRetry(ctx, invoice); err != nil {
				return nil, err
			}
			invoices = append(invoices, invoice)
		}

		if page >= societies.TotalPages {
			break
		}
	}

	s.logger.Info("Platform billing cycle generated",
		zap.String("period", period.String()),
		zap.Int("invoices", len(invoices)))

	return invoices, nil
}

func (s *PlatformInvoiceService) saveWithRetry(ctx context.Context, invoice *billing.PlatformInvoice) error {
	var err error
	for attempt := 0; attempt <= s.config.NumberRetries; attempt++ {
		if attempt > 0 {
			invoice.RegenerateNumber()
		}
		err = s.platformRepo.Save(ctx, invoice)
		if err == nil || !errors.Is(err, billing.ErrDuplicateInvoiceNumber) {
			return err
		}
	}
	return err
}

// MarkPaid records a subscription payment under a row lock
func (s *PlatformInvoiceService) MarkPaid(ctx context.Context, access identity.AccessContext, id uuid.UUID, mode billing.PaymentMode) (*billing.PlatformInvoice, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}

	paid, err := s.platformRepo.UpdatePaid(ctx, id, func(inv *billing.PlatformInvoice) error {
		return inv.MarkPaid(mode, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Platform invoice paid",
		zap.String("invoice_number", paid.InvoiceNumber),
		zap.String("society_code", paid.SocietyCode))

	return paid, nil
}

// Get returns one platform invoice
func (s *PlatformInvoiceService) Get(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*billing.PlatformInvoice, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}
	return s.platformRepo.FindByID(ctx, id)
}

// List returns platform invoices, paginated
func (s *PlatformInvoiceService) List(ctx context.Context, access identity.AccessContext, query billing.PlatformInvoiceQuery) (shared.Paginated[*billing.PlatformInvoice], error) {
	if !access.Role.IsPlatform() {
		return shared.Paginated[*billing.PlatformInvoice]{}, shared.ErrForbidden
	}
	return s.platformRepo.List(ctx, query)
}

// RevenueStats summarizes subscription revenue across all societies
func (s *PlatformInvoiceService) RevenueStats(ctx context.Context, access identity.AccessContext) (*billing.PlatformRevenueStats, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}
	return s.platformRepo.RevenueStats(ctx)
}

// MonthlyTrend returns the revenue trend over the last months
func (s *PlatformInvoiceService) MonthlyTrend(ctx context.Context, access identity.AccessContext, months int) ([]billing.MonthlyRevenue, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}
	return s.platformRepo.MonthlyTrend(ctx, months)
}

// TopSocieties ranks societies by collected subscription revenue
func (s *PlatformInvoiceService) TopSocieties(ctx context.Context, access identity.AccessContext, limit int) ([]billing.SocietyRevenue, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}
	return s.platformRepo.TopSocieties(ctx, limit)
}
