package billing

import (
	"context"

	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService reconciles invoice payments. Marking an invoice paid
// and appending the matching INCOME ledger entry happen in one storage
// transaction; a second payment attempt fails with ALREADY_PAID and
// writes nothing.
type PaymentService struct {
	invoiceRepo billing.InvoiceRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(invoiceRepo billing.InvoiceRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// MarkPaid records a payment against an invoice, looked up by number
// within the caller's visibility. Absent and invisible invoices are
// indistinguishable: both read as not found.
func (s *PaymentService) MarkPaid(ctx context.Context, access identity.AccessContext, input PayInvoiceInput) (*billing.Invoice, *billing.Transaction, error) {
	if !access.Role.CanManageBilling() {
		return nil, nil, shared.ErrForbidden
	}
	if !input.Mode.IsValid() {
		return nil, nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}

	invoice, err := s.invoiceRepo.FindByNumber(ctx, access, input.InvoiceNumber)
	if err != nil {
		return nil, nil, err
	}

	paid, entry, err := s.invoiceRepo.ReconcilePayment(ctx, access, invoice.GetID(), input.Mode, access.UserID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Invoice paid",
		zap.String("invoice_number", paid.InvoiceNumber),
		zap.String("society_id", paid.SocietyID.String()),
		zap.String("mode", string(input.Mode)),
		zap.String("amount", paid.Amount.String()))

	return paid, entry, nil
}

// Cancel voids an unpaid invoice. The cancellation happens under the
// same row lock as payments, so a payment racing a cancellation
// resolves to exactly one winner.
func (s *PaymentService) Cancel(ctx context.Context, access identity.AccessContext, invoiceNumber, reason string) (*billing.Invoice, error) {
	if !access.Role.CanManageBilling() {
		return nil, shared.ErrForbidden
	}

	invoice, err := s.invoiceRepo.FindByNumber(ctx, access, invoiceNumber)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.invoiceRepo.UpdatePaid(ctx, access, invoice.GetID(), func(inv *billing.Invoice) error {
		return inv.Cancel(reason)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice cancelled",
		zap.String("invoice_number", cancelled.InvoiceNumber),
		zap.String("reason", reason))

	return cancelled, nil
}

// Get returns one invoice within the caller's visibility
func (s *PaymentService) Get(ctx context.Context, access identity.AccessContext, invoiceNumber string) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByNumber(ctx, access, invoiceNumber)
}

// List returns the caller's visible invoices, paginated. Residents see
// only invoices billed to them.
func (s *PaymentService) List(ctx context.Context, access identity.AccessContext, query billing.InvoiceQuery) (shared.Paginated[*billing.Invoice], error) {
	return s.invoiceRepo.List(ctx, access, query)
}
