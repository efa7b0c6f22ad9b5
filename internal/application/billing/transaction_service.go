package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// TransactionService manages a society's cash ledger. Invoice payments
// append entries through the payment path; this service covers the
// manual ones (amenity income, expenses).
type TransactionService struct {
	txnRepo billing.TransactionRepository
	logger  *zap.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txnRepo billing.TransactionRepository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		txnRepo: txnRepo,
		logger:  logger,
	}
}

// RecordIncome appends a manual INCOME entry
func (s *TransactionService) RecordIncome(ctx context.Context, access identity.AccessContext, input RecordTransactionInput) (*billing.Transaction, error) {
	return s.record(ctx, access, billing.TransactionTypeIncome, input)
}

// RecordExpense appends an EXPENSE entry
func (s *TransactionService) RecordExpense(ctx context.Context, access identity.AccessContext, input RecordTransactionInput) (*billing.Transaction, error) {
	return s.record(ctx, access, billing.TransactionTypeExpense, input)
}

func (s *TransactionService) record(ctx context.Context, access identity.AccessContext, txnType billing.TransactionType, input RecordTransactionInput) (*billing.Transaction, error) {
	if !access.Role.CanManageBilling() {
		return nil, shared.ErrForbidden
	}

	societyID, err := resolveSocietyID(access, input.SocietyID)
	if err != nil {
		return nil, err
	}

	txn, err := billing.NewTransaction(
		societyID, txnType, input.Category,
		valueobject.NewMoneyINR(input.Amount),
		input.Mode, input.TxnDate, access.UserID,
	)
	if err != nil {
		return nil, err
	}

	if input.Description != "" {
		txn.SetDescription(input.Description)
	}
	if input.ReferenceNo != "" {
		if err := txn.SetReference(input.ReferenceNo); err != nil {
			return nil, err
		}
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("Ledger entry recorded",
		zap.String("society_id", societyID.String()),
		zap.String("type", string(txnType)),
		zap.String("category", txn.Category),
		zap.String("amount", txn.Amount.String()))

	return txn, nil
}

// Get returns one ledger entry within the caller's visibility
func (s *TransactionService) Get(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*billing.Transaction, error) {
	return s.txnRepo.FindByID(ctx, access, id)
}

// List returns ledger entries, paginated
func (s *TransactionService) List(ctx context.Context, access identity.AccessContext, query billing.TransactionQuery) (shared.Paginated[*billing.Transaction], error) {
	return s.txnRepo.List(ctx, access, query)
}

// FindByReference returns the ledger entries referencing a document,
// typically an invoice number
func (s *TransactionService) FindByReference(ctx context.Context, access identity.AccessContext, referenceNo string) ([]*billing.Transaction, error) {
	return s.txnRepo.FindByReference(ctx, access, referenceNo)
}
