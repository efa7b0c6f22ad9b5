package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/billing"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice) error {
	args := m.Called(ctx, invoices)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, access identity.AccessContext, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, access, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, access identity.AccessContext, query billing.InvoiceQuery) (shared.Paginated[*billing.Invoice], error) {
	args := m.Called(ctx, access, query)
	return args.Get(0).(shared.Paginated[*billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForPeriod(ctx context.Context, societyID uuid.UUID, period string) (bool, error) {
	args := m.Called(ctx, societyID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) UpdatePaid(ctx context.Context, access identity.AccessContext, id uuid.UUID, fn func(*billing.Invoice) error) (*billing.Invoice, error) {
	args := m.Called(ctx, access, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ReconcilePayment(ctx context.Context, access identity.AccessContext, id uuid.UUID, mode billing.PaymentMode, recordedBy uuid.UUID) (*billing.Invoice, *billing.Transaction, error) {
	args := m.Called(ctx, access, id, mode, recordedBy)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*billing.Invoice), args.Get(1).(*billing.Transaction), args.Error(2)
}

func (m *MockInvoiceRepository) MarkOverdueBefore(ctx context.Context, societyID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, societyID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Stats(ctx context.Context, access identity.AccessContext, period string) (*billing.InvoiceStats, error) {
	args := m.Called(ctx, access, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceStats), args.Error(1)
}

// MockTransactionRepository is a mock implementation of billing.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, txn *billing.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*billing.Transaction, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByReference(ctx context.Context, access identity.AccessContext, referenceNo string) ([]*billing.Transaction, error) {
	args := m.Called(ctx, access, referenceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, access identity.AccessContext, query billing.TransactionQuery) (shared.Paginated[*billing.Transaction], error) {
	args := m.Called(ctx, access, query)
	return args.Get(0).(shared.Paginated[*billing.Transaction]), args.Error(1)
}

func (m *MockTransactionRepository) Summary(ctx context.Context, access identity.AccessContext, from, to time.Time) (*billing.LedgerSummary, error) {
	args := m.Called(ctx, access, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.LedgerSummary), args.Error(1)
}

// MockPlatformInvoiceRepository is a mock implementation of billing.PlatformInvoiceRepository
type MockPlatformInvoiceRepository struct {
	mock.Mock
}

func (m *MockPlatformInvoiceRepository) Save(ctx context.Context, invoice *billing.PlatformInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockPlatformInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PlatformInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PlatformInvoice), args.Error(1)
}

func (m *MockPlatformInvoiceRepository) List(ctx context.Context, query billing.PlatformInvoiceQuery) (shared.Paginated[*billing.PlatformInvoice], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(shared.Paginated[*billing.PlatformInvoice]), args.Error(1)
}

func (m *MockPlatformInvoiceRepository) UpdatePaid(ctx context.Context, id uuid.UUID, fn func(*billing.PlatformInvoice) error) (*billing.PlatformInvoice, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PlatformInvoice), args.Error(1)
}

func (m *MockPlatformInvoiceRepository) RevenueStats(ctx context.Context) (*billing.PlatformRevenueStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PlatformRevenueStats), args.Error(1)
}

func (m *MockPlatformInvoiceRepository) MonthlyTrend(ctx context.Context, months int) ([]billing.MonthlyRevenue, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.MonthlyRevenue), args.Error(1)
}

func (m *MockPlatformInvoiceRepository) TopSocieties(ctx context.Context, limit int) ([]billing.SocietyRevenue, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SocietyRevenue), args.Error(1)
}

// MockUnitRepository is a mock implementation of identity.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *identity.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Unit, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByLabel(ctx context.Context, access identity.AccessContext, block, number string) (*identity.Unit, error) {
	args := m.Called(ctx, access, block, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Unit), args.Error(1)
}

func (m *MockUnitRepository) List(ctx context.Context, access identity.AccessContext, filter shared.Filter) (shared.Paginated[*identity.Unit], error) {
	args := m.Called(ctx, access, filter)
	return args.Get(0).(shared.Paginated[*identity.Unit]), args.Error(1)
}

func (m *MockUnitRepository) ListBySociety(ctx context.Context, societyID uuid.UUID) ([]*identity.Unit, error) {
	args := m.Called(ctx, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Unit), args.Error(1)
}

func (m *MockUnitRepository) Delete(ctx context.Context, access identity.AccessContext, id uuid.UUID) error {
	args := m.Called(ctx, access, id)
	return args.Error(0)
}

// MockSocietyRepository is a mock implementation of identity.SocietyRepository
type MockSocietyRepository struct {
	mock.Mock
}

func (m *MockSocietyRepository) Save(ctx context.Context, society *identity.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) SaveWithLock(ctx context.Context, society *identity.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Society, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Society), args.Error(1)
}

func (m *MockSocietyRepository) FindByCode(ctx context.Context, code string) (*identity.Society, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Society), args.Error(1)
}

func (m *MockSocietyRepository) List(ctx context.Context, status identity.SocietyStatus, filter shared.Filter) (shared.Paginated[*identity.Society], error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(shared.Paginated[*identity.Society]), args.Error(1)
}

func (m *MockSocietyRepository) Count(ctx context.Context, status identity.SocietyStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSocietyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
