package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, access, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, access identity.AccessContext, filter shared.Filter) (shared.Paginated[*identity.User], error) {
	args := m.Called(ctx, access, filter)
	return args.Get(0).(shared.Paginated[*identity.User]), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, access identity.AccessContext, id uuid.UUID) error {
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
