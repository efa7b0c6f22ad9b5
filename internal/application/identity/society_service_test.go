package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func platformContext(t *testing.T) identity.AccessContext {
	t.Helper()
	access, err := identity.ResolveAccess(uuid.New(), identity.RoleSuperAdmin, nil)
	require.NoError(t, err)
	return access
}

func societyContext(t *testing.T, role identity.Role, societyID uuid.UUID) identity.AccessContext {
	t.Helper()
	access, err := identity.ResolveAccess(uuid.New(), role, &societyID)
	require.NoError(t, err)
	return access
}

func registerInput() RegisterSocietyInput {
	return RegisterSocietyInput{
		Name:          "Green Meadows",
		City:          "Pune",
		State:         "Maharashtra",
		AdminName:     "Asha Kulkarni",
		AdminEmail:    "asha@greenmeadows.in",
		AdminPassword: "s3cret-pass",
	}
}

func TestSocietyServiceRegister(t *testing.T) {
	t.Run("creates pending society with bootstrap admin", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		userRepo := new(MockUserRepository)
		svc := NewSocietyService(societyRepo, userRepo, zap.NewNop())

		societyRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.Register(context.Background(), registerInput())

		require.NoError(t, err)
		assert.Equal(t, identity.SocietyStatusPending, result.Society.Status)
		assert.NotEmpty(t, result.Society.Code)
		assert.Equal(t, identity.RoleAdmin, result.Admin.Role)
		require.NotNil(t, result.Admin.SocietyID)
		assert.Equal(t, result.Society.GetID(), *result.Admin.SocietyID)
		societyRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("rolls the society back when the admin cannot be created", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		userRepo := new(MockUserRepository)
		svc := NewSocietyService(societyRepo, userRepo, zap.NewNop())

		societyRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
		societyRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Register(context.Background(), registerInput())

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		societyRepo.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("duplicate admin email surfaces before any write", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		userRepo := new(MockUserRepository)
		svc := NewSocietyService(societyRepo, userRepo, zap.NewNop())

		input := registerInput()
		input.AdminPassword = "short"

		_, err := svc.Register(context.Background(), input)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
		societyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSocietyServiceLifecycle(t *testing.T) {
	t.Run("platform operator approves a pending society", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

		society, err := identity.NewSociety("Green Meadows", "Pune", "Maharashtra")
		require.NoError(t, err)

		societyRepo.On("FindByID", mock.Anything, society.GetID()).Return(society, nil)
		societyRepo.On("SaveWithLock", mock.Anything, society).Return(nil)

		approved, err := svc.Approve(context.Background(), platformContext(t), society.GetID())

		require.NoError(t, err)
		assert.Equal(t, identity.SocietyStatusActive, approved.Status)
		societyRepo.AssertExpectations(t)
	})

	t.Run("society admin cannot approve", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

		society, err := identity.NewSociety("Green Meadows", "Pune", "Maharashtra")
		require.NoError(t, err)

		_, err = svc.Approve(context.Background(), societyContext(t, identity.RoleAdmin, society.GetID()), society.GetID())

		assert.ErrorIs(t, err, shared.ErrForbidden)
		societyRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("approving an active society fails", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

		society, err := identity.NewSociety("Green Meadows", "Pune", "Maharashtra")
		require.NoError(t, err)
		require.NoError(t, society.Approve())

		societyRepo.On("FindByID", mock.Anything, society.GetID()).Return(society, nil)

		_, err = svc.Approve(context.Background(), platformContext(t), society.GetID())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("suspend and reactivate round trip", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

		society, err := identity.NewSociety("Green Meadows", "Pune", "Maharashtra")
		require.NoError(t, err)
		require.NoError(t, society.Approve())

		societyRepo.On("FindByID", mock.Anything, society.GetID()).Return(society, nil)
		societyRepo.On("SaveWithLock", mock.Anything, society).Return(nil)

		suspended, err := svc.Suspend(context.Background(), platformContext(t), society.GetID())
		require.NoError(t, err)
		assert.Equal(t, identity.SocietyStatusSuspended, suspended.Status)

		restored, err := svc.Reactivate(context.Background(), platformContext(t), society.GetID())
		require.NoError(t, err)
		assert.Equal(t, identity.SocietyStatusActive, restored.Status)
	})
}

func TestSocietyServiceVisibility(t *testing.T) {
	t.Run("admin cannot read another society", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

		_, err := svc.Get(context.Background(), societyContext(t, identity.RoleAdmin, uuid.New()), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		societyRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("listing is platform only", func(t *testing.T) {
		societyRepo := new(MockSocietyRepository)
		svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

		_, err := svc.List(context.Background(), societyContext(t, identity.RoleAdmin, uuid.New()), "", shared.DefaultFilter())

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestSocietyServiceStats(t *testing.T) {
	societyRepo := new(MockSocietyRepository)
	svc := NewSocietyService(societyRepo, new(MockUserRepository), zap.NewNop())

	societyRepo.On("Count", mock.Anything, identity.SocietyStatus("")).Return(int64(10), nil)
	societyRepo.On("Count", mock.Anything, identity.SocietyStatusPending).Return(int64(3), nil)
	societyRepo.On("Count", mock.Anything, identity.SocietyStatusActive).Return(int64(6), nil)
	societyRepo.On("Count", mock.Anything, identity.SocietyStatusSuspended).Return(int64(1), nil)

	stats, err := svc.Stats(context.Background(), platformContext(t))

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(6), stats.Active)
	assert.Equal(t, int64(1), stats.Suspended)
}
