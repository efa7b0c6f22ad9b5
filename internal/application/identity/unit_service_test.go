package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUnitService(unitRepo *MockUnitRepository, societyRepo *MockSocietyRepository, userRepo *MockUserRepository) *UnitService {
	return NewUnitService(unitRepo, societyRepo, userRepo, zap.NewNop())
}

func TestUnitServiceCreate(t *testing.T) {
	societyID := uuid.New()

	t.Run("admin creates a unit in own society", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		societyRepo := new(MockSocietyRepository)
		svc := newUnitService(unitRepo, societyRepo, new(MockUserRepository))

		society, err := identity.NewSociety("Green Meadows", "Pune", "Maharashtra")
		require.NoError(t, err)

		unitRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		societyRepo.On("FindByID", mock.Anything, societyID).Return(society, nil)
		societyRepo.On("SaveWithLock", mock.Anything, society).Return(nil)

		unit, err := svc.Create(context.Background(), societyContext(t, identity.RoleAdmin, societyID), CreateUnitInput{
			Block:             "a",
			Number:            "101",
			Type:              identity.UnitTypeFlat,
			MaintenanceCharge: decimal.NewFromInt(2000),
		})

		require.NoError(t, err)
		assert.Equal(t, "A101", unit.Label())
		assert.Equal(t, societyID, unit.SocietyID)
		assert.Equal(t, 1, society.TotalUnits)
		unitRepo.AssertExpectations(t)
	})

	t.Run("accountant cannot create units", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		svc := newUnitService(unitRepo, new(MockSocietyRepository), new(MockUserRepository))

		_, err := svc.Create(context.Background(), societyContext(t, identity.RoleAccountant, societyID), CreateUnitInput{
			Block: "A", Number: "101", Type: identity.UnitTypeFlat,
			MaintenanceCharge: decimal.NewFromInt(2000),
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("platform operator must name a society", func(t *testing.T) {
		svc := newUnitService(new(MockUnitRepository), new(MockSocietyRepository), new(MockUserRepository))

		_, err := svc.Create(context.Background(), platformContext(t), CreateUnitInput{
			Block: "A", Number: "101", Type: identity.UnitTypeFlat,
			MaintenanceCharge: decimal.NewFromInt(2000),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_SOCIETY", domainErr.Code)
	})

	t.Run("duplicate label passes through from storage", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		svc := newUnitService(unitRepo, new(MockSocietyRepository), new(MockUserRepository))

		unitRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Create(context.Background(), societyContext(t, identity.RoleAdmin, societyID), CreateUnitInput{
			Block: "A", Number: "101", Type: identity.UnitTypeFlat,
			MaintenanceCharge: decimal.NewFromInt(2000),
		})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestUnitServiceOccupancy(t *testing.T) {
	societyID := uuid.New()
	admin := func(t *testing.T) identity.AccessContext {
		return societyContext(t, identity.RoleAdmin, societyID)
	}

	newUnit := func(t *testing.T) *identity.Unit {
		unit, err := identity.NewUnit(societyID, "A", "101", identity.UnitTypeFlat, decimal.NewFromInt(2000))
		require.NoError(t, err)
		return unit
	}

	t.Run("assigning a resident links the account back", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		userRepo := new(MockUserRepository)
		svc := newUnitService(unitRepo, new(MockSocietyRepository), userRepo)

		unit := newUnit(t)
		resident, err := identity.NewUser("res@greenmeadows.in", "s3cret-pass", "Resident", identity.RoleResident, &societyID)
		require.NoError(t, err)

		unitRepo.On("FindByID", mock.Anything, mock.Anything, unit.GetID()).Return(unit, nil)
		userRepo.On("FindByID", mock.Anything, mock.Anything, resident.GetID()).Return(resident, nil)
		unitRepo.On("Save", mock.Anything, unit).Return(nil)
		userRepo.On("Save", mock.Anything, resident).Return(nil)

		updated, err := svc.AssignOccupant(context.Background(), admin(t), AssignOccupantInput{
			UnitID:     unit.GetID(),
			OccupantID: resident.GetID(),
			Rented:     true,
		})

		require.NoError(t, err)
		assert.Equal(t, identity.OccupancyRented, updated.Occupancy)
		require.NotNil(t, resident.UnitID)
		assert.Equal(t, unit.GetID(), *resident.UnitID)
	})

	t.Run("occupied unit rejects a second occupant", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		userRepo := new(MockUserRepository)
		svc := newUnitService(unitRepo, new(MockSocietyRepository), userRepo)

		unit := newUnit(t)
		require.NoError(t, unit.AssignOccupant(uuid.New(), false))
		occupant, err := identity.NewUser("other@greenmeadows.in", "s3cret-pass", "Other", identity.RoleResident, &societyID)
		require.NoError(t, err)

		unitRepo.On("FindByID", mock.Anything, mock.Anything, unit.GetID()).Return(unit, nil)
		userRepo.On("FindByID", mock.Anything, mock.Anything, occupant.GetID()).Return(occupant, nil)

		_, err = svc.AssignOccupant(context.Background(), admin(t), AssignOccupantInput{
			UnitID:     unit.GetID(),
			OccupantID: occupant.GetID(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNIT_OCCUPIED", domainErr.Code)
	})

	t.Run("vacate clears the occupant", func(t *testing.T) {
		unitRepo := new(MockUnitRepository)
		svc := newUnitService(unitRepo, new(MockSocietyRepository), new(MockUserRepository))

		unit := newUnit(t)
		require.NoError(t, unit.AssignOccupant(uuid.New(), true))

		unitRepo.On("FindByID", mock.Anything, mock.Anything, unit.GetID()).Return(unit, nil)
		unitRepo.On("Save", mock.Anything, unit).Return(nil)

		updated, err := svc.Vacate(context.Background(), admin(t), unit.GetID())

		require.NoError(t, err)
		assert.Equal(t, identity.OccupancyVacant, updated.Occupancy)
		assert.Nil(t, updated.OccupantID)
	})
}
