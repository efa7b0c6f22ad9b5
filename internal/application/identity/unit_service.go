package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UnitService manages a society's units
type UnitService struct {
	unitRepo    identity.UnitRepository
	societyRepo identity.SocietyRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewUnitService creates a new unit service
func NewUnitService(
	unitRepo identity.UnitRepository,
	societyRepo identity.SocietyRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *UnitService {
	return &UnitService{
		unitRepo:    unitRepo,
		societyRepo: societyRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// resolveSocietyID picks the society an operation targets: society
// roles always act on their own society, platform operators must name
// one explicitly.
func resolveSocietyID(access identity.AccessContext, explicit *uuid.UUID) (uuid.UUID, error) {
	if !access.Role.IsPlatform() {
		return access.RequireSociety()
	}
	if explicit == nil || *explicit == uuid.Nil {
		return uuid.Nil, shared.NewDomainError("MISSING_SOCIETY", "Platform operators must specify a society")
	}
	return *explicit, nil
}

// Create adds a unit to the society. The (block, number) label must be
// unique within the society.
func (s *UnitService) Create(ctx context.Context, access identity.AccessContext, input CreateUnitInput) (*identity.Unit, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}

	societyID, err := resolveSocietyID(access, input.SocietyID)
	if err != nil {
		return nil, err
	}

	unit, err := identity.NewUnit(societyID, input.Block, input.Number, input.Type, input.MaintenanceCharge)
	if err != nil {
		return nil, err
	}
	if !input.AreaSqft.IsZero() {
		if err := unit.SetArea(input.AreaSqft); err != nil {
			return nil, err
		}
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	// Keep the society's unit count in step; platform subscription
	// billing reads it.
	if society, err := s.societyRepo.FindByID(ctx, societyID); err == nil {
		society.TotalUnits++
		if err := s.societyRepo.SaveWithLock(ctx, society); err != nil {
			s.logger.Warn("Failed to bump society unit count",
				zap.String("society_id", societyID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Unit created",
		zap.String("society_id", societyID.String()),
		zap.String("label", unit.Label()))

	return unit, nil
}

// Get returns one unit within the caller's visibility
func (s *UnitService) Get(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Unit, error) {
	return s.unitRepo.FindByID(ctx, access, id)
}

// List returns the caller's visible units, paginated
func (s *UnitService) List(ctx context.Context, access identity.AccessContext, filter shared.Filter) (shared.Paginated[*identity.Unit], error) {
	return s.unitRepo.List(ctx, access, filter)
}

// SetMaintenanceCharge updates a unit's monthly charge
func (s *UnitService) SetMaintenanceCharge(ctx context.Context, access identity.AccessContext, id uuid.UUID, charge decimal.Decimal) (*identity.Unit, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}

	unit, err := s.unitRepo.FindByID(ctx, access, id)
	if err != nil {
		return nil, err
	}
	if err := unit.SetMaintenanceCharge(charge); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// SetOwner records the unit's legal owner. The owner must be a member
// of the same society.
func (s *UnitService) SetOwner(ctx context.Context, access identity.AccessContext, unitID, ownerID uuid.UUID) (*identity.Unit, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}

	unit, err := s.unitRepo.FindByID(ctx, access, unitID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, access, ownerID); err != nil {
		return nil, err
	}

	if err := unit.SetOwner(ownerID); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// AssignOccupant places a resident in a unit and links the account back
// to it
func (s *UnitService) AssignOccupant(ctx context.Context, access identity.AccessContext, input AssignOccupantInput) (*identity.Unit, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}

	unit, err := s.unitRepo.FindByID(ctx, access, input.UnitID)
	if err != nil {
		return nil, err
	}

	occupant, err := s.userRepo.FindByID(ctx, access, input.OccupantID)
	if err != nil {
		return nil, err
	}

	if err := unit.AssignOccupant(input.OccupantID, input.Rented); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	if occupant.Role == identity.RoleResident {
		if err := occupant.AssignUnit(unit.GetID()); err == nil {
			if err := s.userRepo.Save(ctx, occupant); err != nil {
				s.logger.Warn("Failed to link resident to unit",
					zap.String("user_id", occupant.GetID().String()), zap.Error(err))
			}
		}
	}

	s.logger.Info("Occupant assigned",
		zap.String("unit_id", unit.GetID().String()),
		zap.String("occupant_id", input.OccupantID.String()))

	return unit, nil
}

// Vacate clears a unit's occupant
func (s *UnitService) Vacate(ctx context.Context, access identity.AccessContext, unitID uuid.UUID) (*identity.Unit, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}

	unit, err := s.unitRepo.FindByID(ctx, access, unitID)
	if err != nil {
		return nil, err
	}
	if err := unit.Vacate(); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Delete removes a unit
func (s *UnitService) Delete(ctx context.Context, access identity.AccessContext, id uuid.UUID) error {
	if !access.Role.CanManageSociety() {
		return shared.ErrForbidden
	}

	unit, err := s.unitRepo.FindByID(ctx, access, id)
	if err != nil {
		return err
	}
	if err := s.unitRepo.Delete(ctx, access, id); err != nil {
		return err
	}

	if society, err := s.societyRepo.FindByID(ctx, unit.SocietyID); err == nil && society.TotalUnits > 0 {
		society.TotalUnits--
		if err := s.societyRepo.SaveWithLock(ctx, society); err != nil {
			s.logger.Warn("Failed to drop society unit count",
				zap.String("society_id", unit.SocietyID.String()), zap.Error(err))
		}
	}

	return nil
}
