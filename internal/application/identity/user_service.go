package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages member accounts inside a society
type UserService struct {
	userRepo identity.UserRepository
	unitRepo identity.UnitRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	unitRepo identity.UnitRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		unitRepo: unitRepo,
		logger:   logger,
	}
}

// Create adds a member account. Society admins create accounts in their
// own society; only platform operators can mint another platform role.
func (s *UserService) Create(ctx context.Context, access identity.AccessContext, input CreateUserInput) (*identity.User, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}
	if input.Role.IsPlatform() && !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}

	var societyID *uuid.UUID
	if !input.Role.IsPlatform() {
		sid, err := resolveSocietyID(access, input.SocietyID)
		if err != nil {
			return nil, err
		}
		societyID = &sid
	}

	user, err := identity.NewUser(input.Email, input.Password, input.Name, input.Role, societyID)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone

	if input.UnitID != nil {
		if _, err := s.unitRepo.FindByID(ctx, access, *input.UnitID); err != nil {
			return nil, err
		}
		if err := user.AssignUnit(*input.UnitID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.GetID().String()),
		zap.String("email", user.Email),
		zap.String("role", user.Role.String()))

	return user, nil
}

// Get returns one user within the caller's visibility
func (s *UserService) Get(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.User, error) {
	return s.userRepo.FindByID(ctx, access, id)
}

// List returns the caller's visible users, paginated. Residents see
// only themselves.
func (s *UserService) List(ctx context.Context, access identity.AccessContext, filter shared.Filter) (shared.Paginated[*identity.User], error) {
	return s.userRepo.List(ctx, access, filter)
}

// Deactivate disables an account
func (s *UserService) Deactivate(ctx context.Context, access identity.AccessContext, id uuid.UUID) error {
	if !access.Role.CanManageSociety() {
		return shared.ErrForbidden
	}
	if id == access.UserID {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, access, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// Unlock clears a login lock before its window expires
func (s *UserService) Unlock(ctx context.Context, access identity.AccessContext, id uuid.UUID) error {
	if !access.Role.CanManageSociety() {
		return shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, access, id)
	if err != nil {
		return err
	}
	user.Unlock()
	return s.userRepo.Save(ctx, user)
}

// ResetPassword sets a new password without the old one (admin action)
func (s *UserService) ResetPassword(ctx context.Context, access identity.AccessContext, id uuid.UUID, newPassword string) error {
	if !access.Role.CanManageSociety() {
		return shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, access, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Password reset",
		zap.String("user_id", id.String()),
		zap.String("by", access.UserID.String()))
	return nil
}
