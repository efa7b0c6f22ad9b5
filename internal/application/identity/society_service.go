package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SocietyService manages the society lifecycle: registration, platform
// approval, suspension, and profile updates.
type SocietyService struct {
	societyRepo identity.SocietyRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewSocietyService creates a new society service
func NewSocietyService(
	societyRepo identity.SocietyRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *SocietyService {
	return &SocietyService{
		societyRepo: societyRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Register creates a society in pending status together with its
// bootstrap administrator. Registration is unauthenticated; the society
// stays invisible to billing until a platform operator approves it.
func (s *SocietyService) Register(ctx context.Context, input RegisterSocietyInput) (*RegisterSocietyResult, error) {
	society, err := identity.NewSociety(input.Name, input.City, input.State)
	if err != nil {
		return nil, err
	}

	if input.AddressLine != "" || input.Pincode != "" {
		if err := society.Update(input.Name, input.AddressLine, input.City, input.State, input.Pincode); err != nil {
			return nil, err
		}
	}
	if input.ContactName != "" || input.ContactPhone != "" || input.ContactEmail != "" {
		if err := society.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
			return nil, err
		}
	}

	societyID := society.GetID()
	admin, err := identity.NewUser(input.AdminEmail, input.AdminPassword, input.AdminName, identity.RoleAdmin, &societyID)
	if err != nil {
		return nil, err
	}

	if err := s.societyRepo.Save(ctx, society); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		// The society row without its admin is unusable; best effort cleanup.
		if delErr := s.societyRepo.Delete(ctx, societyID); delErr != nil {
			s.logger.Error("Failed to roll back society after admin creation failure",
				zap.String("society_id", societyID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Society registered",
		zap.String("society_id", societyID.String()),
		zap.String("code", society.Code),
		zap.String("admin_email", admin.Email))

	return &RegisterSocietyResult{Society: society, Admin: admin}, nil
}

// Approve activates a pending society. Platform operators only.
func (s *SocietyService) Approve(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Society, error) {
	return s.transition(ctx, access, id, "approved", (*identity.Society).Approve)
}

// Suspend suspends an active society. Platform operators only.
func (s *SocietyService) Suspend(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Society, error) {
	return s.transition(ctx, access, id, "suspended", (*identity.Society).Suspend)
}

// Reactivate restores a suspended society. Platform operators only.
func (s *SocietyService) Reactivate(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Society, error) {
	return s.transition(ctx, access, id, "reactivated", (*identity.Society).Reactivate)
}

func (s *SocietyService) transition(ctx context.Context, access identity.AccessContext, id uuid.UUID, action string, fn func(*identity.Society) error) (*identity.Society, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}

	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(society); err != nil {
		return nil, err
	}

	if err := s.societyRepo.SaveWithLock(ctx, society); err != nil {
		return nil, err
	}

	s.logger.Info("Society "+action,
		zap.String("society_id", id.String()),
		zap.String("by", access.UserID.String()))

	return society, nil
}

// Update changes a society's basic information. Society admins update
// their own society; platform operators may update any.
func (s *SocietyService) Update(ctx context.Context, access identity.AccessContext, id uuid.UUID, input UpdateSocietyInput) (*identity.Society, error) {
	if !access.Role.CanManageSociety() {
		return nil, shared.ErrForbidden
	}
	if !access.CanAccessSociety(id) {
		return nil, shared.ErrNotFound
	}

	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := society.Update(input.Name, input.AddressLine, input.City, input.State, input.Pincode); err != nil {
		return nil, err
	}

	if err := s.societyRepo.SaveWithLock(ctx, society); err != nil {
		return nil, err
	}

	return society, nil
}

// Get returns one society within the caller's visibility
func (s *SocietyService) Get(ctx context.Context, access identity.AccessContext, id uuid.UUID) (*identity.Society, error) {
	if !access.CanAccessSociety(id) {
		return nil, shared.ErrNotFound
	}
	return s.societyRepo.FindByID(ctx, id)
}

// List returns societies, optionally filtered by status. Platform
// operators only: society members see exactly their own society via Get.
func (s *SocietyService) List(ctx context.Context, access identity.AccessContext, status identity.SocietyStatus, filter shared.Filter) (shared.Paginated[*identity.Society], error) {
	if !access.Role.IsPlatform() {
		return shared.Paginated[*identity.Society]{}, shared.ErrForbidden
	}
	return s.societyRepo.List(ctx, status, filter)
}

// Stats counts societies by lifecycle status. Platform operators only.
func (s *SocietyService) Stats(ctx context.Context, access identity.AccessContext) (*SocietyStats, error) {
	if !access.Role.IsPlatform() {
		return nil, shared.ErrForbidden
	}

	stats := &SocietyStats{}
	counts := []struct {
		status identity.SocietyStatus
		dest   *int64
	}{
		{"", &stats.Total},
		{identity.SocietyStatusPending, &stats.Pending},
		{identity.SocietyStatusActive, &stats.Active},
		{identity.SocietyStatusSuspended, &stats.Suspended},
	}
	for _, c := range counts {
		n, err := s.societyRepo.Count(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	return stats, nil
}
