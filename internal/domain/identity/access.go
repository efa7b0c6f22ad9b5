package identity

import (
	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/shared"
)

// AccessContext carries the resolved identity of a request: who is
// calling, in what role, and which society (if any) bounds their view.
// A nil SocietyID means platform-wide access and is only ever produced
// for platform roles.
type AccessContext struct {
	UserID    uuid.UUID
	Role      Role
	SocietyID *uuid.UUID
}

// ResolveAccess builds an AccessContext from authenticated claims.
// Platform roles resolve to an unscoped context; any society ID in
// their claims is ignored. Society roles must carry a society ID or
// resolution fails.
func ResolveAccess(userID uuid.UUID, role Role, societyID *uuid.UUID) (AccessContext, error) {
	if userID == uuid.Nil {
		return AccessContext{}, shared.ErrUnauthenticated
	}
	if !role.IsValid() {
		return AccessContext{}, shared.NewDomainError("INVALID_ROLE", "Unknown role in credentials")
	}

	if role.IsPlatform() {
		return AccessContext{UserID: userID, Role: role, SocietyID: nil}, nil
	}

	if societyID == nil || *societyID == uuid.Nil {
		return AccessContext{}, shared.NewDomainError("UNAUTHENTICATED", "Society-scoped role without a society binding")
	}

	sid := *societyID
	return AccessContext{UserID: userID, Role: role, SocietyID: &sid}, nil
}

// IsPlatform returns true if the context has platform-wide access
func (a AccessContext) IsPlatform() bool {
	return a.SocietyID == nil
}

// CanAccessSociety returns true if the context may read data belonging
// to the given society
func (a AccessContext) CanAccessSociety(societyID uuid.UUID) bool {
	if a.IsPlatform() {
		return true
	}
	return *a.SocietyID == societyID
}

// RequireSociety returns the bound society ID, or an error for
// platform contexts that have no single society
func (a AccessContext) RequireSociety() (uuid.UUID, error) {
	if a.SocietyID == nil {
		return uuid.Nil, shared.NewDomainError("MISSING_SOCIETY", "Operation requires a society-scoped context")
	}
	return *a.SocietyID, nil
}
