package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/identity"
)

// LoginInput contains login request data
type LoginInput struct {
	Email    string
	Password string
}

// UserInfo is the user payload returned by auth operations
type UserInfo struct {
	ID        uuid.UUID  `json:"id"`
	SocietyID *uuid.UUID `json:"society_id,omitempty"`
	UnitID    *uuid.UUID `json:"unit_id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
}

// NewUserInfo builds the auth payload from a domain user
func NewUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.GetID(),
		SocietyID: u.SocietyID,
		UnitID:    u.UnitID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
	}
}

// LoginResult contains the authentication result
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenResult contains the refreshed token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// ChangePasswordInput contains a password change request
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// RegisterSocietyInput registers a new society together with its
// bootstrap administrator account
type RegisterSocietyInput struct {
	Name          string
	City          string
	State         string
	AddressLine   string
	Pincode       string
	ContactName   string
	ContactPhone  string
	ContactEmail  string
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// RegisterSocietyResult is the outcome of a society registration
type RegisterSocietyResult struct {
	Society *identity.Society
	Admin   *identity.User
}

// UpdateSocietyInput updates a society's basic information
type UpdateSocietyInput struct {
	Name        string
	AddressLine string
	City        string
	State       string
	Pincode     string
}

// SocietyStats counts societies by lifecycle status
type SocietyStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Active    int64 `json:"active"`
	Suspended int64 `json:"suspended"`
}

// CreateUnitInput creates a unit inside the caller's society
type CreateUnitInput struct {
	SocietyID         *uuid.UUID // required for platform callers, ignored otherwise
	Block             string
	Number            string
	Type              identity.UnitType
	AreaSqft          decimal.Decimal
	MaintenanceCharge decimal.Decimal
}

// AssignOccupantInput places a user in a unit
type AssignOccupantInput struct {
	UnitID     uuid.UUID
	OccupantID uuid.UUID
	Rented     bool
}

// CreateUserInput creates a member account inside a society
type CreateUserInput struct {
	SocietyID *uuid.UUID // required for platform callers, ignored otherwise
	Email     string
	Password  string
	Name      string
	Phone     string
	Role      identity.Role
	UnitID    *uuid.UUID
}
