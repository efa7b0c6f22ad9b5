package identity

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/societyos/backend/internal/domain/shared"
)

// SocietyStatus represents the lifecycle status of a society
type SocietyStatus string

const (
	SocietyStatusPending   SocietyStatus = "pending"   // Registered, awaiting platform approval
	SocietyStatusActive    SocietyStatus = "active"    // Approved and operational
	SocietyStatusSuspended SocietyStatus = "suspended" // Suspended for non-payment or violation
)

// IsValid returns true if the status is a known status
func (s SocietyStatus) IsValid() bool {
	switch s {
	case SocietyStatusPending, SocietyStatusActive, SocietyStatusSuspended:
		return true
	default:
		return false
	}
}

// Society represents a residential society on the platform.
// It is the aggregate root for society-related operations and the
// boundary that all scoped data belongs to.
type Society struct {
	shared.BaseAggregateRoot
	Code         string        `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Status       SocietyStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	AddressLine  string        `gorm:"type:varchar(500)"`
	City         string        `gorm:"type:varchar(100)"`
	State        string        `gorm:"type:varchar(100)"`
	Pincode      string        `gorm:"type:varchar(10)"`
	ContactName  string        `gorm:"type:varchar(100)"`
	ContactPhone string        `gorm:"type:varchar(50)"`
	ContactEmail string        `gorm:"type:varchar(200)"`
	TotalUnits   int           `gorm:"not null;default:0"`
	ApprovedAt   *time.Time
	SuspendedAt  *time.Time
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Society) TableName() string {
	return "societies"
}

// NewSociety registers a new society in pending status.
// The code is derived from the name plus a random numeric suffix so
// two societies with similar names stay distinguishable.
func NewSociety(name, city, state string) (*Society, error) {
	if err := validateSocietyName(name); err != nil {
		return nil, err
	}

	society := &Society{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              GenerateSocietyCode(name),
		Name:              strings.TrimSpace(name),
		Status:            SocietyStatusPending,
		City:              strings.TrimSpace(city),
		State:             strings.TrimSpace(state),
	}

	society.AddDomainEvent(NewSocietyRegisteredEvent(society))

	return society, nil
}

// GenerateSocietyCode derives a short unique-ish code from the name:
// first three letters upper-cased plus a 4-digit random suffix.
func GenerateSocietyCode(name string) string {
	prefix := strings.Builder{}
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			prefix.WriteRune(r)
			if prefix.Len() == 3 {
				break
			}
		}
	}
	for prefix.Len() < 3 {
		prefix.WriteByte('X')
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return prefix.String() + padDigits(suffix, 4)
}

func padDigits(n int64, width int) string {
	digits := []byte{}
	for i := 0; i < width; i++ {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Update updates the society's basic information
func (s *Society) Update(name, addressLine, city, state, pincode string) error {
	if err := validateSocietyName(name); err != nil {
		return err
	}
	if pincode != "" && len(pincode) != 6 {
		return shared.NewDomainError("INVALID_PINCODE", "Pincode must be 6 digits")
	}

	s.Name = strings.TrimSpace(name)
	s.AddressLine = strings.TrimSpace(addressLine)
	s.City = strings.TrimSpace(city)
	s.State = strings.TrimSpace(state)
	s.Pincode = pincode
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetContact sets the society's contact information
func (s *Society) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	s.ContactName = contactName
	s.ContactPhone = phone
	s.ContactEmail = email
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Approve transitions a pending society to active
func (s *Society) Approve() error {
	if s.Status != SocietyStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending societies can be approved")
	}

	now := time.Now()
	s.Status = SocietyStatusActive
	s.ApprovedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSocietyStatusChangedEvent(s, SocietyStatusPending, SocietyStatusActive))

	return nil
}

// Suspend suspends an active society
func (s *Society) Suspend() error {
	if s.Status != SocietyStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active societies can be suspended")
	}

	now := time.Now()
	oldStatus := s.Status
	s.Status = SocietyStatusSuspended
	s.SuspendedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSocietyStatusChangedEvent(s, oldStatus, SocietyStatusSuspended))

	return nil
}

// Reactivate restores a suspended society to active
func (s *Society) Reactivate() error {
	if s.Status != SocietyStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended societies can be reactivated")
	}

	s.Status = SocietyStatusActive
	s.SuspendedAt = nil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSocietyStatusChangedEvent(s, SocietyStatusSuspended, SocietyStatusActive))

	return nil
}

// IsActive returns true if the society is active
func (s *Society) IsActive() bool {
	return s.Status == SocietyStatusActive
}

// IsSuspended returns true if the society is suspended
func (s *Society) IsSuspended() bool {
	return s.Status == SocietyStatusSuspended
}

func validateSocietyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Society name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Society name cannot exceed 200 characters")
	}
	return nil
}
