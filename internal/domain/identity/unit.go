package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/shared"
	"github.com/societyos/backend/internal/domain/shared/valueobject"
)

// UnitType represents the kind of unit
type UnitType string

const (
	UnitTypeFlat  UnitType = "flat"
	UnitTypeVilla UnitType = "villa"
	UnitTypeShop  UnitType = "shop"
)

// IsValid returns true if the unit type is known
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeFlat, UnitTypeVilla, UnitTypeShop:
		return true
	default:
		return false
	}
}

// OccupancyStatus represents who, if anyone, lives in the unit
type OccupancyStatus string

const (
	OccupancyVacant        OccupancyStatus = "vacant"
	OccupancyOwnerOccupied OccupancyStatus = "owner_occupied"
	OccupancyRented        OccupancyStatus = "rented"
)

// Unit represents a single dwelling or shop inside a society.
// Invoices are raised against units, so every unit carries its
// monthly maintenance charge.
type Unit struct {
	shared.SocietyAggregateRoot
	Block             string          `gorm:"type:varchar(10);not null;index"`
	Number            string          `gorm:"type:varchar(10);not null"`
	Type              UnitType        `gorm:"type:varchar(20);not null;default:'flat'"`
	AreaSqft          decimal.Decimal `gorm:"type:decimal(10,2)"`
	MaintenanceCharge decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OwnerID           *uuid.UUID      `gorm:"type:uuid;index"`
	Occupancy         OccupancyStatus `gorm:"type:varchar(20);not null;default:'vacant'"`
	OccupantID        *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates a new unit in a society
func NewUnit(societyID uuid.UUID, block, number string, unitType UnitType, maintenanceCharge decimal.Decimal) (*Unit, error) {
	block = strings.ToUpper(strings.TrimSpace(block))
	number = strings.TrimSpace(number)

	if block == "" || len(block) > 10 {
		return nil, shared.NewDomainError("INVALID_BLOCK", "Block must be 1-10 characters")
	}
	if number == "" || len(number) > 10 {
		return nil, shared.NewDomainError("INVALID_UNIT_NUMBER", "Unit number must be 1-10 characters")
	}
	if !unitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT_TYPE", "Unknown unit type")
	}
	if maintenanceCharge.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CHARGE", "Maintenance charge cannot be negative")
	}

	return &Unit{
		SocietyAggregateRoot: shared.NewSocietyAggregateRoot(societyID),
		Block:                block,
		Number:               number,
		Type:                 unitType,
		MaintenanceCharge:    maintenanceCharge,
		Occupancy:            OccupancyVacant,
	}, nil
}

// Label returns the unit's display label, e.g. "A101".
// Invoice numbers embed this label.
func (u *Unit) Label() string {
	return fmt.Sprintf("%s%s", u.Block, u.Number)
}

// MonthlyCharge returns the maintenance charge as Money
func (u *Unit) MonthlyCharge() valueobject.Money {
	return valueobject.NewMoneyINR(u.MaintenanceCharge)
}

// SetMaintenanceCharge updates the monthly maintenance charge
func (u *Unit) SetMaintenanceCharge(charge decimal.Decimal) error {
	if charge.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Maintenance charge cannot be negative")
	}

	u.MaintenanceCharge = charge
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetArea sets the unit's area in square feet
func (u *Unit) SetArea(area decimal.Decimal) error {
	if area.IsNegative() {
		return shared.NewDomainError("INVALID_AREA", "Area cannot be negative")
	}

	u.AreaSqft = area
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetOwner records the unit's legal owner
func (u *Unit) SetOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Owner ID cannot be empty")
	}

	u.OwnerID = &ownerID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// BilledParty returns the user invoices for this unit should name:
// the occupant if someone lives there, otherwise the owner, otherwise
// nobody.
func (u *Unit) BilledParty() *uuid.UUID {
	if u.OccupantID != nil {
		return u.OccupantID
	}
	return u.OwnerID
}

// AssignOccupant records who currently occupies the unit
func (u *Unit) AssignOccupant(occupantID uuid.UUID, rented bool) error {
	if u.OccupantID != nil {
		return shared.NewDomainError("UNIT_OCCUPIED", "Unit already has an occupant")
	}

	u.OccupantID = &occupantID
	if rented {
		u.Occupancy = OccupancyRented
	} else {
		u.Occupancy = OccupancyOwnerOccupied
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Vacate clears the current occupant
func (u *Unit) Vacate() error {
	if u.OccupantID == nil {
		return shared.NewDomainError("UNIT_VACANT", "Unit has no occupant")
	}

	u.OccupantID = nil
	u.Occupancy = OccupancyVacant
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// IsOccupied returns true if someone occupies the unit
func (u *Unit) IsOccupied() bool {
	return u.OccupantID != nil
}
