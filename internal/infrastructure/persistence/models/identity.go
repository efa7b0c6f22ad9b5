package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyos/backend/internal/domain/identity"
	"github.com/societyos/backend/internal/domain/shared"
)

// SocietyModel is the persistence model for the Society aggregate root.
type SocietyModel struct {
	AggregateModel
	Code         string                 `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name         string                 `gorm:"type:varchar(200);not null"`
	Status       identity.SocietyStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	AddressLine  string                 `gorm:"type:varchar(500)"`
	City         string                 `gorm:"type:varchar(100)"`
	State        string                 `gorm:"type:varchar(100)"`
	Pincode      string                 `gorm:"type:varchar(10)"`
	ContactName  string                 `gorm:"type:varchar(100)"`
	ContactPhone string                 `gorm:"type:varchar(50)"`
	ContactEmail string                 `gorm:"type:varchar(200)"`
	TotalUnits   int                    `gorm:"not null;default:0"`
	ApprovedAt   *time.Time
	SuspendedAt  *time.Time
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SocietyModel) TableName() string {
	return "societies"
}

// ToDomain converts the persistence model to a domain Society
func (m *SocietyModel) ToDomain() *identity.Society {
	return &identity.Society{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Status:            m.Status,
		AddressLine:       m.AddressLine,
		City:              m.City,
		State:             m.State,
		Pincode:           m.Pincode,
		ContactName:       m.ContactName,
		ContactPhone:      m.ContactPhone,
		ContactEmail:      m.ContactEmail,
		TotalUnits:        m.TotalUnits,
		ApprovedAt:        m.ApprovedAt,
		SuspendedAt:       m.SuspendedAt,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Society
func (m *SocietyModel) FromDomain(s *identity.Society) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.Status = s.Status
	m.AddressLine = s.AddressLine
	m.City = s.City
	m.State = s.State
	m.Pincode = s.Pincode
	m.ContactName = s.ContactName
	m.ContactPhone = s.ContactPhone
	m.ContactEmail = s.ContactEmail
	m.TotalUnits = s.TotalUnits
	m.ApprovedAt = s.ApprovedAt
	m.SuspendedAt = s.SuspendedAt
	m.Notes = s.Notes
}

// SocietyModelFromDomain creates a new persistence model from a domain Society
func SocietyModelFromDomain(s *identity.Society) *SocietyModel {
	m := &SocietyModel{}
	m.FromDomain(s)
	return m
}

// UserModel is the persistence model for the User aggregate root.
// SocietyID is nullable: platform operators have no society.
type UserModel struct {
	AggregateModel
	SocietyID      *uuid.UUID          `gorm:"type:uuid;index"`
	UnitID         *uuid.UUID          `gorm:"type:uuid;index"`
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone          string              `gorm:"type:varchar(50)"`
	PasswordHash   string              `gorm:"type:varchar(200);not null"`
	Name           string              `gorm:"type:varchar(200);not null"`
	Role           identity.Role       `gorm:"type:varchar(20);not null;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SocietyID:         m.SocietyID,
		UnitID:            m.UnitID,
		Email:             m.Email,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Role:              m.Role,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.SocietyID = u.SocietyID
	m.UnitID = u.UnitID
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UnitModel is the persistence model for the Unit aggregate root.
// The society column is declared here rather than via SocietyAggregateModel
// so it can join the composite unique index on (society_id, block, number):
// two units in one society can never share a label.
type UnitModel struct {
	AggregateModel
	SocietyID         uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_unit_society_label,priority:1"`
	Block             string                   `gorm:"type:varchar(10);not null;uniqueIndex:idx_unit_society_label,priority:2"`
	Number            string                   `gorm:"type:varchar(10);not null;uniqueIndex:idx_unit_society_label,priority:3"`
	Type              identity.UnitType        `gorm:"type:varchar(20);not null;default:'flat'"`
	AreaSqft          decimal.Decimal          `gorm:"type:decimal(10,2)"`
	MaintenanceCharge decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	OwnerID           *uuid.UUID               `gorm:"type:uuid;index"`
	Occupancy         identity.OccupancyStatus `gorm:"type:varchar(20);not null;default:'vacant'"`
	OccupantID        *uuid.UUID               `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit
func (m *UnitModel) ToDomain() *identity.Unit {
	return &identity.Unit{
		SocietyAggregateRoot: shared.SocietyAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			SocietyID:         m.SocietyID,
		},
		Block:                m.Block,
		Number:               m.Number,
		Type:                 m.Type,
		AreaSqft:             m.AreaSqft,
		MaintenanceCharge:    m.MaintenanceCharge,
		OwnerID:              m.OwnerID,
		Occupancy:            m.Occupancy,
		OccupantID:           m.OccupantID,
	}
}

// FromDomain populates the persistence model from a domain Unit
func (m *UnitModel) FromDomain(u *identity.Unit) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.SocietyID = u.SocietyID
	m.Block = u.Block
	m.Number = u.Number
	m.Type = u.Type
	m.AreaSqft = u.AreaSqft
	m.MaintenanceCharge = u.MaintenanceCharge
	m.OwnerID = u.OwnerID
	m.Occupancy = u.Occupancy
	m.OccupantID = u.OccupantID
}

// UnitModelFromDomain creates a new persistence model from a domain Unit
func UnitModelFromDomain(u *identity.Unit) *UnitModel {
	m := &UnitModel{}
	m.FromDomain(u)
	return m
}
