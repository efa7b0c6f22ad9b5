package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyos/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// SocietyAggregateModel provides common persistence fields for
// society-scoped aggregate roots. Every row carries the owning society,
// which the datascope filters key on.
type SocietyAggregateModel struct {
	AggregateModel
	SocietyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainSocietyAggregateRoot populates SocietyAggregateModel from domain SocietyAggregateRoot
func (m *SocietyAggregateModel) FromDomainSocietyAggregateRoot(s shared.SocietyAggregateRoot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SocietyID = s.SocietyID
}

// ToDomainSocietyAggregateRoot converts SocietyAggregateModel to domain SocietyAggregateRoot
func (m *SocietyAggregateModel) ToDomainSocietyAggregateRoot() shared.SocietyAggregateRoot {
	return shared.SocietyAggregateRoot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SocietyID:         m.SocietyID,
	}
}
