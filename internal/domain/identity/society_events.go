package identity

import (
	"github.com/societyos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSociety = "Society"

// Event type constants
const (
	EventTypeSocietyRegistered    = "SocietyRegistered"
	EventTypeSocietyStatusChanged = "SocietyStatusChanged"
)

// SocietyRegisteredEvent is published when a new society registers
type SocietyRegisteredEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

// NewSocietyRegisteredEvent creates a new SocietyRegisteredEvent
func NewSocietyRegisteredEvent(society *Society) *SocietyRegisteredEvent {
	return &SocietyRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSocietyRegistered, AggregateTypeSociety, society.ID, society.ID),
		Code:            society.Code,
		Name:            society.Name,
		City:            society.City,
	}
}

// SocietyStatusChangedEvent is published when a society's status changes
type SocietyStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string        `json:"code"`
	OldStatus SocietyStatus `json:"old_status"`
	NewStatus SocietyStatus `json:"new_status"`
}

// NewSocietyStatusChangedEvent creates a new SocietyStatusChangedEvent
func NewSocietyStatusChangedEvent(society *Society, oldStatus, newStatus SocietyStatus) *SocietyStatusChangedEvent {
	return &SocietyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSocietyStatusChanged, AggregateTypeSociety, society.ID, society.ID),
		Code:            society.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
