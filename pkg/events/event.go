package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	SubjectID() string
	SubjectType() string
	OccurredAt() time.Time
}

// BaseEvent provides a default implementation of DomainEvent.
type BaseEvent struct {
	id          uuid.UUID
	eventType   string
	subjectID   string
	subjectType string
	occurredAt  time.Time
}

// NewBaseEvent creates a new BaseEvent with a generated UUID and the current time.
func NewBaseEvent(eventType, subjectID, subjectType string) BaseEvent {
	return BaseEvent{
		id:          uuid.New(),
		eventType:   eventType,
		subjectID:   subjectID,
		subjectType: subjectType,
		occurredAt:  time.Now().UTC(),
	}
}

// EventID returns the unique identifier for this event.
func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

// EventType returns the type name of this event.
func (e BaseEvent) EventType() string {
	return e.eventType
}

// SubjectID returns the identifier of the entity this event is about.
func (e BaseEvent) SubjectID() string {
	return e.subjectID
}

// SubjectType returns the type name of the entity this event is about.
func (e BaseEvent) SubjectType() string {
	return e.subjectType
}

// OccurredAt returns the time at which this event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}
