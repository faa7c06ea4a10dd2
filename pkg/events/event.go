package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	TenantID() string
	OccurredAt() time.Time
}

// BaseEvent provides a default implementation of DomainEvent. Its fields are
// exported so that embedding events serialize the envelope alongside their
// own payload.
type BaseEvent struct {
	OccurredAtUTC time.Time `json:"occurred_at"`
	ID            string    `json:"event_id"`
	Type          string    `json:"event_type"`
	Aggregate     string    `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
	Tenant        string    `json:"tenant_id,omitempty"`
}

// NewBaseEvent creates a new BaseEvent with a generated ID and the current time.
func NewBaseEvent(eventType, aggregateID, aggregateType, tenantID string) BaseEvent {
	return BaseEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
		Tenant:        tenantID,
		OccurredAtUTC: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.AggregateKind }
func (e BaseEvent) TenantID() string      { return e.Tenant }
func (e BaseEvent) OccurredAt() time.Time { return e.OccurredAtUTC }

// Headers returns the transport headers that identify an event without
// decoding its payload.
func Headers(e DomainEvent) map[string]string {
	h := map[string]string{
		"event_id":       e.EventID(),
		"event_type":     e.EventType(),
		"aggregate_type": e.AggregateType(),
	}
	if tenant := e.TenantID(); tenant != "" {
		h["tenant_id"] = tenant
	}
	return h
}
