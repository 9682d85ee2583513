package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeleted     EventType = "user_deleted"
	EventRoleAssigned    EventType = "role_assigned"
	EventPasswordChanged EventType = "password_changed"
	EventLogin           EventType = "login"
	EventLogout          EventType = "logout"
)

// AuditTypes lists every event recorded in the audit trail.
var AuditTypes = []EventType{
	EventUserCreated,
	EventUserUpdated,
	EventUserDeleted,
	EventRoleAssigned,
	EventPasswordChanged,
	EventLogin,
	EventLogout,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	ActorID   string         `json:"actor_id,omitempty"`
	TargetID  string         `json:"target_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, actorID, targetID string, payload map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		TargetID:  targetID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
