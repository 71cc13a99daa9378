package events

import (
	"context"
	"time"
)

type EventType string

const (
	EventUserRegistered    EventType = "user.registered"
	EventUserPromoted      EventType = "user.promoted"
	EventUserRemoved       EventType = "user.removed"
	EventEnrollmentCreated EventType = "enrollment.created"
	EventEnrollmentRemoved EventType = "enrollment.removed"
	EventQuizCreated       EventType = "quiz.created"
	EventQuizToggled       EventType = "quiz.toggled"
	EventQuizDeleted       EventType = "quiz.deleted"
	EventQuizSubmitted     EventType = "quiz.submitted"
)

// Event is the envelope published on every state change worth observing.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	ActorID    uint           `json:"actor_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// EventPublisher decouples services from the message transport.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
