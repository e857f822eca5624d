package events

import (
	"time"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventKnowledgeAdded EventType = "knowledge_added"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string `json:"user_id"`
	Org    string `json:"org,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries a copy of the persisted ticket.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// KnowledgeAddedPayload payload.
type KnowledgeAddedPayload struct {
	DocumentID string `json:"document_id"`
	Source     string `json:"source,omitempty"`
}
