package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

// TicketStatusOpen is the only status assigned on creation.
const TicketStatusOpen TicketStatus = "open"

// TicketPriority enumerates urgency, P0 being the most urgent.
type TicketPriority string

const (
	TicketPriorityP0 TicketPriority = "P0"
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
)

// DefaultPriority applies when nothing better was extracted.
const DefaultPriority = TicketPriorityP2

// DefaultOrg is the organization stamped on tickets when none is given.
const DefaultOrg = "vidina"

// Valid reports whether p is one of P0..P3.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityP0, TicketPriorityP1, TicketPriorityP2, TicketPriorityP3:
		return true
	}
	return false
}

// Ticket is a unit of work created from a chat message.
type Ticket struct {
	ID          string
	Summary     string
	Description string
	Assignee    *string
	Org         string
	Priority    TicketPriority
	DueDate     *time.Time
	Tags        []string
	Status      TicketStatus
	CreatedBy   string
	CreatedAt   time.Time
}

// AssigneeOr returns the assignee name or fallback when unassigned.
func (t *Ticket) AssigneeOr(fallback string) string {
	if t.Assignee == nil || *t.Assignee == "" {
		return fallback
	}
	return *t.Assignee
}
