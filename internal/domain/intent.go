package domain

import "time"

// Intent is the classified purpose of an incoming message.
type Intent string

const (
	IntentTicketCreate   Intent = "ticket_create"
	IntentTicketQuery    Intent = "ticket_query"
	IntentKnowledgeQuery Intent = "knowledge_query"
	IntentChitChat       Intent = "chit_chat"

	// IntentError is reported to chat callers when the flow failed. It is
	// never produced by an interpreter.
	IntentError Intent = "error"
)

// ParseIntent maps a label to a known interpreter intent.
func ParseIntent(label string) (Intent, bool) {
	switch Intent(label) {
	case IntentTicketCreate, IntentTicketQuery, IntentKnowledgeQuery, IntentChitChat:
		return Intent(label), true
	}
	return "", false
}

// ExtractedFields is partial ticket data pulled out of a message.
type ExtractedFields struct {
	Summary     string         `json:"summary"`
	Description string         `json:"description"`
	Assignee    *string        `json:"assignee"`
	Org         string         `json:"org"`
	Priority    TicketPriority `json:"priority"`
	DueDate     *time.Time     `json:"due_date"`
	Tags        []string       `json:"tags"`
}
