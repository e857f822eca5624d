package dto

import (
	"time"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// TicketResponse is the public ticket representation.
type TicketResponse struct {
	ID          string                `json:"id"`
	Summary     string                `json:"summary"`
	Description string                `json:"description"`
	Assignee    *string               `json:"assignee"`
	Org         string                `json:"org"`
	Priority    domain.TicketPriority `json:"priority"`
	DueDate     *time.Time            `json:"due_date"`
	Tags        []string              `json:"tags"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedBy   string                `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TicketListResponse wraps every stored ticket.
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

// TicketSearchQuery captures GET /tickets/search parameters.
type TicketSearchQuery struct {
	Query    string `query:"q"`
	K        int    `query:"k"`
	Priority string `query:"priority"`
	Assignee string `query:"assignee"`
	Status   string `query:"status"`
}

// TicketMatchResponse is one ranked search result.
type TicketMatchResponse struct {
	Ticket TicketResponse `json:"ticket"`
	Score  float64        `json:"score"`
}

// TicketSearchResponse wraps ranked matches.
type TicketSearchResponse struct {
	Matches []TicketMatchResponse `json:"matches"`
	Total   int                   `json:"total"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:          t.ID,
		Summary:     t.Summary,
		Description: t.Description,
		Assignee:    t.Assignee,
		Org:         t.Org,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Tags:        tags,
		Status:      t.Status,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}
