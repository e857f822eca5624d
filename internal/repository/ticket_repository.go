package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// TicketFilter narrows ticket searches by exact metadata values.
type TicketFilter struct {
	Priority domain.TicketPriority
	Assignee string
	Status   domain.TicketStatus
	Org      string
}

func (f TicketFilter) metadata() Metadata {
	m := Metadata{}
	if f.Priority != "" {
		m[metaPriority] = string(f.Priority)
	}
	if f.Assignee != "" {
		m[metaAssignee] = f.Assignee
	}
	if f.Status != "" {
		m[metaStatus] = string(f.Status)
	}
	if f.Org != "" {
		m[metaOrg] = f.Org
	}
	return m
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context) ([]domain.Ticket, error)
	Search(ctx context.Context, query string, k int, filter TicketFilter) ([]Match, error)
}

type ticketRepository struct {
	store DocumentStore
}

// NewTicketRepository instantiates repository over the tickets collection.
func NewTicketRepository(store DocumentStore) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.store.Add(ctx, ticket.ID, TicketText(ticket), TicketMetadata(ticket))
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	records, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(records))
	for _, rec := range records {
		ticket, err := TicketFromMetadata(rec.Metadata)
		if err != nil {
			return nil, fmt.Errorf("restore ticket %s: %w", rec.ID, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (r *ticketRepository) Search(ctx context.Context, query string, k int, filter TicketFilter) ([]Match, error) {
	return r.store.Query(ctx, query, k, filter.metadata())
}
