package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/domain"
	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/interpret"
	"github.com/spec-kit/ticket-assistant/internal/repository"
	apperrors "github.com/spec-kit/ticket-assistant/pkg/util"
)

// fallbackSummaryLimit bounds the raw-message summary used when extraction
// produced none.
const fallbackSummaryLimit = 140

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	interpreter interpret.Interpreter
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	Interpreter interpret.Interpreter
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		interpreter: deps.Interpreter,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         clock,
	}
}

// CreateTicketFromMessage extracts fields from message and creates the ticket.
func (s *TicketService) CreateTicketFromMessage(ctx context.Context, message, userID, org string) (string, *domain.Ticket, error) {
	return s.CreateTicket(ctx, message, userID, org, s.interpreter.Extract(ctx, message))
}

// CreateTicket persists a new open ticket built from already extracted
// fields and announces it. Nothing is announced when the write fails.
func (s *TicketService) CreateTicket(ctx context.Context, message, userID, org string, fields domain.ExtractedFields) (string, *domain.Ticket, error) {
	ticket := s.buildTicket(message, userID, org, fields)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("ticket create failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return "", nil, apperrors.NewStoreUnavailable(repository.CollectionTickets, err)
	}
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("priority", string(ticket.Priority)),
		zap.String("created_by", ticket.CreatedBy),
	)

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: userID, Org: ticket.Org},
		Payload:  events.TicketCreatedPayload{Ticket: *ticket},
	})
	return ticket.ID, ticket, nil
}

func (s *TicketService) buildTicket(message, userID, org string, fields domain.ExtractedFields) *domain.Ticket {
	summary := fields.Summary
	if summary == "" {
		summary = interpret.Truncate(message, fallbackSummaryLimit)
	}
	priority := fields.Priority
	if !priority.Valid() {
		priority = domain.DefaultPriority
	}
	ticketOrg := fields.Org
	if ticketOrg == "" {
		ticketOrg = org
	}
	if ticketOrg == "" {
		ticketOrg = domain.DefaultOrg
	}
	tags := fields.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Ticket{
		ID:          generateTicketID(),
		Summary:     summary,
		Description: fields.Description,
		Assignee:    fields.Assignee,
		Org:         ticketOrg,
		Priority:    priority,
		DueDate:     fields.DueDate,
		Tags:        tags,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   userID,
		CreatedAt:   s.now().UTC(),
	}
}

// ListTickets returns every stored ticket in creation order.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(repository.CollectionTickets, err)
	}
	return tickets, nil
}

// TicketSearchInput describes a filtered similarity search.
type TicketSearchInput struct {
	Query    string
	Limit    int
	Priority string
	Assignee string
	Status   string
}

// SearchTickets ranks tickets against a free-text query.
func (s *TicketService) SearchTickets(ctx context.Context, input TicketSearchInput) ([]repository.Match, error) {
	filter := repository.TicketFilter{
		Assignee: strings.TrimSpace(input.Assignee),
		Status:   domain.TicketStatus(strings.ToLower(strings.TrimSpace(input.Status))),
	}
	if p := strings.TrimSpace(input.Priority); p != "" {
		filter.Priority = domain.TicketPriority(strings.ToUpper(p))
		if !filter.Priority.Valid() {
			return nil, apperrors.NewValidationError("priority must be one of P0, P1, P2, P3", map[string]any{"priority": p})
		}
	}
	if input.Limit <= 0 {
		return nil, apperrors.NewValidationError("k must be positive", map[string]any{"k": input.Limit})
	}
	matches, err := s.tickets.Search(ctx, input.Query, input.Limit, filter)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(repository.CollectionTickets, err)
	}
	return matches, nil
}

// generateTicketID draws a random identifier; no coordination between
// concurrent callers is needed.
func generateTicketID() string {
	return "ticket-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func describeTicket(t *domain.Ticket) string {
	return fmt.Sprintf("✅ Created ticket **%s** for **%s** at priority **%s**.\n\nSummary: %s",
		t.ID, t.AssigneeOr("unassigned"), t.Priority, t.Summary)
}
