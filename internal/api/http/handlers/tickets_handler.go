package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-assistant/internal/api/dto"
	"github.com/spec-kit/ticket-assistant/internal/repository"
	"github.com/spec-kit/ticket-assistant/internal/service"
	apperrors "github.com/spec-kit/ticket-assistant/pkg/util"
)

// TicketsHandler manages ticket listing and search endpoints.
type TicketsHandler struct {
	service      *service.TicketService
	defaultLimit int
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, defaultLimit int) *TicketsHandler {
	if defaultLimit <= 0 {
		defaultLimit = service.DefaultSearchLimit
	}
	return &TicketsHandler{service: ticketService, defaultLimit: defaultLimit}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t))
	}
	return c.JSON(dto.TicketListResponse{Tickets: items, Total: len(items)})
}

// SearchTickets GET /tickets/search.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	var q dto.TicketSearchQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query parameters", nil)
	}
	if q.K == 0 {
		q.K = h.defaultLimit
	}
	matches, err := h.service.SearchTickets(c.UserContext(), service.TicketSearchInput{
		Query:    q.Query,
		Limit:    q.K,
		Priority: q.Priority,
		Assignee: q.Assignee,
		Status:   q.Status,
	})
	if err != nil {
		return err
	}

	items := make([]dto.TicketMatchResponse, 0, len(matches))
	for _, m := range matches {
		ticket, err := repository.TicketFromMetadata(m.Metadata)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		items = append(items, dto.TicketMatchResponse{Ticket: dto.NewTicketResponse(ticket), Score: m.Score})
	}
	return c.JSON(dto.TicketSearchResponse{Matches: items, Total: len(items)})
}
