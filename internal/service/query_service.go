package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/repository"
)

// Fixed answers.
const (
	NoTicketsText   = "No tickets found matching your query."
	NoKnowledgeText = "No knowledge documents found. Try asking about ticket management or general help."
	HelpText        = "I can help you with:\n\n" +
		"1. **Create tickets**: \"Create a ticket for John: fix the login bug, priority P1\"\n" +
		"2. **Search tickets**: \"Show me all P1 tickets\" or \"Find tickets assigned to Sarah\"\n" +
		"3. **General help**: Ask about procedures, SOPs, or how things work\n\n" +
		"Try asking me something!"
)

// DefaultSearchLimit is the number of matches rendered per answer.
const DefaultSearchLimit = 5

// QueryService answers ticket and knowledge questions from search results.
type QueryService struct {
	tickets   repository.TicketRepository
	knowledge repository.KnowledgeRepository
	limit     int
	logger    *zap.Logger
}

// QueryDependencies bundles collaborators for the query service.
type QueryDependencies struct {
	TicketRepo    repository.TicketRepository
	KnowledgeRepo repository.KnowledgeRepository
	SearchLimit   int
	Logger        *zap.Logger
}

// NewQueryService creates the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	limit := deps.SearchLimit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		tickets:   deps.TicketRepo,
		knowledge: deps.KnowledgeRepo,
		limit:     limit,
		logger:    logger,
	}
}

// AnswerTicketQuery searches tickets with the raw message. Search failures
// are logged and answered as if nothing matched.
func (s *QueryService) AnswerTicketQuery(ctx context.Context, message string) string {
	matches, err := s.tickets.Search(ctx, message, s.limit, repository.TicketFilter{})
	if err != nil {
		s.logger.Warn("ticket search failed", zap.Error(err))
		matches = nil
	}
	return RenderTicketMatches(matches)
}

// AnswerKnowledgeQuery searches the knowledge base with the raw message.
func (s *QueryService) AnswerKnowledgeQuery(ctx context.Context, message string) string {
	matches, err := s.knowledge.Search(ctx, message, s.limit)
	if err != nil {
		s.logger.Warn("knowledge search failed", zap.Error(err))
		matches = nil
	}
	return RenderKnowledgeMatches(matches)
}

// AnswerGeneralQuery returns the help text whatever the message.
func (s *QueryService) AnswerGeneralQuery(string) string {
	return HelpText
}

// RenderTicketMatches formats ticket search results.
func RenderTicketMatches(matches []repository.Match) string {
	if len(matches) == 0 {
		return NoTicketsText
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		md := m.Metadata
		id := md["id"]
		if id == "" {
			id = m.ID
		}
		assignee := md["assignee"]
		if assignee == "" {
			assignee = "unassigned"
		}
		lines[i] = fmt.Sprintf("- Ticket %s [%s %s assignee:%s]: %s",
			id, md["status"], md["priority"], assignee, strings.TrimSpace(m.Text))
	}
	return fmt.Sprintf("Found %d relevant tickets:\n\n", len(matches)) + strings.Join(lines, "\n")
}

// RenderKnowledgeMatches formats knowledge search results.
func RenderKnowledgeMatches(matches []repository.Match) string {
	if len(matches) == 0 {
		return NoKnowledgeText
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		source := m.Metadata["source"]
		if source == "" {
			source = "Document"
		}
		lines[i] = fmt.Sprintf("- %s: %s", source, strings.TrimSpace(m.Text))
	}
	return "Here's what I found:\n\n" + strings.Join(lines, "\n")
}
