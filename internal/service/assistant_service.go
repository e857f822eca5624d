package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/domain"
	"github.com/spec-kit/ticket-assistant/internal/interpret"
	"github.com/spec-kit/ticket-assistant/internal/observability"
)

// ChatInput is one incoming chat message.
type ChatInput struct {
	Message string
	UserID  string
	Org     string
}

// ChatResult is the assistant's reply. TicketID is set only when a ticket
// was created.
type ChatResult struct {
	Response string
	TicketID string
	Intent   domain.Intent
}

// AssistantService routes chat messages to ticket creation, search or help.
type AssistantService struct {
	interpreter interpret.Interpreter
	tickets     *TicketService
	queries     *QueryService
	metrics     *observability.Metrics
	logger      *zap.Logger
	defaultUser string
	defaultOrg  string
}

// AssistantDependencies bundles collaborators for the assistant.
type AssistantDependencies struct {
	Interpreter   interpret.Interpreter
	TicketService *TicketService
	QueryService  *QueryService
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	DefaultUser   string
	DefaultOrg    string
}

// NewAssistantService creates the service.
func NewAssistantService(deps AssistantDependencies) *AssistantService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	user := deps.DefaultUser
	if user == "" {
		user = "default_user"
	}
	org := deps.DefaultOrg
	if org == "" {
		org = domain.DefaultOrg
	}
	return &AssistantService{
		interpreter: deps.Interpreter,
		tickets:     deps.TicketService,
		queries:     deps.QueryService,
		metrics:     deps.Metrics,
		logger:      logger,
		defaultUser: user,
		defaultOrg:  org,
	}
}

// Chat answers one message. It never returns an error today; failures
// become an apology with intent "error". An empty message is chit_chat.
func (a *AssistantService) Chat(ctx context.Context, in ChatInput) (ChatResult, error) {
	if in.UserID == "" {
		in.UserID = a.defaultUser
	}
	if in.Org == "" {
		in.Org = a.defaultOrg
	}

	interpretation := interpret.Interpret(ctx, a.interpreter, in.Message)
	intent := interpretation.Intent
	result := ChatResult{Intent: intent}

	switch intent {
	case domain.IntentTicketCreate:
		id, ticket, err := a.tickets.CreateTicket(ctx, in.Message, in.UserID, in.Org, *interpretation.Fields)
		if err != nil {
			a.logger.Error("chat failed", zap.String("intent", string(intent)), zap.Error(err))
			result = ChatResult{Response: "Sorry, I encountered an error: " + err.Error(), Intent: domain.IntentError}
			break
		}
		result.TicketID = id
		result.Response = describeTicket(ticket)
	case domain.IntentTicketQuery:
		result.Response = a.queries.AnswerTicketQuery(ctx, in.Message)
	case domain.IntentKnowledgeQuery:
		result.Response = a.queries.AnswerKnowledgeQuery(ctx, in.Message)
	default:
		result.Response = a.queries.AnswerGeneralQuery(in.Message)
	}

	a.metrics.RecordIntent(string(result.Intent))
	return result, nil
}
