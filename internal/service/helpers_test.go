package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/domain"
	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/interpret"
	"github.com/spec-kit/ticket-assistant/internal/observability"
	"github.com/spec-kit/ticket-assistant/internal/repository"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

var errStoreDown = errors.New("connection refused")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Add(context.Context, string, string, repository.Metadata) error {
	return errStoreDown
}

func (failingStore) Get(context.Context) ([]repository.Record, error) {
	return nil, errStoreDown
}

func (failingStore) Query(context.Context, string, int, repository.Metadata) ([]repository.Match, error) {
	return nil, errStoreDown
}

func (failingStore) Ping(context.Context) error { return errStoreDown }

// fixedInterpreter returns canned answers.
type fixedInterpreter struct {
	intent domain.Intent
	fields domain.ExtractedFields
}

func (f fixedInterpreter) Classify(context.Context, string) domain.Intent { return f.intent }

func (f fixedInterpreter) Extract(context.Context, string) domain.ExtractedFields { return f.fields }

type harness struct {
	ticketStore    repository.DocumentStore
	knowledgeStore repository.DocumentStore
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	tickets        *TicketService
	queries        *QueryService
	knowledge      *KnowledgeService
	assistant      *AssistantService
	published      []events.Event
}

func newHarness(t *testing.T, ticketStore, knowledgeStore repository.DocumentStore) *harness {
	t.Helper()
	if ticketStore == nil {
		ticketStore = repository.NewMemoryStore()
	}
	if knowledgeStore == nil {
		knowledgeStore = repository.NewMemoryStore()
	}
	h := &harness{
		ticketStore:    ticketStore,
		knowledgeStore: knowledgeStore,
		dispatcher:     events.NewInMemoryDispatcher(nil),
		metrics:        observability.NewMetrics(),
	}
	h.dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		h.published = append(h.published, e)
		return nil
	})

	logger := zap.NewNop()
	interpreter := interpret.NewKeywordInterpreter("vidina", interpret.WithClock(testClock))
	ticketRepo := repository.NewTicketRepository(ticketStore)
	knowledgeRepo := repository.NewKnowledgeRepository(knowledgeStore)

	h.tickets = NewTicketService(TicketDependencies{
		TicketRepo:  ticketRepo,
		Interpreter: interpreter,
		Dispatcher:  h.dispatcher,
		Logger:      logger,
		Clock:       testClock,
	})
	h.queries = NewQueryService(QueryDependencies{
		TicketRepo:    ticketRepo,
		KnowledgeRepo: knowledgeRepo,
		Logger:        logger,
	})
	h.knowledge = NewKnowledgeService(KnowledgeDependencies{
		KnowledgeRepo: knowledgeRepo,
		Dispatcher:    h.dispatcher,
		Logger:        logger,
	})
	h.assistant = NewAssistantService(AssistantDependencies{
		Interpreter:   interpreter,
		TicketService: h.tickets,
		QueryService:  h.queries,
		Metrics:       h.metrics,
		Logger:        logger,
	})
	return h
}
