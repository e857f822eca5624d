package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/config"
	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/interpret"
	"github.com/spec-kit/ticket-assistant/internal/observability"
	"github.com/spec-kit/ticket-assistant/internal/repository"
	"github.com/spec-kit/ticket-assistant/internal/service"
)

// application holds the wired services shared by every command.
type application struct {
	stores        *storeSet
	metrics       *observability.Metrics
	dispatcher    events.Dispatcher
	tickets       *service.TicketService
	queries       *service.QueryService
	knowledge     *service.KnowledgeService
	notifications *service.NotificationService
	assistant     *service.AssistantService
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	interpreter, err := newInterpreter(ctx, cfg, logger)
	if err != nil {
		stores.close()
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher(func(e events.Event, err error) {
		logger.Warn("event handler failed", zap.String("type", string(e.Type)), zap.Error(err))
	})
	metrics := observability.NewMetrics()
	ticketRepo := repository.NewTicketRepository(stores.tickets)
	knowledgeRepo := repository.NewKnowledgeRepository(stores.knowledge)

	app := &application{stores: stores, metrics: metrics, dispatcher: dispatcher}
	app.tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		Interpreter: interpreter,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	app.queries = service.NewQueryService(service.QueryDependencies{
		TicketRepo:    ticketRepo,
		KnowledgeRepo: knowledgeRepo,
		SearchLimit:   cfg.Store.SearchLimit,
		Logger:        logger,
	})
	app.knowledge = service.NewKnowledgeService(service.KnowledgeDependencies{
		KnowledgeRepo: knowledgeRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
		SeedFile:      cfg.Assistant.KnowledgeSeedFile,
	})
	app.notifications = service.NewNotificationService(dispatcher, logger, cfg.Notification)
	app.assistant = service.NewAssistantService(service.AssistantDependencies{
		Interpreter:   interpreter,
		TicketService: app.tickets,
		QueryService:  app.queries,
		Metrics:       metrics,
		Logger:        logger,
		DefaultUser:   cfg.Assistant.DefaultUser,
		DefaultOrg:    cfg.Assistant.DefaultOrg,
	})
	return app, nil
}

func (a *application) Close() {
	a.stores.close()
}

// newInterpreter selects the keyword rules or the Gemini-backed
// interpreter with keyword fallback.
func newInterpreter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (interpret.Interpreter, error) {
	keywords := interpret.NewKeywordInterpreter(cfg.Assistant.DefaultOrg)
	if cfg.Assistant.Interpreter != config.InterpreterGemini {
		return keywords, nil
	}
	generator, err := interpret.NewGeminiGenerator(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	logger.Info("using gemini interpreter", zap.String("model", cfg.LLM.Model))
	return interpret.NewLLMInterpreter(generator, keywords, logger), nil
}
