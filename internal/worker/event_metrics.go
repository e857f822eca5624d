package worker

import (
	"context"

	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/observability"
)

// StartEventMetrics counts every ticket_created and knowledge_added event.
func StartEventMetrics(dispatcher events.Dispatcher, metrics *observability.Metrics) {
	if dispatcher == nil || metrics == nil {
		return
	}
	count := func(_ context.Context, event events.Event) error {
		metrics.RecordEvent(string(event.Type))
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, count)
	dispatcher.Subscribe(events.EventKnowledgeAdded, count)
}
