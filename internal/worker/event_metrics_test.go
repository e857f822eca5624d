package worker

import (
	"context"
	"testing"

	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/observability"
)

func TestStartEventMetricsCountsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	metrics := observability.NewMetrics()
	StartEventMetrics(dispatcher, metrics)

	ctx := context.Background()
	for _, e := range []events.Event{
		{Type: events.EventKnowledgeAdded, Payload: events.KnowledgeAddedPayload{DocumentID: "kb-1"}},
		{Type: events.EventKnowledgeAdded, Payload: events.KnowledgeAddedPayload{DocumentID: "kb-2"}},
		{Type: events.EventTicketCreated, TicketID: "ticket-abc"},
	} {
		if err := dispatcher.Publish(ctx, e); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	got := metrics.Snapshot().Events
	if got["knowledge_added"] != 2 || got["ticket_created"] != 1 {
		t.Fatalf("unexpected event counts %v", got)
	}
}

func TestStartEventMetricsNilSafe(t *testing.T) {
	StartEventMetrics(nil, observability.NewMetrics())
	StartEventMetrics(events.NewInMemoryDispatcher(nil), nil)
}
