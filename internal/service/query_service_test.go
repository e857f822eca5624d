package service

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/ticket-assistant/internal/repository"
)

func TestAnswerTicketQueryEmptyStore(t *testing.T) {
	h := newHarness(t, nil, nil)
	if got := h.queries.AnswerTicketQuery(context.Background(), "Show me all P1 tickets"); got != NoTicketsText {
		t.Fatalf("unexpected answer %q", got)
	}
}

func TestAnswerKnowledgeQueryEmptyStore(t *testing.T) {
	h := newHarness(t, nil, nil)
	if got := h.queries.AnswerKnowledgeQuery(context.Background(), "help"); got != NoKnowledgeText {
		t.Fatalf("unexpected answer %q", got)
	}
}

func TestAnswerQueriesSwallowSearchFailures(t *testing.T) {
	h := newHarness(t, failingStore{}, failingStore{})
	ctx := context.Background()
	if got := h.queries.AnswerTicketQuery(ctx, "find tickets"); got != NoTicketsText {
		t.Fatalf("unexpected ticket answer %q", got)
	}
	if got := h.queries.AnswerKnowledgeQuery(ctx, "how"); got != NoKnowledgeText {
		t.Fatalf("unexpected knowledge answer %q", got)
	}
}

func TestRenderTicketMatches(t *testing.T) {
	matches := []repository.Match{
		{Record: repository.Record{
			ID:   "ticket-aaaaaaaaaaaa",
			Text: "fix the login bug\n",
			Metadata: repository.Metadata{
				"id": "ticket-aaaaaaaaaaaa", "status": "open", "priority": "P1", "assignee": "John",
			},
		}},
		{Record: repository.Record{
			ID:   "ticket-bbbbbbbbbbbb",
			Text: "printer jam\n",
			Metadata: repository.Metadata{
				"id": "ticket-bbbbbbbbbbbb", "status": "open", "priority": "P2", "assignee": "",
			},
		}},
	}
	want := "Found 2 relevant tickets:\n\n" +
		"- Ticket ticket-aaaaaaaaaaaa [open P1 assignee:John]: fix the login bug\n" +
		"- Ticket ticket-bbbbbbbbbbbb [open P2 assignee:unassigned]: printer jam"

	first := RenderTicketMatches(matches)
	if first != want {
		t.Fatalf("unexpected rendering:\n%s", first)
	}
	if second := RenderTicketMatches(matches); second != first {
		t.Fatal("rendering must be deterministic")
	}
}

func TestRenderKnowledgeMatches(t *testing.T) {
	matches := []repository.Match{
		{Record: repository.Record{ID: "sop-001", Text: "reset steps", Metadata: repository.Metadata{"source": "SOP Database Management"}}},
		{Record: repository.Record{ID: "note", Text: "plain note"}},
	}
	want := "Here's what I found:\n\n- SOP Database Management: reset steps\n- Document: plain note"
	if got := RenderKnowledgeMatches(matches); got != want {
		t.Fatalf("unexpected rendering:\n%s", got)
	}
}

func TestAnswerKnowledgeQueryListsSeededDocuments(t *testing.T) {
	h := newHarness(t, nil, nil)
	ctx := context.Background()
	h.knowledge.Seed(ctx)

	got := h.queries.AnswerKnowledgeQuery(ctx, "how do I rotate an API key")
	if !strings.HasPrefix(got, "Here's what I found:\n\n- SOP Security: For API key rotation") {
		t.Fatalf("expected best match first, got %q", got)
	}
	if strings.Count(got, "\n- ") != 2 {
		t.Fatalf("expected both documents, got %q", got)
	}
}

func TestAnswerGeneralQueryIgnoresInput(t *testing.T) {
	h := newHarness(t, nil, nil)
	if h.queries.AnswerGeneralQuery("anything") != HelpText || h.queries.AnswerGeneralQuery("") != HelpText {
		t.Fatal("expected help text")
	}
}
