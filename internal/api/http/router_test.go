package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/ticket-assistant/internal/api/http"
	"github.com/spec-kit/ticket-assistant/internal/api/http/handlers"
	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/interpret"
	"github.com/spec-kit/ticket-assistant/internal/observability"
	"github.com/spec-kit/ticket-assistant/internal/repository"
	"github.com/spec-kit/ticket-assistant/internal/service"
)

type brokenStore struct{}

var errBroken = errors.New("store offline")

func (brokenStore) Add(context.Context, string, string, repository.Metadata) error { return errBroken }
func (brokenStore) Get(context.Context) ([]repository.Record, error)               { return nil, errBroken }
func (brokenStore) Query(context.Context, string, int, repository.Metadata) ([]repository.Match, error) {
	return nil, errBroken
}
func (brokenStore) Ping(context.Context) error { return errBroken }

func newTestApp(t *testing.T, ticketStore repository.DocumentStore) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(nil)
	knowledgeStore := repository.NewMemoryStore()

	ticketRepo := repository.NewTicketRepository(ticketStore)
	knowledgeRepo := repository.NewKnowledgeRepository(knowledgeStore)
	interpreter := interpret.NewKeywordInterpreter("vidina")

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo, Interpreter: interpreter, Dispatcher: dispatcher, Logger: logger,
	})
	queries := service.NewQueryService(service.QueryDependencies{
		TicketRepo: ticketRepo, KnowledgeRepo: knowledgeRepo, Logger: logger,
	})
	knowledge := service.NewKnowledgeService(service.KnowledgeDependencies{
		KnowledgeRepo: knowledgeRepo, Dispatcher: dispatcher, Logger: logger,
	})
	knowledge.Seed(context.Background())
	assistant := service.NewAssistantService(service.AssistantDependencies{
		Interpreter: interpreter, TicketService: tickets, QueryService: queries, Metrics: metrics, Logger: logger,
	})

	app := fiber.New()
	apihttp.RegisterMiddlewares(app, logger, metrics, apihttp.MiddlewareConfig{AllowOrigins: "*"})
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:    handlers.NewHealthHandler("ticket-assistant", "test", map[string]handlers.Pinger{"tickets": ticketStore, "knowledge": knowledgeStore}),
		Metrics:   handlers.NewMetricsHandler(metrics),
		Chat:      handlers.NewChatHandler(assistant),
		Tickets:   handlers.NewTicketsHandler(tickets, 5),
		Knowledge: handlers.NewKnowledgeHandler(knowledge),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s: %v", method, target, err)
	}
	return resp.StatusCode, out
}

func TestChatCreateThenList(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())

	status, body := do(t, app, nethttp.MethodPost, "/chat",
		`{"message":"Create a ticket for John: fix the login bug, priority P1","user_id":"alice"}`)
	if status != nethttp.StatusOK {
		t.Fatalf("unexpected status %d: %v", status, body)
	}
	ticketID, _ := body["ticket_id"].(string)
	if body["intent"] != "ticket_create" || !strings.HasPrefix(ticketID, "ticket-") {
		t.Fatalf("unexpected body %v", body)
	}
	response := body["response"].(string)
	for _, want := range []string{ticketID, "John", "P1"} {
		if !strings.Contains(response, want) {
			t.Fatalf("response %q missing %q", response, want)
		}
	}

	status, body = do(t, app, nethttp.MethodGet, "/tickets", "")
	if status != nethttp.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("unexpected list %d %v", status, body)
	}
	ticket := body["tickets"].([]any)[0].(map[string]any)
	if ticket["id"] != ticketID || ticket["assignee"] != "John" || ticket["created_by"] != "alice" || ticket["org"] != "vidina" {
		t.Fatalf("unexpected ticket %v", ticket)
	}
	if tags, ok := ticket["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("expected empty tags array, got %#v", ticket["tags"])
	}
	if ticket["due_date"] != nil {
		t.Fatalf("expected null due date, got %v", ticket["due_date"])
	}
}

func TestChatScenarios(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	cases := []struct {
		message string
		intent  string
		check   func(string) bool
	}{
		{"Show me all P1 tickets", "ticket_create", func(r string) bool { return strings.HasPrefix(r, "✅ Created ticket") }},
		{"Show me everything urgent", "ticket_query", func(r string) bool { return strings.HasPrefix(r, "Found 1 relevant tickets:") }},
		{"help", "knowledge_query", func(r string) bool { return strings.HasPrefix(r, "Here's what I found:") }},
		{"random unrelated text", "chit_chat", func(r string) bool { return r == service.HelpText }},
	}
	for _, tc := range cases {
		status, body := do(t, app, nethttp.MethodPost, "/chat", `{"message":"`+tc.message+`"}`)
		if status != nethttp.StatusOK {
			t.Fatalf("%q: status %d", tc.message, status)
		}
		if body["intent"] != tc.intent || !tc.check(body["response"].(string)) {
			t.Fatalf("%q: unexpected body %v", tc.message, body)
		}
	}
}

func TestChatTicketQueryEmpty(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	_, body := do(t, app, nethttp.MethodPost, "/chat", `{"message":"find my work"}`)
	if body["response"] != service.NoTicketsText || body["ticket_id"] != nil {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestChatEmptyMessageGetsHelp(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	status, body := do(t, app, nethttp.MethodPost, "/chat", `{"message":""}`)
	if status != nethttp.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["intent"] != "chit_chat" || body["response"] != service.HelpText || body["ticket_id"] != nil {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestChatMalformedBody(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	status, body := do(t, app, nethttp.MethodPost, "/chat", `{"message":`)
	if status != nethttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["error"].(map[string]any)["code"] != "VALIDATION_FAILED" {
		t.Fatalf("unexpected error %v", body)
	}
}

func TestChatStoreFailureIsApology(t *testing.T) {
	app := newTestApp(t, brokenStore{})
	status, body := do(t, app, nethttp.MethodPost, "/chat", `{"message":"create a ticket: vpn"}`)
	if status != nethttp.StatusOK || body["intent"] != "error" {
		t.Fatalf("unexpected %d %v", status, body)
	}
	if !strings.HasPrefix(body["response"].(string), "Sorry, I encountered an error:") {
		t.Fatalf("unexpected response %v", body["response"])
	}
}

func TestListTicketsStoreFailure(t *testing.T) {
	app := newTestApp(t, brokenStore{})
	status, body := do(t, app, nethttp.MethodGet, "/tickets", "")
	if status != nethttp.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body["error"].(map[string]any)["code"] != "STORE_UNAVAILABLE" {
		t.Fatalf("unexpected error %v", body)
	}
}

func TestSearchTickets(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	for _, msg := range []string{"create ticket for sarah: printer jam, p1", "create ticket for mike: laptop fan, p3"} {
		do(t, app, nethttp.MethodPost, "/chat", `{"message":"`+msg+`"}`)
	}

	status, body := do(t, app, nethttp.MethodGet, "/tickets/search?q=printer&k=1", "")
	if status != nethttp.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("unexpected %d %v", status, body)
	}
	first := body["matches"].([]any)[0].(map[string]any)["ticket"].(map[string]any)
	if first["assignee"] != "Sarah" {
		t.Fatalf("expected printer ticket first, got %v", first)
	}

	_, body = do(t, app, nethttp.MethodGet, "/tickets/search?q=printer&assignee=Mike", "")
	if body["total"].(float64) != 1 {
		t.Fatalf("expected filter to apply, got %v", body)
	}

	status, _ = do(t, app, nethttp.MethodGet, "/tickets/search?q=x&priority=P7", "")
	if status != nethttp.StatusBadRequest {
		t.Fatalf("expected 400 for bad priority, got %d", status)
	}
}

func TestAddKnowledge(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	status, _ := do(t, app, nethttp.MethodPost, "/knowledge",
		`{"id":"kb-vpn","text":"Restart the VPN client","metadata":{"source":"IT FAQ","tags":["net","vpn"]}}`)
	if status != nethttp.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	status, _ = do(t, app, nethttp.MethodPost, "/knowledge", `{"id":"kb-vpn","text":"again"}`)
	if status != nethttp.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}

	_, body := do(t, app, nethttp.MethodPost, "/chat", `{"message":"how do I fix the vpn"}`)
	if !strings.Contains(body["response"].(string), "- IT FAQ: Restart the VPN client") {
		t.Fatalf("expected new document in answer, got %v", body["response"])
	}
}

func TestKnowledgeListAndGet(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	status, body := do(t, app, nethttp.MethodGet, "/knowledge", "")
	if status != nethttp.StatusOK || body["total"].(float64) != 2 {
		t.Fatalf("unexpected list %d %v", status, body)
	}
	first := body["documents"].([]any)[0].(map[string]any)
	if first["id"] != "sop-001" {
		t.Fatalf("expected seed order, got %v", first)
	}

	status, body = do(t, app, nethttp.MethodGet, "/knowledge/sop-002", "")
	if status != nethttp.StatusOK || body["id"] != "sop-002" || body["text"] == "" {
		t.Fatalf("unexpected document %d %v", status, body)
	}

	status, body = do(t, app, nethttp.MethodGet, "/knowledge/kb-missing", "")
	if status != nethttp.StatusNotFound || body["error"].(map[string]any)["code"] != "NOT_FOUND" {
		t.Fatalf("expected 404, got %d %v", status, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	status, body := do(t, app, nethttp.MethodGet, "/health/ready", "")
	if status != nethttp.StatusOK || body["status"] != "ready" {
		t.Fatalf("unexpected readiness %d %v", status, body)
	}

	broken := newTestApp(t, brokenStore{})
	status, body = do(t, broken, nethttp.MethodGet, "/health/ready", "")
	if status != nethttp.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d %v", status, body)
	}

	do(t, app, nethttp.MethodPost, "/chat", `{"message":"random unrelated text"}`)
	_, body = do(t, app, nethttp.MethodGet, "/metrics", "")
	if body["intents"].(map[string]any)["chit_chat"].(float64) != 1 {
		t.Fatalf("unexpected metrics %v", body)
	}
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	status, body := do(t, app, nethttp.MethodGet, "/nope", "")
	if status != nethttp.StatusNotFound || body["error"].(map[string]any)["code"] != "NOT_FOUND" {
		t.Fatalf("unexpected %d %v", status, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, repository.NewMemoryStore())
	req := httptest.NewRequest(nethttp.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", nethttp.MethodPost)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("OPTIONS /chat: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != nethttp.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), nethttp.MethodPost) {
		t.Fatalf("POST not allowed: %q", resp.Header.Get("Access-Control-Allow-Methods"))
	}
}
