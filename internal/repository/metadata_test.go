package repository

import (
	"reflect"
	"testing"
	"time"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

func TestFlattenMetadata(t *testing.T) {
	var noAssignee *string
	got := FlattenMetadata(map[string]any{
		"tags":     []string{"db", "staging"},
		"empty":    []string{},
		"assignee": noAssignee,
		"missing":  nil,
		"count":    3,
		"urgent":   true,
		"ratio":    0.5,
	})
	want := Metadata{
		"tags":     "db,staging",
		"empty":    "",
		"assignee": "",
		"missing":  "",
		"count":    "3",
		"urgent":   "true",
		"ratio":    "0.5",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTicketMetadataRoundTrip(t *testing.T) {
	assignee := "John"
	due := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	cases := map[string]domain.Ticket{
		"full": {
			ID: "ticket-0123456789ab", Summary: "fix the login bug", Description: "users bounce on submit",
			Assignee: &assignee, Org: "vidina", Priority: domain.TicketPriorityP1, DueDate: &due,
			Tags: []string{"auth", "web"}, Status: domain.TicketStatusOpen, CreatedBy: "alice",
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
		},
		"minimal": {
			ID: "ticket-ba9876543210", Summary: "printer jam", Org: "vidina",
			Priority: domain.TicketPriorityP2, Tags: []string{}, Status: domain.TicketStatusOpen,
			CreatedBy: "bob", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := TicketFromMetadata(TicketMetadata(&in))
			if err != nil {
				t.Fatalf("restore: %v", err)
			}
			assertTicketsEqual(t, in, out)
		})
	}
}

func TestTicketFromMetadataKnownLimitations(t *testing.T) {
	empty := ""
	in := domain.Ticket{
		ID: "ticket-1", Assignee: &empty, Tags: []string{"a,b"},
		Priority: domain.TicketPriorityP2, Status: domain.TicketStatusOpen,
	}
	out, err := TicketFromMetadata(TicketMetadata(&in))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if out.Assignee != nil {
		t.Errorf("empty assignee is stored as absent, got %q", *out.Assignee)
	}
	if !reflect.DeepEqual(out.Tags, []string{"a", "b"}) {
		t.Errorf("comma inside a tag splits on restore, got %v", out.Tags)
	}
}

func TestTicketFromMetadataRequiresID(t *testing.T) {
	if _, err := TicketFromMetadata(Metadata{"summary": "x"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestMetadataMatches(t *testing.T) {
	m := Metadata{"priority": "P1", "status": "open"}
	if !m.Matches(nil) {
		t.Error("nil filter must match")
	}
	if !m.Matches(Metadata{"priority": "P1"}) {
		t.Error("expected match")
	}
	if m.Matches(Metadata{"priority": "P0"}) {
		t.Error("expected mismatch on value")
	}
	if m.Matches(Metadata{"assignee": ""}) {
		t.Error("expected mismatch on missing key")
	}
}

func assertTicketsEqual(t *testing.T, want, got domain.Ticket) {
	t.Helper()
	if got.ID != want.ID || got.Summary != want.Summary || got.Description != want.Description ||
		got.Org != want.Org || got.Priority != want.Priority || got.Status != want.Status ||
		got.CreatedBy != want.CreatedBy {
		t.Fatalf("scalar fields differ:\nwant %+v\ngot  %+v", want, got)
	}
	if want.AssigneeOr("") != got.AssigneeOr("") || (want.Assignee == nil) != (got.Assignee == nil) {
		t.Fatalf("assignee differs: want %v got %v", want.Assignee, got.Assignee)
	}
	if (want.DueDate == nil) != (got.DueDate == nil) || (want.DueDate != nil && !want.DueDate.Equal(*got.DueDate)) {
		t.Fatalf("due date differs: want %v got %v", want.DueDate, got.DueDate)
	}
	if !want.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("created_at differs: want %v got %v", want.CreatedAt, got.CreatedAt)
	}
	if len(want.Tags) != len(got.Tags) {
		t.Fatalf("tags differ: want %v got %v", want.Tags, got.Tags)
	}
	for i := range want.Tags {
		if want.Tags[i] != got.Tags[i] {
			t.Fatalf("tags differ: want %v got %v", want.Tags, got.Tags)
		}
	}
}
