package repository

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// Metadata is flat, string-valued document metadata. Every backend stores
// it as-is, so structured values must go through FlattenMetadata first.
type Metadata map[string]string

// Matches reports whether every filter entry is present with an equal value.
func (m Metadata) Matches(filter Metadata) bool {
	for key, want := range filter {
		got, ok := m[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// SortedKeys returns the metadata keys in lexical order.
func (m Metadata) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// encodeMetadata renders metadata as a JSON object; nil encodes as {}.
func encodeMetadata(m Metadata) (string, error) {
	if m == nil {
		m = Metadata{}
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(encoded), nil
}

// FlattenMetadata converts arbitrary values to their stored string form.
// Sequences are comma-joined and nil becomes "", which means a value
// containing a comma does not survive a round trip and "absent" cannot be
// told apart from "empty" once stored.
func FlattenMetadata(values map[string]any) Metadata {
	out := make(Metadata, len(values))
	for key, val := range values {
		out[key] = flattenValue(val)
	}
	return out
}

func flattenValue(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = flattenValue(item)
		}
		return strings.Join(parts, ",")
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Ticket metadata keys.
const (
	metaID          = "id"
	metaSummary     = "summary"
	metaDescription = "description"
	metaAssignee    = "assignee"
	metaOrg         = "org"
	metaPriority    = "priority"
	metaDueDate     = "due_date"
	metaTags        = "tags"
	metaStatus      = "status"
	metaCreatedBy   = "created_by"
	metaCreatedAt   = "created_at"
)

// TicketMetadata flattens every ticket field for storage.
func TicketMetadata(t *domain.Ticket) Metadata {
	return FlattenMetadata(map[string]any{
		metaID:          t.ID,
		metaSummary:     t.Summary,
		metaDescription: t.Description,
		metaAssignee:    t.Assignee,
		metaOrg:         t.Org,
		metaPriority:    string(t.Priority),
		metaDueDate:     t.DueDate,
		metaTags:        t.Tags,
		metaStatus:      string(t.Status),
		metaCreatedBy:   t.CreatedBy,
		metaCreatedAt:   t.CreatedAt,
	})
}

// TicketText is the searchable body stored alongside ticket metadata.
func TicketText(t *domain.Ticket) string {
	return t.Summary + "\n" + t.Description
}

// TicketFromMetadata restores a ticket written by TicketMetadata. Empty
// assignee and due date come back absent; empty tags come back as an
// empty sequence.
func TicketFromMetadata(m Metadata) (domain.Ticket, error) {
	ticket := domain.Ticket{
		ID:          m[metaID],
		Summary:     m[metaSummary],
		Description: m[metaDescription],
		Org:         m[metaOrg],
		Priority:    domain.TicketPriority(m[metaPriority]),
		Status:      domain.TicketStatus(m[metaStatus]),
		CreatedBy:   m[metaCreatedBy],
		Tags:        []string{},
	}
	if ticket.ID == "" {
		return domain.Ticket{}, fmt.Errorf("ticket metadata missing id")
	}
	if assignee := m[metaAssignee]; assignee != "" {
		ticket.Assignee = &assignee
	}
	if tags := m[metaTags]; tags != "" {
		ticket.Tags = strings.Split(tags, ",")
	}
	if due := m[metaDueDate]; due != "" {
		parsed, err := time.Parse(time.RFC3339Nano, due)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("ticket %s due_date: %w", ticket.ID, err)
		}
		ticket.DueDate = &parsed
	}
	if created := m[metaCreatedAt]; created != "" {
		parsed, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("ticket %s created_at: %w", ticket.ID, err)
		}
		ticket.CreatedAt = parsed
	}
	return ticket, nil
}
