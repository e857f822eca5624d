package interpret

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// rawFields mirrors the JSON a language model is asked to return. Every
// field is optional.
type rawFields struct {
	Summary     *string  `json:"summary"`
	Description *string  `json:"description"`
	Assignee    *string  `json:"assignee"`
	Org         *string  `json:"org"`
	Priority    *string  `json:"priority"`
	DueDate     *string  `json:"due_date"`
	Tags        []string `json:"tags"`
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DecodeFields parses structured extraction output. Anything that is not a
// JSON object yields an error; callers substitute FallbackFields.
// Unrecognized priorities are left empty and unparsable due dates absent.
func DecodeFields(raw string) (domain.ExtractedFields, error) {
	body := strings.TrimSpace(stripCodeFence(raw))
	if !strings.HasPrefix(body, "{") {
		return domain.ExtractedFields{}, fmt.Errorf("decode extracted fields: not a JSON object")
	}
	var parsed rawFields
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return domain.ExtractedFields{}, fmt.Errorf("decode extracted fields: %w", err)
	}

	fields := domain.ExtractedFields{
		Summary:     Truncate(strings.TrimSpace(deref(parsed.Summary)), SummaryLimit),
		Description: deref(parsed.Description),
		Org:         deref(parsed.Org),
		Tags:        []string{},
	}
	if name := strings.TrimSpace(deref(parsed.Assignee)); name != "" {
		fields.Assignee = &name
	}
	if p := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(deref(parsed.Priority)))); p.Valid() {
		fields.Priority = p
	}
	if due := parseDueDate(deref(parsed.DueDate)); due != nil {
		fields.DueDate = due
	}
	for _, tag := range parsed.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			fields.Tags = append(fields.Tags, tag)
		}
	}
	return fields, nil
}

func parseDueDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
