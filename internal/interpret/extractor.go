package interpret

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// SummaryLimit caps extracted summaries, in characters.
const SummaryLimit = 100

// KnownAssignees is the closed set of names the keyword extractor
// recognizes. Anyone else stays unassigned.
var KnownAssignees = []string{"priya", "john", "sarah", "mike", "vidina"}

type priorityRule struct {
	priority domain.TicketPriority
	keywords []string
}

// First match wins: "urgent ... low" is P0.
var priorityRules = []priorityRule{
	{domain.TicketPriorityP0, []string{"p0", "urgent"}},
	{domain.TicketPriorityP1, []string{"p1", "high"}},
	{domain.TicketPriorityP3, []string{"p3", "low"}},
}

type dueRule struct {
	keyword string
	offset  time.Duration
}

// First match wins, same as priority.
var dueRules = []dueRule{
	{"tonight", 8 * time.Hour},
	{"tomorrow", 24 * time.Hour},
	{"monday", 7 * 24 * time.Hour},
}

// KeywordInterpreter is the rule-based Interpreter.
type KeywordInterpreter struct {
	org   string
	now   func() time.Time
	names map[string]struct{}
}

// KeywordOption customizes a KeywordInterpreter.
type KeywordOption func(*KeywordInterpreter)

// WithClock replaces time.Now for due-date arithmetic.
func WithClock(now func() time.Time) KeywordOption {
	return func(k *KeywordInterpreter) { k.now = now }
}

// NewKeywordInterpreter builds the rule-based interpreter stamping org on
// every extraction.
func NewKeywordInterpreter(org string, opts ...KeywordOption) *KeywordInterpreter {
	if org == "" {
		org = domain.DefaultOrg
	}
	k := &KeywordInterpreter{org: org, now: time.Now, names: make(map[string]struct{}, len(KnownAssignees))}
	for _, name := range KnownAssignees {
		k.names[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *KeywordInterpreter) Classify(_ context.Context, message string) domain.Intent {
	return ClassifyKeywords(message)
}

func (k *KeywordInterpreter) Extract(_ context.Context, message string) domain.ExtractedFields {
	lower := strings.ToLower(message)
	return domain.ExtractedFields{
		Summary:     extractSummary(lower),
		Description: "",
		Assignee:    k.extractAssignee(message),
		Org:         k.org,
		Priority:    extractPriority(lower),
		DueDate:     k.extractDueDate(lower),
		Tags:        []string{},
	}
}

// extractAssignee returns the first whitespace token naming a known
// assignee. Surrounding punctuation is ignored so "John:" matches.
func (k *KeywordInterpreter) extractAssignee(message string) *string {
	for _, word := range strings.Fields(message) {
		token := strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if _, ok := k.names[token]; ok {
			name := capitalize(token)
			return &name
		}
	}
	return nil
}

func extractPriority(lower string) domain.TicketPriority {
	for _, rule := range priorityRules {
		if containsAny(lower, rule.keywords) {
			return rule.priority
		}
	}
	return domain.DefaultPriority
}

func (k *KeywordInterpreter) extractDueDate(lower string) *time.Time {
	for _, rule := range dueRules {
		if strings.Contains(lower, rule.keyword) {
			due := k.now().Add(rule.offset)
			return &due
		}
	}
	return nil
}

// extractSummary takes the text after the first colon, or the whole
// message when there is none.
func extractSummary(lower string) string {
	summary := lower
	if _, after, found := strings.Cut(lower, ":"); found {
		summary = after
	}
	return Truncate(strings.TrimSpace(summary), SummaryLimit)
}

// FallbackFields is the minimal record used when structured extraction
// cannot be parsed.
func FallbackFields(message, org string) domain.ExtractedFields {
	if org == "" {
		org = domain.DefaultOrg
	}
	return domain.ExtractedFields{
		Summary:  Truncate(message, SummaryLimit),
		Org:      org,
		Priority: domain.DefaultPriority,
		Tags:     []string{},
	}
}

// Truncate returns at most limit characters of s.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
