// Package interpret turns chat messages into an intent and ticket fields.
// The keyword rules are deterministic and always available; a language
// model backend can replace them and falls back to them on any failure.
package interpret

import (
	"context"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// Interpreter classifies messages and extracts ticket fields. Both methods
// are total: implementations recover internally and never fail.
type Interpreter interface {
	Classify(ctx context.Context, message string) domain.Intent
	Extract(ctx context.Context, message string) domain.ExtractedFields
}

// Interpretation is the combined result for one message. Fields is only
// set for ticket_create.
type Interpretation struct {
	Intent domain.Intent           `json:"intent"`
	Fields *domain.ExtractedFields `json:"fields,omitempty"`
}

// Interpret classifies message and, for ticket creation, extracts fields.
func Interpret(ctx context.Context, in Interpreter, message string) Interpretation {
	result := Interpretation{Intent: in.Classify(ctx, message)}
	if result.Intent == domain.IntentTicketCreate {
		fields := in.Extract(ctx, message)
		result.Fields = &fields
	}
	return result
}
