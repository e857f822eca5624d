package interpret

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const classifyPrompt = `Classify the user message into one of:
- ticket_create
- ticket_query
- knowledge_query
- chit_chat
Return only the label.
Message: %s`

const extractPrompt = `Extract JSON with fields:
summary, description, assignee, org, priority (P0-P3), due_date (ISO8601 or null), tags (array).
If not present, leave null or sensible default (priority=P2).
Return only the JSON object.
Message: %s`

// LLMInterpreter asks a language model to classify and extract. Errors and
// unusable answers fall back to the keyword rules (classification) or the
// minimal fallback record (extraction).
type LLMInterpreter struct {
	generator Generator
	keywords  *KeywordInterpreter
	org       string
	logger    *zap.Logger
}

// NewLLMInterpreter wraps generator with keyword fallbacks.
func NewLLMInterpreter(generator Generator, keywords *KeywordInterpreter, logger *zap.Logger) *LLMInterpreter {
	return &LLMInterpreter{generator: generator, keywords: keywords, org: keywords.org, logger: logger}
}

func (l *LLMInterpreter) Classify(ctx context.Context, message string) domain.Intent {
	reply, err := l.generator.Generate(ctx, fmt.Sprintf(classifyPrompt, message))
	if err != nil {
		l.logger.Warn("llm classify failed; using keyword rules", zap.Error(err))
		return l.keywords.Classify(ctx, message)
	}
	label := strings.ToLower(strings.Trim(strings.TrimSpace(reply), "`\"'. "))
	intent, ok := domain.ParseIntent(label)
	if !ok {
		l.logger.Warn("llm returned unknown intent; using keyword rules", zap.String("label", label))
		return l.keywords.Classify(ctx, message)
	}
	return intent
}

func (l *LLMInterpreter) Extract(ctx context.Context, message string) domain.ExtractedFields {
	reply, err := l.generator.Generate(ctx, fmt.Sprintf(extractPrompt, message))
	if err != nil {
		l.logger.Warn("llm extract failed; using fallback record", zap.Error(err))
		return FallbackFields(message, l.org)
	}
	fields, err := DecodeFields(reply)
	if err != nil {
		l.logger.Warn("llm extract unparsable; using fallback record", zap.Error(err))
		return FallbackFields(message, l.org)
	}
	if fields.Org == "" {
		fields.Org = l.org
	}
	return fields
}
