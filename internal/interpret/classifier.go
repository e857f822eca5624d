package interpret

import (
	"strings"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

type intentRule struct {
	intent   domain.Intent
	keywords []string
}

// Evaluated in order; the first rule with a matching keyword wins.
var intentRules = []intentRule{
	{domain.IntentTicketCreate, []string{"create", "ticket", "assign"}},
	{domain.IntentTicketQuery, []string{"show", "list", "find", "search"}},
	{domain.IntentKnowledgeQuery, []string{"help", "how", "what", "sop"}},
}

// ClassifyKeywords maps a message to an intent by case-insensitive
// substring matching. Anything unmatched is chit_chat.
func ClassifyKeywords(message string) domain.Intent {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		if containsAny(lower, rule.keywords) {
			return rule.intent
		}
	}
	return domain.IntentChitChat
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
