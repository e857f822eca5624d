package dto

import "github.com/spec-kit/ticket-assistant/internal/domain"

// KnowledgeRequest payload. Metadata values may be any scalar or list;
// they are flattened to strings before storage.
type KnowledgeRequest struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// KnowledgeResponse is one stored document.
type KnowledgeResponse struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// KnowledgeListResponse wraps the stored documents.
type KnowledgeListResponse struct {
	Documents []KnowledgeResponse `json:"documents"`
	Total     int                 `json:"total"`
}

func NewKnowledgeResponse(doc domain.KnowledgeDocument) KnowledgeResponse {
	meta := doc.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	return KnowledgeResponse{ID: doc.ID, Text: doc.Text, Metadata: meta}
}
