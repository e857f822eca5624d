package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-assistant/internal/domain"
	"github.com/spec-kit/ticket-assistant/internal/events"
	"github.com/spec-kit/ticket-assistant/internal/repository"
	apperrors "github.com/spec-kit/ticket-assistant/pkg/util"
)

// DefaultKnowledge is seeded when no seed file is configured.
var DefaultKnowledge = []domain.KnowledgeDocument{
	{
		ID:   "sop-001",
		Text: "To reset the staging database: 1) Stop all services 2) Run migration scripts 3) Restart services 4) Verify functionality",
		Metadata: map[string]string{
			"source": "SOP Database Management",
			"type":   "procedure",
		},
	},
	{
		ID:   "sop-002",
		Text: "For API key rotation: 1) Generate new keys 2) Update applications 3) Test connectivity 4) Revoke old keys after 24h",
		Metadata: map[string]string{
			"source": "SOP Security",
			"type":   "procedure",
		},
	},
}

// knowledgeFile is the YAML seed file layout.
type knowledgeFile struct {
	Documents []struct {
		ID       string         `yaml:"id"`
		Text     string         `yaml:"text"`
		Metadata map[string]any `yaml:"metadata"`
	} `yaml:"documents"`
}

// LoadKnowledgeFile reads seed documents from a YAML file. Metadata values
// are flattened the same way ticket metadata is.
func LoadKnowledgeFile(path string) ([]domain.KnowledgeDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	var file knowledgeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse knowledge file %s: %w", path, err)
	}
	docs := make([]domain.KnowledgeDocument, 0, len(file.Documents))
	for i, d := range file.Documents {
		if strings.TrimSpace(d.ID) == "" || strings.TrimSpace(d.Text) == "" {
			return nil, fmt.Errorf("knowledge file %s: document %d needs id and text", path, i)
		}
		docs = append(docs, domain.KnowledgeDocument{
			ID:       d.ID,
			Text:     d.Text,
			Metadata: repository.FlattenMetadata(d.Metadata),
		})
	}
	return docs, nil
}

// KnowledgeService manages the knowledge base.
type KnowledgeService struct {
	knowledge  repository.KnowledgeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	seedFile   string
}

// KnowledgeDependencies bundles collaborators for the knowledge service.
type KnowledgeDependencies struct {
	KnowledgeRepo repository.KnowledgeRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	SeedFile      string
}

// NewKnowledgeService creates the service.
func NewKnowledgeService(deps KnowledgeDependencies) *KnowledgeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeService{
		knowledge:  deps.KnowledgeRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		seedFile:   deps.SeedFile,
	}
}

// Add inserts one document.
func (s *KnowledgeService) Add(ctx context.Context, doc domain.KnowledgeDocument) error {
	doc.ID = strings.TrimSpace(doc.ID)
	if doc.ID == "" {
		return apperrors.NewValidationError("id is required", nil)
	}
	if strings.TrimSpace(doc.Text) == "" {
		return apperrors.NewValidationError("text is required", map[string]any{"id": doc.ID})
	}
	if err := s.knowledge.Add(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return apperrors.NewConflict("knowledge document already exists", map[string]any{"id": doc.ID})
		}
		return apperrors.NewStoreUnavailable(repository.CollectionKnowledge, err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:      uuid.NewString(),
			Type:    events.EventKnowledgeAdded,
			Payload: events.KnowledgeAddedPayload{DocumentID: doc.ID, Source: doc.Metadata["source"]},
		})
	}
	return nil
}

// List returns every knowledge document in insertion order.
func (s *KnowledgeService) List(ctx context.Context) ([]domain.KnowledgeDocument, error) {
	docs, err := s.knowledge.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(repository.CollectionKnowledge, err)
	}
	return docs, nil
}

// Get returns the document with id.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeDocument, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}
	return nil, apperrors.NewNotFound("knowledge document", map[string]any{"id": id})
}

// Seed inserts the configured seed documents, skipping ids already
// present. It returns how many were added; failures are logged and never
// stop the remaining documents.
func (s *KnowledgeService) Seed(ctx context.Context) int {
	docs := DefaultKnowledge
	if s.seedFile != "" {
		loaded, err := LoadKnowledgeFile(s.seedFile)
		if err != nil {
			s.logger.Error("knowledge seed file unusable; using defaults", zap.String("path", s.seedFile), zap.Error(err))
		} else {
			docs = loaded
		}
	}

	added := 0
	for _, doc := range docs {
		err := s.Add(ctx, doc)
		switch {
		case err == nil:
			added++
		case apperrors.ToDomainError(err).Code == "CONFLICT":
			s.logger.Debug("knowledge already seeded", zap.String("id", doc.ID))
		default:
			s.logger.Error("knowledge seed failed", zap.String("id", doc.ID), zap.Error(err))
		}
	}
	s.logger.Info("Sample knowledge initialized", zap.Int("added", added), zap.Int("documents", len(docs)))
	return added
}
