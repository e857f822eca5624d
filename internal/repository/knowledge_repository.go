package repository

import (
	"context"

	"github.com/spec-kit/ticket-assistant/internal/domain"
)

// KnowledgeRepository stores reference documents in their own collection.
type KnowledgeRepository interface {
	Add(ctx context.Context, doc domain.KnowledgeDocument) error
	List(ctx context.Context) ([]domain.KnowledgeDocument, error)
	Search(ctx context.Context, query string, k int) ([]Match, error)
}

type knowledgeRepository struct {
	store DocumentStore
}

// NewKnowledgeRepository instantiates repository over the knowledge collection.
func NewKnowledgeRepository(store DocumentStore) KnowledgeRepository {
	return &knowledgeRepository{store: store}
}

func (r *knowledgeRepository) Add(ctx context.Context, doc domain.KnowledgeDocument) error {
	return r.store.Add(ctx, doc.ID, doc.Text, Metadata(doc.Metadata).Clone())
}

func (r *knowledgeRepository) List(ctx context.Context) ([]domain.KnowledgeDocument, error) {
	records, err := r.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.KnowledgeDocument, len(records))
	for i, rec := range records {
		docs[i] = domain.KnowledgeDocument{ID: rec.ID, Text: rec.Text, Metadata: rec.Metadata}
	}
	return docs, nil
}

func (r *knowledgeRepository) Search(ctx context.Context, query string, k int) ([]Match, error) {
	return r.store.Query(ctx, query, k, nil)
}
