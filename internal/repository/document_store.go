package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/ticket-assistant/internal/search"
)

// Collection names shared by every backend.
const (
	CollectionTickets   = "tickets"
	CollectionKnowledge = "knowledge"
)

// ErrDuplicateID is returned when adding a document whose id is taken.
var ErrDuplicateID = errors.New("document id already exists")

// Record is a stored document.
type Record struct {
	ID       string
	Text     string
	Metadata Metadata
}

// Match is a record returned by a similarity query.
type Match struct {
	Record
	Score float64
}

// DocumentStore persists text documents with flat metadata and answers
// similarity queries. Query ranks every record that satisfies filter and
// returns the best k, so a non-empty collection always yields matches.
type DocumentStore interface {
	Add(ctx context.Context, id, text string, metadata Metadata) error
	Get(ctx context.Context) ([]Record, error)
	Query(ctx context.Context, text string, k int, filter Metadata) ([]Match, error)
	Ping(ctx context.Context) error
}

// rankRecords applies filter and ranks the survivors against text. Used
// by backends without native ranking. records must be in insertion order.
func rankRecords(records []Record, text string, k int, filter Metadata) []Match {
	candidates := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Metadata.Matches(filter) {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	docs := make([]search.Document, len(candidates))
	for i, rec := range candidates {
		fields := []search.Field{{Text: rec.Text, Weight: 2}}
		for _, key := range rec.Metadata.SortedKeys() {
			fields = append(fields, search.Field{Text: rec.Metadata[key], Weight: 1})
		}
		docs[i] = search.Document{ID: rec.ID, Fields: fields}
	}

	hits := search.New(docs).Rank(text, k)
	matches := make([]Match, len(hits))
	for i, hit := range hits {
		matches[i] = Match{Record: candidates[hit.Position], Score: hit.Score}
	}
	return matches
}
