package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one collection in the documents table and ranks
// queries with Postgres full-text search.
type PostgresStore struct {
	pool       *pgxpool.Pool
	collection string
}

// NewPostgresStore returns a store bound to collection.
func NewPostgresStore(pool *pgxpool.Pool, collection string) *PostgresStore {
	return &PostgresStore{pool: pool, collection: collection}
}

func (s *PostgresStore) Add(ctx context.Context, id, text string, metadata Metadata) error {
	encoded, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO documents (collection, id, body, metadata)
        VALUES ($1, $2, $3, $4::jsonb)
        ON CONFLICT (collection, id) DO NOTHING`
	cmd, err := s.pool.Exec(ctx, query, s.collection, id, text, encoded)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context) ([]Record, error) {
	const query = `
        SELECT id, body, metadata, 0::float8
        FROM documents WHERE collection = $1
        ORDER BY seq`
	rows, err := s.pool.Query(ctx, query, s.collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(matches))
	for i, m := range matches {
		records[i] = m.Record
	}
	return records, nil
}

// Query ranks with ts_rank over the body. Rows sharing no lexemes with the
// query rank 0 and are still returned, oldest first.
func (s *PostgresStore) Query(ctx context.Context, text string, k int, filter Metadata) ([]Match, error) {
	if filter == nil {
		filter = Metadata{}
	}
	encodedFilter, err := encodeMetadata(filter)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}
	const query = `
        SELECT id, body, metadata, ts_rank(search, plainto_tsquery('simple', $2))::float8 AS score
        FROM documents
        WHERE collection = $1 AND metadata @> $3::jsonb
        ORDER BY score DESC, seq ASC
        LIMIT $4`
	rows, err := s.pool.Query(ctx, query, s.collection, text, encodedFilter, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatches(rows)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanMatches(rows pgx.Rows) ([]Match, error) {
	var result []Match
	for rows.Next() {
		var (
			m    Match
			meta []byte
		)
		if err := rows.Scan(&m.ID, &m.Text, &meta, &m.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &m.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", m.ID, err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
