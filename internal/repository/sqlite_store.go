package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLiteStore keeps one collection in the shared documents table and ranks
// query results in process.
type SQLiteStore struct {
	db         *sql.DB
	collection string
}

// NewSQLiteStore returns a store bound to collection. The documents table
// must already exist.
func NewSQLiteStore(db *sql.DB, collection string) *SQLiteStore {
	return &SQLiteStore{db: db, collection: collection}
}

func (s *SQLiteStore) Add(ctx context.Context, id, text string, metadata Metadata) error {
	encoded, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}
	const query = `INSERT OR IGNORE INTO documents (collection, id, body, metadata) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query, s.collection, id, text, encoded)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context) ([]Record, error) {
	const query = `SELECT id, body, metadata FROM documents WHERE collection = ? ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, s.collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec  Record
			meta string
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &meta); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Query(ctx context.Context, text string, k int, filter Metadata) ([]Match, error) {
	records, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return rankRecords(records, text, k, filter), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
