package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assistant/internal/config"
	"github.com/spec-kit/ticket-assistant/internal/persistence"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	cfg := config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "assistant.db")}
	db, err := persistence.OpenSQLite(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := persistence.RunSQLiteMigrations(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("sqlite migrations: %v", err)
	}
	return db
}
