package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hitoshi/cinelog/internal/database"
)

// newTestDB はマイグレーション適用済みのSQLiteデータベースを一時ディレクトリに作成する。
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "repo.db")
	if err := database.RunMigrations(dbURL); err != nil {
		t.Fatalf("マイグレーション実行に失敗: %v", err)
	}

	db, err := database.Open(dbURL)
	if err != nil {
		t.Fatalf("データベースへの接続に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
