package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habithub/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fs.FS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFilesSorted(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"010_later.sql":  "SELECT 1;",
		"002_second.sql": "SELECT 1;",
		"001_first.sql":  "SELECT 1;",
		"README.md":      "ignored",
	}))

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(got))
	}
	want := []int{1, 2, 10}
	for i, m := range got {
		if m.Version != want[i] {
			t.Errorf("migration %d: expected version %d, got %d", i, want[i], m.Version)
		}
	}
	if got[0].Name != "first" {
		t.Errorf("expected name 'first', got %q", got[0].Name)
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}))

	var logs []string
	count, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, _ := runner.GetCurrentVersion()
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations applied on second run, got %d", count)
	}
}

func TestStatus(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY);",
	}))

	if err := runner.SetVersion(1); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Current != 1 || st.Latest != 2 {
		t.Errorf("unexpected status %+v", st)
	}
	if st.UpToDate() || len(st.Pending) != 1 || st.Pending[0].Name != "posts" {
		t.Errorf("expected only 'posts' pending, got %+v", st.Pending)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}))

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='users'").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	}))

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("expected newer-version error, got %v", err)
	}

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with newer database version")
	}
}

func TestMigrationFilenameValidation(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001.sql": "SELECT 1;"}},
		{"non numeric", map[string]string{"abc_init.sql": "SELECT 1;"}},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}},
		{"duplicate", map[string]string{"001_a.sql": "SELECT 1;", "1_b.sql": "SELECT 1;"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), migrationFS(tt.files))
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db := setupTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	runner := NewRunner(db, sub)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}

	for _, table := range []string{"habits", "habit_logs"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count); err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}

	if _, err := db.Exec("INSERT INTO habits (id, name, target_days, is_active, created_at) VALUES ('h', 'Read', 0, 1, 'x')"); err == nil {
		t.Error("expected target_days check constraint to reject 0")
	}

	latest, _ := runner.GetLatestVersion()
	pg, _ := fs.Sub(migrations.FS, "postgres")
	pgLatest, _ := NewRunner(db, pg).GetLatestVersion()
	if latest != pgLatest {
		t.Errorf("sqlite (%d) and postgres (%d) migrations are out of step", latest, pgLatest)
	}
}
