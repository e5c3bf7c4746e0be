package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsEachFileOnce(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0001_records.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE records(id INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE records;"),
		},
	}

	if err := Apply(db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if count := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); count != 1 {
		t.Fatalf("migration rows = %d, want 1", count)
	}
	if !tableExists(t, db, "records") {
		t.Fatal("expected migrated table to exist")
	}

	if err := Apply(db, migrations); err != nil {
		t.Fatalf("re-apply should be idempotent: %v", err)
	}
	if count := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); count != 1 {
		t.Fatalf("migration rows after replay = %d, want 1", count)
	}
}

func TestApplyRunsFilesInLexicalOrder(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"0002_add_column.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nALTER TABLE shipments ADD COLUMN carrier TEXT;"),
		},
		"0001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE shipments(id INTEGER PRIMARY KEY);"),
		},
	}

	if err := Apply(db, migrations); err != nil {
		t.Fatalf("apply out-of-order files: %v", err)
	}
	if count := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); count != 2 {
		t.Fatalf("migration rows = %d, want 2", count)
	}
}

func TestApplyLeavesFailedMigrationUnrecorded(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT TABLE orders(id INT);"),
		},
	}
	if err := Apply(db, bad); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if count := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); count != 0 {
		t.Fatalf("failed migration recorded %d rows, want 0", count)
	}

	fixed := fstest.MapFS{
		"0001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE orders(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := Apply(db, fixed); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if count := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); count != 1 {
		t.Fatalf("fixed migration rows = %d, want 1", count)
	}
}

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id INTEGER);\n-- +migrate Down\nDROP TABLE a;"
	up := UpSection(content)
	if up != "\nCREATE TABLE a(id INTEGER);\n" {
		t.Fatalf("up section = %q", up)
	}
	if got := UpSection("CREATE TABLE b(id INTEGER);"); got != "CREATE TABLE b(id INTEGER);" {
		t.Fatalf("unmarked content = %q", got)
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table %q: %v", name, err)
	}
	return true
}
