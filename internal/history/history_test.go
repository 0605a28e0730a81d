package history

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// createTestArchive opens a fresh archive in a temp dir.
func createTestArchive(t *testing.T) *Archive {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer a.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		a, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		a.Close()
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer a.Close()

	var name string
	err = a.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_snapshots_page_id'",
	).Scan(&name)
	if err != nil {
		t.Errorf("page_id index missing after repeated opens: %v", err)
	}
}

func TestOpen_SetsUserVersion(t *testing.T) {
	a := createTestArchive(t)

	if got := pragma(t, a, "user_version"); got != strconv.Itoa(len(migrations)) {
		t.Errorf("user_version = %s, want %d", got, len(migrations))
	}
}

func TestOpen_SkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	// Dropping the index without lowering user_version means a reopen must
	// not recreate it.
	if _, err := a.db.Exec("DROP INDEX idx_snapshots_page_id"); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	a.Close()

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer a.Close()

	var n int
	if err := a.db.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type='index' AND name='idx_snapshots_page_id'",
	).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("applied migration ran again")
	}
}

func TestConnParams(t *testing.T) {
	a := createTestArchive(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pragma(t, a, tt.name); got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func pragma(t *testing.T, a *Archive, name string) string {
	t.Helper()
	var value string
	if err := a.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		t.Fatalf("query %s: %v", name, err)
	}
	return value
}

func TestClose_NilDB(t *testing.T) {
	a := &Archive{}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on empty archive = %v", err)
	}
}
