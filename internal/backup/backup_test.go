package backup

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pillbox.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE medications (
		med_id    INTEGER PRIMARY KEY,
		med_name  TEXT NOT NULL
	)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO medications (med_id, med_name) VALUES (1, 'Aspirin')"); err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}
	return dbPath
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(backupPath), BackupFilePrefix) {
		t.Errorf("backup name %q missing prefix", filepath.Base(backupPath))
	}

	// The snapshot must be a readable database containing the data.
	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer db.Close()
	var name string
	if err := db.QueryRow("SELECT med_name FROM medications WHERE med_id = 1").Scan(&name); err != nil {
		t.Fatalf("failed to query backup: %v", err)
	}
	if name != "Aspirin" {
		t.Errorf("backup data mismatch: %q", name)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error backing up a missing database")
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	// Two snapshots in the same minute exercise the collision fallback.
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("first backup failed: %v", err)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("second backup failed: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if backups[0].Timestamp.Before(backups[1].Timestamp) {
		t.Error("backups not sorted newest first")
	}
}

func TestListBackupsEmptyDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "pillbox.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Mutate the live database after the snapshot.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("DELETE FROM medications"); err != nil {
		t.Fatalf("failed to mutate database: %v", err)
	}
	db.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM medications").Scan(&count); err != nil {
		t.Fatalf("failed to query restored database: %v", err)
	}
	if count != 1 {
		t.Errorf("restored row count = %d, want 1", count)
	}
}

func TestRestoreBackupMissingFile(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("expected error restoring from a missing backup")
	}
}

func TestParseBackupTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"pillbox-20240101-1504.db", true},
		{"pillbox-20240101-150405.db", true},
		{"pillbox-20240101-150405-2.db", true},
		{"pillbox-garbage.db", false},
	}
	for _, tt := range tests {
		if _, ok := parseBackupTimestamp(tt.name); ok != tt.ok {
			t.Errorf("parseBackupTimestamp(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
