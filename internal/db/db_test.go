package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	// Use temp directory for test isolation
	tmpDir := t.TempDir()

	database, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer database.Close()

	// Verify database file was created
	dbPath := filepath.Join(tmpDir, "taskflow.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}

	// Verify exports directory was created
	info, err := os.Stat(ExportsDir(tmpDir))
	if os.IsNotExist(err) {
		t.Errorf("exports directory not created at %s", ExportsDir(tmpDir))
	} else if !info.IsDir() {
		t.Errorf("exports path is not a directory")
	}

	// Verify WAL mode is active
	var journalMode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}

	// Verify schema was created
	var tableName string
	err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='slots'").Scan(&tableName)
	if err != nil {
		t.Fatalf("slots table not found: %v", err)
	}

	version, err := GetUserVersion(database)
	if err != nil {
		t.Fatalf("GetUserVersion failed: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestSlotStore(t *testing.T) {
	tmpDir := t.TempDir()
	database, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer database.Close()

	slot := NewSlotStore(database, "dashboard_data")

	t.Run("empty load", func(t *testing.T) {
		data, err := slot.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if data != nil {
			t.Errorf("Load() = %q, want nil for empty slot", data)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		if err := slot.Save([]byte(`{"summary":"first"}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		data, err := slot.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(data) != `{"summary":"first"}` {
			t.Errorf("Load() = %q, want saved payload", data)
		}
	})

	t.Run("save replaces", func(t *testing.T) {
		if err := slot.Save([]byte(`{"summary":"second"}`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		data, err := slot.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(data) != `{"summary":"second"}` {
			t.Errorf("Load() = %q, want replacement payload", data)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := slot.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		data, err := slot.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if data != nil {
			t.Errorf("Load() = %q, want nil after Clear", data)
		}
		// Clearing again is fine.
		if err := slot.Clear(); err != nil {
			t.Fatalf("second Clear failed: %v", err)
		}
	})
}

func TestSlotStore_SurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()

	database, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := NewSlotStore(database, "dashboard_data").Save([]byte(`{"summary":"kept"}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	database.Close()

	reopened, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("reopen Init() error = %v", err)
	}
	defer reopened.Close()

	data, err := NewSlotStore(reopened, "dashboard_data").Load()
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if string(data) != `{"summary":"kept"}` {
		t.Errorf("Load() = %q, want value to survive reopen", data)
	}
}
