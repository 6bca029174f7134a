package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInitSchema_FreshInstall(t *testing.T) {
	conn := openMemory(t)

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	version, err := CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("expected version %d on fresh install, got %d", len(migrations), version)
	}

	// Second run is a no-op
	if err := InitSchema(conn); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
}

func TestRunMigrations_UpgradesLegacySchema(t *testing.T) {
	conn := openMemory(t)

	// Schema as it looked before versioning, history and compliance tracking.
	legacy := `
		CREATE TABLE candidates (
			id TEXT PRIMARY KEY,
			national_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'listed'
		);
		CREATE TABLE departures (
			id TEXT PRIMARY KEY,
			candidate_id TEXT NOT NULL UNIQUE,
			departure_date DATETIME NOT NULL
		);
		CREATE TABLE success_stories (
			id TEXT PRIMARY KEY,
			candidate_id TEXT NOT NULL UNIQUE,
			narrative TEXT NOT NULL
		);
		INSERT INTO candidates (id, national_id, name) VALUES ('BTEVTA-000001', '3520112345671', 'Ali Raza');
	`
	if _, err := conn.Exec(legacy); err != nil {
		t.Fatalf("failed to create legacy schema: %v", err)
	}

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema on legacy db failed: %v", err)
	}

	var version int
	if err := conn.QueryRow("SELECT version FROM candidates WHERE id = 'BTEVTA-000001'").Scan(&version); err != nil {
		t.Fatalf("version column missing: %v", err)
	}
	if version != 1 {
		t.Errorf("expected default version 1, got %d", version)
	}

	var compliant bool
	if _, err := conn.Exec("INSERT INTO departures (id, candidate_id, departure_date) VALUES ('DEP-0001', 'BTEVTA-000001', '2026-01-01 00:00:00')"); err != nil {
		t.Fatalf("insert departure: %v", err)
	}
	if err := conn.QueryRow("SELECT ninety_day_compliant FROM departures WHERE id = 'DEP-0001'").Scan(&compliant); err != nil {
		t.Fatalf("compliance column missing: %v", err)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM candidate_status_history").Scan(&count); err != nil {
		t.Fatalf("history table missing: %v", err)
	}

	var issued int
	if err := conn.QueryRow("SELECT value FROM id_sequences WHERE name = 'candidate'").Scan(&issued); err != nil {
		t.Fatalf("id sequence missing: %v", err)
	}
	if issued != 1 {
		t.Errorf("expected candidate sequence to start at 1, got %d", issued)
	}

	got, err := CurrentVersion(conn)
	if err != nil {
		t.Fatal(err)
	}
	if got != len(migrations) {
		t.Errorf("expected version %d after upgrade, got %d", len(migrations), got)
	}
}

func TestSeedFixtures_Idempotent(t *testing.T) {
	conn := openMemory(t)
	if err := InitSchema(conn); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := SeedFixtures(conn); err != nil {
			t.Fatalf("SeedFixtures run %d failed: %v", i+1, err)
		}
	}

	var batches int
	if err := conn.QueryRow("SELECT COUNT(*) FROM batches").Scan(&batches); err != nil {
		t.Fatal(err)
	}
	if batches != 3 {
		t.Errorf("expected 3 batches, got %d", batches)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "btevta.db")
	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	var fk int
	if err := conn.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Error("foreign keys should be enforced")
	}
}
