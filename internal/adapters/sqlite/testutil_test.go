// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/btevta/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema
// and the reference fixtures.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := db.SeedFixtures(testDB); err != nil {
		t.Fatalf("failed to seed fixtures: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedCandidate inserts a listed candidate and returns its ID.
func seedCandidate(t *testing.T, db *sql.DB, id, nationalID string) string {
	t.Helper()
	if id == "" {
		id = "BTEVTA-000001"
	}
	if nationalID == "" {
		nationalID = "3520112345671"
	}
	_, err := db.Exec(
		`INSERT INTO candidates (id, national_id, name, father_name, gender, date_of_birth, phone, district, status)
		 VALUES (?, ?, 'Test Candidate', 'Test Father', 'male', ?, '03001234567', 'Lahore', 'listed')`,
		id, nationalID, time.Date(1998, time.March, 14, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
	return id
}

// seedDeparture inserts a departure for a candidate and returns its ID.
func seedDeparture(t *testing.T, db *sql.DB, id, candidateID string, date time.Time) string {
	t.Helper()
	if id == "" {
		id = "DEP-0001"
	}
	_, err := db.Exec("INSERT INTO departures (id, candidate_id, departure_date) VALUES (?, ?, ?)", id, candidateID, date)
	if err != nil {
		t.Fatalf("failed to seed departure: %v", err)
	}
	return id
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
