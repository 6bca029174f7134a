package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete modern schema for fresh btevta installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(). If repository code references a column that
// doesn't exist here, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Reference data
CREATE TABLE IF NOT EXISTS campuses (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	district TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	duration_weeks INTEGER NOT NULL DEFAULT 12,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS programs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	country TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS oeps (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	license_number TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	campus_id TEXT NOT NULL,
	trade_id TEXT NOT NULL,
	program_id TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	capacity INTEGER NOT NULL DEFAULT 30,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (campus_id) REFERENCES campuses(id),
	FOREIGN KEY (trade_id) REFERENCES trades(id),
	FOREIGN KEY (program_id) REFERENCES programs(id)
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
	id TEXT PRIMARY KEY,
	national_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	father_name TEXT NOT NULL,
	gender TEXT NOT NULL CHECK(gender IN ('male', 'female', 'other')),
	date_of_birth DATETIME NOT NULL,
	phone TEXT NOT NULL,
	email TEXT,
	province TEXT,
	district TEXT NOT NULL,
	address TEXT,
	status TEXT NOT NULL CHECK(status IN (
		'listed', 'pre_departure_docs', 'screening', 'screened', 'registered',
		'training', 'training_completed', 'visa_process', 'visa_approved',
		'departure_processing', 'ready_to_depart', 'departed', 'post_departure',
		'completed', 'deferred', 'rejected', 'withdrawn'
	)) DEFAULT 'listed',
	campus_id TEXT,
	trade_id TEXT,
	program_id TEXT,
	batch_id TEXT,
	oep_id TEXT,
	registration_date DATETIME,
	training_start_date DATETIME,
	training_end_date DATETIME,
	version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (campus_id) REFERENCES campuses(id),
	FOREIGN KEY (trade_id) REFERENCES trades(id),
	FOREIGN KEY (program_id) REFERENCES programs(id),
	FOREIGN KEY (batch_id) REFERENCES batches(id),
	FOREIGN KEY (oep_id) REFERENCES oeps(id)
);

CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);
CREATE INDEX IF NOT EXISTS idx_candidates_batch ON candidates(batch_id);

CREATE TABLE IF NOT EXISTS candidate_screenings (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL UNIQUE,
	consent BOOLEAN NOT NULL DEFAULT 0,
	placement_interest TEXT CHECK(placement_interest IS NULL OR placement_interest IN ('local', 'international')),
	target_country TEXT,
	reviewer TEXT,
	reviewed_at DATETIME,
	outcome TEXT NOT NULL CHECK(outcome IN ('pending', 'passed', 'failed')) DEFAULT 'pending',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS training_assessments (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	assessment_type TEXT NOT NULL CHECK(assessment_type IN ('interim', 'final')),
	score REAL NOT NULL CHECK(score >= 0),
	max_score REAL NOT NULL CHECK(max_score > 0),
	result TEXT NOT NULL CHECK(result IN ('pass', 'fail')),
	assessor TEXT,
	assessed_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (candidate_id, assessment_type),
	CHECK (score <= max_score),
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS training_certificates (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL UNIQUE,
	certificate_number TEXT NOT NULL UNIQUE,
	issuing_authority TEXT NOT NULL,
	issued_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS visa_processes (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL UNIQUE,
	interview_date DATETIME,
	interview_status TEXT,
	interview_remarks TEXT,
	trade_test_date DATETIME,
	trade_test_status TEXT,
	medical_date DATETIME,
	medical_status TEXT,
	biometric_date DATETIME,
	biometric_status TEXT,
	visa_number TEXT,
	visa_date DATETIME,
	visa_status TEXT NOT NULL CHECK(visa_status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS departures (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL UNIQUE,
	departure_date DATETIME NOT NULL,
	flight_number TEXT,
	destination TEXT,
	residency_registration_date DATETIME,
	id_registration_date DATETIME,
	first_salary_date DATETIME,
	ninety_day_compliant BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS post_departure_details (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	departure_id TEXT NOT NULL UNIQUE,
	employer TEXT NOT NULL,
	job_title TEXT,
	salary REAL NOT NULL CHECK(salary >= 0),
	currency TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE,
	FOREIGN KEY (departure_id) REFERENCES departures(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS success_stories (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL UNIQUE,
	narrative TEXT NOT NULL,
	featured BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS candidate_status_history (
	id TEXT PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status TEXT NOT NULL,
	remarks TEXT,
	actor_id TEXT,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_status_history_candidate ON candidate_status_history(candidate_id, created_at);

-- Last issued number per external ID series; never decreases
CREATE TABLE IF NOT EXISTS id_sequences (
	name TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// InitSchema creates the database schema on a fresh database, or runs
// pending migrations on an existing one.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='candidates'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// Existing install - upgrade in place
		return RunMigrations(db)
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureSchemaVersionTable(db); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
