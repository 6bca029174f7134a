package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_version_column_to_candidates",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_candidate_status_history",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_ninety_day_compliance_to_departures",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_featured_flag_to_success_stories",
		Up:      migrationV4,
	},
	{
		Version: 5,
		Name:    "add_id_sequences",
		Up:      migrationV5,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := ensureSchemaVersionTable(db); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func ensureSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// columnExists reports whether table has the named column.
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrationV1 adds the optimistic concurrency counter to candidates
func migrationV1(tx *sql.Tx) error {
	exists, err := columnExists(tx, "candidates", "version")
	if err != nil || exists {
		return err
	}
	_, err = tx.Exec("ALTER TABLE candidates ADD COLUMN version INTEGER NOT NULL DEFAULT 1")
	return err
}

// migrationV2 creates the status history table
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}

// migrationV3 adds post-departure reporting dates and the compliance flag
func migrationV3(tx *sql.Tx) error {
	columns := []struct{ name, ddl string }{
		{"residency_registration_date", "ALTER TABLE departures ADD COLUMN residency_registration_date DATETIME"},
		{"id_registration_date", "ALTER TABLE departures ADD COLUMN id_registration_date DATETIME"},
		{"first_salary_date", "ALTER TABLE departures ADD COLUMN first_salary_date DATETIME"},
		{"ninety_day_compliant", "ALTER TABLE departures ADD COLUMN ninety_day_compliant BOOLEAN NOT NULL DEFAULT 0"},
	}
	for _, c := range columns {
		exists, err := columnExists(tx, "departures", c.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(c.ddl); err != nil {
			return fmt.Errorf("add %s: %w", c.name, err)
		}
	}
	return nil
}

// migrationV4 adds the featured flag to success stories
func migrationV4(tx *sql.Tx) error {
	exists, err := columnExists(tx, "success_stories", "featured")
	if err != nil || exists {
		return err
	}
	_, err = tx.Exec("ALTER TABLE success_stories ADD COLUMN featured BOOLEAN NOT NULL DEFAULT 0")
	return err
}

// migrationV5 creates the external ID sequences, starting from the highest
// candidate number already issued
func migrationV5(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS id_sequences (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);
		INSERT OR IGNORE INTO id_sequences (name, value)
			SELECT 'candidate', COALESCE(MAX(CAST(SUBSTR(id, 8) AS INTEGER)), 0) FROM candidates;
	`)
	return err
}
