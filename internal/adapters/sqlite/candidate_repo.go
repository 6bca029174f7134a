package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/core/candidate"
	"github.com/example/btevta/internal/ports/secondary"
)

const candidateColumns = "id, national_id, name, father_name, gender, date_of_birth, phone, email, province, district, address, status, campus_id, trade_id, program_id, batch_id, oep_id, registration_date, training_start_date, training_end_date, version, created_at, updated_at"

// CandidateRepository implements secondary.CandidateRepository with SQLite.
type CandidateRepository struct {
	db DBTX
}

// NewCandidateRepository creates a new SQLite candidate repository.
func NewCandidateRepository(db DBTX) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// Create persists a new candidate.
func (r *CandidateRepository) Create(ctx context.Context, c *secondary.CandidateRecord) error {
	status := c.Status
	if status == "" {
		status = string(candidate.InitialStatus())
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO candidates (id, national_id, name, father_name, gender, date_of_birth, phone, email, province, district, address, status, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		c.ID, c.NationalID, c.Name, c.FatherName, c.Gender, c.DateOfBirth, c.Phone,
		nullString(c.Email), nullString(c.Province), c.District, nullString(c.Address), status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate with national ID %s already exists: %w", c.NationalID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	return nil
}

// GetByID retrieves a candidate by its external ID.
func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*secondary.CandidateRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+candidateColumns+" FROM candidates WHERE id = ?", id)
	record, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("candidate %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return record, nil
}

// GetByNationalID retrieves a candidate by national ID.
func (r *CandidateRepository) GetByNationalID(ctx context.Context, nationalID string) (*secondary.CandidateRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+candidateColumns+" FROM candidates WHERE national_id = ?", nationalID)
	record, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("candidate with national ID %s %w", nationalID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return record, nil
}

// NationalIDExists checks whether a national ID is already registered.
func (r *CandidateRepository) NationalIDExists(ctx context.Context, nationalID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM candidates WHERE national_id = ?", nationalID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check national ID: %w", err)
	}
	return count > 0, nil
}

// List retrieves candidates matching the given filters.
func (r *CandidateRepository) List(ctx context.Context, filters secondary.CandidateFilters) ([]*secondary.CandidateRecord, error) {
	query := "SELECT " + candidateColumns + " FROM candidates WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, filters.BatchID)
	}

	if filters.Search != "" {
		query += " AND (name LIKE ? OR national_id LIKE ?)"
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*secondary.CandidateRecord
	for rows.Next() {
		record, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, record)
	}

	return candidates, rows.Err()
}

// Update updates demographic fields. Empty fields are left unchanged.
func (r *CandidateRepository) Update(ctx context.Context, c *secondary.CandidateRecord) error {
	query := "UPDATE candidates SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	fields := []struct {
		column string
		value  string
	}{
		{"name", c.Name},
		{"father_name", c.FatherName},
		{"phone", c.Phone},
		{"email", c.Email},
		{"province", c.Province},
		{"district", c.District},
		{"address", c.Address},
	}
	for _, f := range fields {
		if f.value != "" {
			query += ", " + f.column + " = ?"
			args = append(args, f.value)
		}
	}

	query += " WHERE id = ?"
	args = append(args, c.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("candidate %s %w", c.ID, secondary.ErrNotFound)
	}

	return nil
}

// UpdateStatus applies a status change guarded by the expected version.
// Nil dates and empty associations keep their stored values.
func (r *CandidateRepository) UpdateStatus(ctx context.Context, u *secondary.StatusUpdate) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE candidates SET
			status = ?,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP,
			registration_date = COALESCE(?, registration_date),
			training_start_date = COALESCE(?, training_start_date),
			training_end_date = COALESCE(?, training_end_date),
			batch_id = COALESCE(?, batch_id),
			campus_id = COALESCE(?, campus_id),
			trade_id = COALESCE(?, trade_id),
			program_id = COALESCE(?, program_id),
			oep_id = COALESCE(?, oep_id)
		 WHERE id = ? AND version = ?`,
		u.Status,
		nullTime(u.RegistrationDate), nullTime(u.TrainingStartDate), nullTime(u.TrainingEndDate),
		nullString(u.BatchID), nullString(u.CampusID), nullString(u.TradeID), nullString(u.ProgramID), nullString(u.OEPID),
		u.ID, u.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		return nil
	}

	var stored int
	err = r.db.QueryRowContext(ctx, "SELECT version FROM candidates WHERE id = ?", u.ID).Scan(&stored)
	if err == sql.ErrNoRows {
		return fmt.Errorf("candidate %s %w", u.ID, secondary.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read candidate version: %w", err)
	}
	return fmt.Errorf("candidate %s was modified concurrently (expected version %d, found %d): %w",
		u.ID, u.ExpectedVersion, stored, secondary.ErrConflict)
}

// Delete removes a candidate. Owned records are removed by cascade.
func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM candidates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("candidate %s %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID reserves and returns the next candidate ID.
// Numbers come from the id_sequences table, so an ID freed by a delete is never issued again.
// Call it inside the transaction that creates the candidate; a rollback releases the number.
func (r *CandidateRepository) GetNextID(ctx context.Context) (string, error) {
	var last int
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(
			COALESCE((SELECT value FROM id_sequences WHERE name = 'candidate'), 0),
			COALESCE((SELECT MAX(CAST(SUBSTR(id, 8) AS INTEGER)) FROM candidates), 0)
		)`,
	).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("failed to get next candidate ID: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO id_sequences (name, value) VALUES ('candidate', ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		last+1,
	)
	if err != nil {
		return "", fmt.Errorf("failed to reserve candidate ID: %w", err)
	}

	return candidate.GenerateCandidateID(last), nil
}

// CountByStatus returns candidate counts grouped by status.
func (r *CandidateRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM candidates GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func scanCandidate(s rowScanner) (*secondary.CandidateRecord, error) {
	var (
		email, province, address                   sql.NullString
		campusID, tradeID, programID, batchID, oep sql.NullString
		registration, trainingStart, trainingEnd   sql.NullTime
		createdAt, updatedAt                       time.Time
	)

	record := &secondary.CandidateRecord{}
	err := s.Scan(&record.ID, &record.NationalID, &record.Name, &record.FatherName, &record.Gender,
		&record.DateOfBirth, &record.Phone, &email, &province, &record.District, &address, &record.Status,
		&campusID, &tradeID, &programID, &batchID, &oep,
		&registration, &trainingStart, &trainingEnd, &record.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Email = email.String
	record.Province = province.String
	record.Address = address.String
	record.CampusID = campusID.String
	record.TradeID = tradeID.String
	record.ProgramID = programID.String
	record.BatchID = batchID.String
	record.OEPID = oep.String
	record.RegistrationDate = timePtr(registration)
	record.TrainingStartDate = timePtr(trainingStart)
	record.TrainingEndDate = timePtr(trainingEnd)
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// Ensure CandidateRepository implements the interface
var _ secondary.CandidateRepository = (*CandidateRepository)(nil)
