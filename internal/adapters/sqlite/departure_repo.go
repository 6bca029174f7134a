package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// DepartureRepository implements secondary.DepartureRepository with SQLite.
type DepartureRepository struct {
	db DBTX
}

// NewDepartureRepository creates a new SQLite departure repository.
func NewDepartureRepository(db DBTX) *DepartureRepository {
	return &DepartureRepository{db: db}
}

// Create persists a new departure.
func (r *DepartureRepository) Create(ctx context.Context, d *secondary.DepartureRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO departures (id, candidate_id, departure_date, flight_number, destination,
			residency_registration_date, id_registration_date, first_salary_date, ninety_day_compliant)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CandidateID, d.DepartureDate, nullString(d.FlightNumber), nullString(d.Destination),
		nullTime(d.ResidencyRegistrationDate), nullTime(d.IDRegistrationDate), nullTime(d.FirstSalaryDate), d.NinetyDayCompliant,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s already has a departure: %w", d.CandidateID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create departure: %w", err)
	}
	return nil
}

// Update overwrites a departure with the merged record.
func (r *DepartureRepository) Update(ctx context.Context, d *secondary.DepartureRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE departures SET departure_date = ?, flight_number = ?, destination = ?,
			residency_registration_date = ?, id_registration_date = ?, first_salary_date = ?,
			ninety_day_compliant = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		d.DepartureDate, nullString(d.FlightNumber), nullString(d.Destination),
		nullTime(d.ResidencyRegistrationDate), nullTime(d.IDRegistrationDate), nullTime(d.FirstSalaryDate),
		d.NinetyDayCompliant, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update departure: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("departure %s %w", d.ID, secondary.ErrNotFound)
	}
	return nil
}

// GetByCandidate returns the candidate's departure, or nil if none exists.
func (r *DepartureRepository) GetByCandidate(ctx context.Context, candidateID string) (*secondary.DepartureRecord, error) {
	var (
		flight, destination           sql.NullString
		residency, idReg, firstSalary sql.NullTime
		createdAt, updatedAt          time.Time
	)

	record := &secondary.DepartureRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, candidate_id, departure_date, flight_number, destination, residency_registration_date,
			id_registration_date, first_salary_date, ninety_day_compliant, created_at, updated_at
		 FROM departures WHERE candidate_id = ?`,
		candidateID,
	).Scan(&record.ID, &record.CandidateID, &record.DepartureDate, &flight, &destination, &residency,
		&idReg, &firstSalary, &record.NinetyDayCompliant, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get departure: %w", err)
	}

	record.FlightNumber = flight.String
	record.Destination = destination.String
	record.ResidencyRegistrationDate = timePtr(residency)
	record.IDRegistrationDate = timePtr(idReg)
	record.FirstSalaryDate = timePtr(firstSalary)
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// GetNextID returns the next available departure ID.
func (r *DepartureRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM departures",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next departure ID: %w", err)
	}

	return fmt.Sprintf("DEP-%04d", maxID+1), nil
}

// Ensure DepartureRepository implements the interface
var _ secondary.DepartureRepository = (*DepartureRepository)(nil)
