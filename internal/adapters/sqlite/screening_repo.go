package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// ScreeningRepository implements secondary.ScreeningRepository with SQLite.
type ScreeningRepository struct {
	db DBTX
}

// NewScreeningRepository creates a new SQLite screening repository.
func NewScreeningRepository(db DBTX) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

// Create persists a new screening.
func (r *ScreeningRepository) Create(ctx context.Context, s *secondary.ScreeningRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO candidate_screenings (id, candidate_id, consent, placement_interest, target_country, reviewer, reviewed_at, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CandidateID, s.Consent, nullString(s.PlacementInterest), nullString(s.TargetCountry),
		nullString(s.Reviewer), nullTime(s.ReviewedAt), s.Outcome,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s already has a screening: %w", s.CandidateID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create screening: %w", err)
	}
	return nil
}

// Update overwrites a screening with the merged record.
func (r *ScreeningRepository) Update(ctx context.Context, s *secondary.ScreeningRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE candidate_screenings SET consent = ?, placement_interest = ?, target_country = ?, reviewer = ?,
		 reviewed_at = ?, outcome = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		s.Consent, nullString(s.PlacementInterest), nullString(s.TargetCountry), nullString(s.Reviewer),
		nullTime(s.ReviewedAt), s.Outcome, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update screening: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("screening %s %w", s.ID, secondary.ErrNotFound)
	}
	return nil
}

// GetByCandidate returns the candidate's screening, or nil if none exists.
func (r *ScreeningRepository) GetByCandidate(ctx context.Context, candidateID string) (*secondary.ScreeningRecord, error) {
	var (
		interest, country, reviewer sql.NullString
		reviewedAt                  sql.NullTime
		createdAt, updatedAt        time.Time
	)

	record := &secondary.ScreeningRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, candidate_id, consent, placement_interest, target_country, reviewer, reviewed_at, outcome, created_at, updated_at
		 FROM candidate_screenings WHERE candidate_id = ?`,
		candidateID,
	).Scan(&record.ID, &record.CandidateID, &record.Consent, &interest, &country, &reviewer, &reviewedAt, &record.Outcome, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get screening: %w", err)
	}

	record.PlacementInterest = interest.String
	record.TargetCountry = country.String
	record.Reviewer = reviewer.String
	record.ReviewedAt = timePtr(reviewedAt)
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// GetNextID returns the next available screening ID.
func (r *ScreeningRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM candidate_screenings",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next screening ID: %w", err)
	}

	return fmt.Sprintf("SCR-%04d", maxID+1), nil
}

// Ensure ScreeningRepository implements the interface
var _ secondary.ScreeningRepository = (*ScreeningRepository)(nil)
