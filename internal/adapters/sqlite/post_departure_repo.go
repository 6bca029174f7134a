package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// PostDepartureRepository implements secondary.PostDepartureRepository with SQLite.
type PostDepartureRepository struct {
	db DBTX
}

// NewPostDepartureRepository creates a new SQLite post-departure repository.
func NewPostDepartureRepository(db DBTX) *PostDepartureRepository {
	return &PostDepartureRepository{db: db}
}

// Create persists a new post-departure detail.
func (r *PostDepartureRepository) Create(ctx context.Context, p *secondary.PostDepartureRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO post_departure_details (id, candidate_id, departure_id, employer, job_title, salary, currency) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.CandidateID, p.DepartureID, p.Employer, nullString(p.JobTitle), p.Salary, p.Currency,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("departure %s already has post-departure details: %w", p.DepartureID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create post-departure detail: %w", err)
	}
	return nil
}

// Update overwrites the employment fields.
func (r *PostDepartureRepository) Update(ctx context.Context, p *secondary.PostDepartureRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE post_departure_details SET employer = ?, job_title = ?, salary = ?, currency = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		p.Employer, nullString(p.JobTitle), p.Salary, p.Currency, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post-departure detail: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("post-departure detail %s %w", p.ID, secondary.ErrNotFound)
	}
	return nil
}

// GetByCandidate returns the candidate's post-departure detail, or nil if none exists.
func (r *PostDepartureRepository) GetByCandidate(ctx context.Context, candidateID string) (*secondary.PostDepartureRecord, error) {
	var (
		jobTitle             sql.NullString
		createdAt, updatedAt time.Time
	)

	record := &secondary.PostDepartureRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, candidate_id, departure_id, employer, job_title, salary, currency, created_at, updated_at FROM post_departure_details WHERE candidate_id = ?",
		candidateID,
	).Scan(&record.ID, &record.CandidateID, &record.DepartureID, &record.Employer, &jobTitle, &record.Salary, &record.Currency, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post-departure detail: %w", err)
	}

	record.JobTitle = jobTitle.String
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)
	return record, nil
}

// GetNextID returns the next available post-departure detail ID.
func (r *PostDepartureRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM post_departure_details",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next post-departure ID: %w", err)
	}

	return fmt.Sprintf("PDD-%04d", maxID+1), nil
}

// Ensure PostDepartureRepository implements the interface
var _ secondary.PostDepartureRepository = (*PostDepartureRepository)(nil)
