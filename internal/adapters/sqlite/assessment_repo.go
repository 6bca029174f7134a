package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// AssessmentRepository implements secondary.AssessmentRepository with SQLite.
type AssessmentRepository struct {
	db DBTX
}

// NewAssessmentRepository creates a new SQLite assessment repository.
func NewAssessmentRepository(db DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create persists a new assessment. One assessment per (candidate, type).
func (r *AssessmentRepository) Create(ctx context.Context, a *secondary.AssessmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO training_assessments (id, candidate_id, assessment_type, score, max_score, result, assessor, assessed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CandidateID, a.Type, a.Score, a.MaxScore, a.Result, nullString(a.Assessor), a.AssessedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s already has a %s assessment: %w", a.CandidateID, a.Type, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// Update overwrites the score fields of an assessment.
func (r *AssessmentRepository) Update(ctx context.Context, a *secondary.AssessmentRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE training_assessments SET score = ?, max_score = ?, result = ?, assessor = ?, assessed_at = ? WHERE id = ?",
		a.Score, a.MaxScore, a.Result, nullString(a.Assessor), a.AssessedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("assessment %s %w", a.ID, secondary.ErrNotFound)
	}
	return nil
}

// ListByCandidate returns the candidate's assessments, interim first.
func (r *AssessmentRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*secondary.AssessmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, candidate_id, assessment_type, score, max_score, result, assessor, assessed_at, created_at
		 FROM training_assessments WHERE candidate_id = ?
		 ORDER BY CASE assessment_type WHEN 'interim' THEN 0 ELSE 1 END`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*secondary.AssessmentRecord
	for rows.Next() {
		var (
			assessor  sql.NullString
			createdAt time.Time
		)
		record := &secondary.AssessmentRecord{}
		if err := rows.Scan(&record.ID, &record.CandidateID, &record.Type, &record.Score, &record.MaxScore,
			&record.Result, &assessor, &record.AssessedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		record.Assessor = assessor.String
		record.CreatedAt = formatTime(createdAt)
		assessments = append(assessments, record)
	}

	return assessments, rows.Err()
}

// GetNextID returns the next available assessment ID.
func (r *AssessmentRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM training_assessments",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next assessment ID: %w", err)
	}

	return fmt.Sprintf("ASMT-%04d", maxID+1), nil
}

// Ensure AssessmentRepository implements the interface
var _ secondary.AssessmentRepository = (*AssessmentRepository)(nil)
