package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// SuccessStoryRepository implements secondary.SuccessStoryRepository with SQLite.
type SuccessStoryRepository struct {
	db DBTX
}

// NewSuccessStoryRepository creates a new SQLite success story repository.
func NewSuccessStoryRepository(db DBTX) *SuccessStoryRepository {
	return &SuccessStoryRepository{db: db}
}

// Create persists a new success story.
func (r *SuccessStoryRepository) Create(ctx context.Context, s *secondary.SuccessStoryRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO success_stories (id, candidate_id, narrative, featured) VALUES (?, ?, ?, ?)",
		s.ID, s.CandidateID, s.Narrative, s.Featured,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s already has a success story: %w", s.CandidateID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create success story: %w", err)
	}
	return nil
}

// Update overwrites the narrative and featured flag.
func (r *SuccessStoryRepository) Update(ctx context.Context, s *secondary.SuccessStoryRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE success_stories SET narrative = ?, featured = ? WHERE id = ?",
		s.Narrative, s.Featured, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update success story: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("success story %s %w", s.ID, secondary.ErrNotFound)
	}
	return nil
}

// GetByCandidate returns the candidate's success story, or nil if none exists.
func (r *SuccessStoryRepository) GetByCandidate(ctx context.Context, candidateID string) (*secondary.SuccessStoryRecord, error) {
	var createdAt time.Time

	record := &secondary.SuccessStoryRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, candidate_id, narrative, featured, created_at FROM success_stories WHERE candidate_id = ?",
		candidateID,
	).Scan(&record.ID, &record.CandidateID, &record.Narrative, &record.Featured, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get success story: %w", err)
	}

	record.CreatedAt = formatTime(createdAt)
	return record, nil
}

// GetNextID returns the next available success story ID.
func (r *SuccessStoryRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM success_stories",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next success story ID: %w", err)
	}

	return fmt.Sprintf("STORY-%04d", maxID+1), nil
}

// Ensure SuccessStoryRepository implements the interface
var _ secondary.SuccessStoryRepository = (*SuccessStoryRepository)(nil)
