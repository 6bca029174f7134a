package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/btevta/internal/ports/secondary"
)

// StatusHistoryRepository implements secondary.StatusHistoryRepository with SQLite.
type StatusHistoryRepository struct {
	db DBTX
}

// NewStatusHistoryRepository creates a new SQLite status history repository.
func NewStatusHistoryRepository(db DBTX) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

// Create appends a status change.
func (r *StatusHistoryRepository) Create(ctx context.Context, e *secondary.StatusHistoryRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO candidate_status_history (id, candidate_id, from_status, to_status, remarks, actor_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.CandidateID, e.FromStatus, e.ToStatus, nullString(e.Remarks), nullString(e.ActorID), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	return nil
}

// ListByCandidate returns the candidate's status changes, oldest first.
func (r *StatusHistoryRepository) ListByCandidate(ctx context.Context, candidateID string) ([]*secondary.StatusHistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, candidate_id, from_status, to_status, remarks, actor_id, created_at FROM candidate_status_history WHERE candidate_id = ? ORDER BY created_at, rowid",
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.StatusHistoryRecord
	for rows.Next() {
		var remarks, actor sql.NullString
		record := &secondary.StatusHistoryRecord{}
		if err := rows.Scan(&record.ID, &record.CandidateID, &record.FromStatus, &record.ToStatus, &remarks, &actor, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		record.Remarks = remarks.String
		record.ActorID = actor.String
		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// Ensure StatusHistoryRepository implements the interface
var _ secondary.StatusHistoryRepository = (*StatusHistoryRepository)(nil)
