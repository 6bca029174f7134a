package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/btevta/internal/ports/secondary"
)

// ReferenceRepository implements secondary.ReferenceRepository with SQLite.
type ReferenceRepository struct {
	db DBTX
}

// NewReferenceRepository creates a new SQLite reference data repository.
func NewReferenceRepository(db DBTX) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// GetBatch retrieves a batch by ID.
func (r *ReferenceRepository) GetBatch(ctx context.Context, id string) (*secondary.BatchRecord, error) {
	record := &secondary.BatchRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, campus_id, trade_id, program_id, start_date, end_date, capacity FROM batches WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.CampusID, &record.TradeID, &record.ProgramID, &record.StartDate, &record.EndDate, &record.Capacity)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return record, nil
}

// ListBatches returns all batches ordered by ID.
func (r *ReferenceRepository) ListBatches(ctx context.Context) ([]*secondary.BatchRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, campus_id, trade_id, program_id, start_date, end_date, capacity FROM batches ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []*secondary.BatchRecord
	for rows.Next() {
		record := &secondary.BatchRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.CampusID, &record.TradeID, &record.ProgramID, &record.StartDate, &record.EndDate, &record.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, record)
	}
	return batches, rows.Err()
}

// GetOEP retrieves an overseas employment promoter by ID.
func (r *ReferenceRepository) GetOEP(ctx context.Context, id string) (*secondary.OEPRecord, error) {
	record := &secondary.OEPRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, license_number FROM oeps WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &record.License)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("OEP %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get OEP: %w", err)
	}
	return record, nil
}

// ListOEPs returns all overseas employment promoters ordered by ID.
func (r *ReferenceRepository) ListOEPs(ctx context.Context) ([]*secondary.OEPRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, license_number FROM oeps ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list OEPs: %w", err)
	}
	defer rows.Close()

	var oeps []*secondary.OEPRecord
	for rows.Next() {
		record := &secondary.OEPRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.License); err != nil {
			return nil, fmt.Errorf("failed to scan OEP: %w", err)
		}
		oeps = append(oeps, record)
	}
	return oeps, rows.Err()
}

// Ensure ReferenceRepository implements the interface
var _ secondary.ReferenceRepository = (*ReferenceRepository)(nil)
