package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/btevta/internal/ports/secondary"
)

// UnitOfWork implements secondary.UnitOfWork with a SQLite transaction.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new SQLite unit of work.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back on error or panic.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos secondary.Repositories) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// NewRepositories builds every repository over the same querier.
func NewRepositories(q DBTX) secondary.Repositories {
	return secondary.Repositories{
		Candidates:     NewCandidateRepository(q),
		Screenings:     NewScreeningRepository(q),
		Assessments:    NewAssessmentRepository(q),
		Certificates:   NewCertificateRepository(q),
		VisaProcesses:  NewVisaProcessRepository(q),
		Departures:     NewDepartureRepository(q),
		PostDepartures: NewPostDepartureRepository(q),
		SuccessStories: NewSuccessStoryRepository(q),
		History:        NewStatusHistoryRepository(q),
		Reference:      NewReferenceRepository(q),
	}
}

// Ensure UnitOfWork implements the interface
var _ secondary.UnitOfWork = (*UnitOfWork)(nil)
