package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// CertificateRepository implements secondary.CertificateRepository with SQLite.
type CertificateRepository struct {
	db DBTX
}

// NewCertificateRepository creates a new SQLite certificate repository.
func NewCertificateRepository(db DBTX) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create persists a new certificate.
func (r *CertificateRepository) Create(ctx context.Context, c *secondary.CertificateRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO training_certificates (id, candidate_id, certificate_number, issuing_authority, issued_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.CandidateID, c.CertificateNumber, c.IssuingAuthority, c.IssuedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("certificate %s or certificate for %s already exists: %w", c.CertificateNumber, c.CandidateID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

// GetByCandidate returns the candidate's certificate, or nil if none exists.
func (r *CertificateRepository) GetByCandidate(ctx context.Context, candidateID string) (*secondary.CertificateRecord, error) {
	var createdAt time.Time

	record := &secondary.CertificateRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, candidate_id, certificate_number, issuing_authority, issued_at, created_at FROM training_certificates WHERE candidate_id = ?",
		candidateID,
	).Scan(&record.ID, &record.CandidateID, &record.CertificateNumber, &record.IssuingAuthority, &record.IssuedAt, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	record.CreatedAt = formatTime(createdAt)
	return record, nil
}

// GetNextID returns the next available certificate row ID.
func (r *CertificateRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 4) AS INTEGER)), 0) FROM training_certificates",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next certificate ID: %w", err)
	}

	return fmt.Sprintf("TC-%04d", maxID+1), nil
}

// MaxSequenceForYear returns the highest CERT-YYYY-NNNNN sequence for year.
func (r *CertificateRepository) MaxSequenceForYear(ctx context.Context, year int) (int, error) {
	var maxSeq int
	prefix := fmt.Sprintf("CERT-%04d-", year)
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(certificate_number, ?) AS INTEGER)), 0) FROM training_certificates WHERE certificate_number LIKE ?",
		len(prefix)+1, prefix+"%",
	).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to get certificate sequence: %w", err)
	}
	return maxSeq, nil
}

// Ensure CertificateRepository implements the interface
var _ secondary.CertificateRepository = (*CertificateRepository)(nil)
