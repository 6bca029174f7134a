package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/btevta/internal/ports/secondary"
)

// VisaProcessRepository implements secondary.VisaProcessRepository with SQLite.
type VisaProcessRepository struct {
	db DBTX
}

// NewVisaProcessRepository creates a new SQLite visa process repository.
func NewVisaProcessRepository(db DBTX) *VisaProcessRepository {
	return &VisaProcessRepository{db: db}
}

// Create persists a new visa process.
func (r *VisaProcessRepository) Create(ctx context.Context, v *secondary.VisaProcessRecord) error {
	status := v.VisaStatus
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visa_processes (id, candidate_id, interview_date, interview_status, interview_remarks,
			trade_test_date, trade_test_status, medical_date, medical_status, biometric_date, biometric_status,
			visa_number, visa_date, visa_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.CandidateID, nullTime(v.InterviewDate), nullString(v.InterviewStatus), nullString(v.InterviewRemarks),
		nullTime(v.TradeTestDate), nullString(v.TradeTestStatus), nullTime(v.MedicalDate), nullString(v.MedicalStatus),
		nullTime(v.BiometricDate), nullString(v.BiometricStatus), nullString(v.VisaNumber), nullTime(v.VisaDate), status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s already has a visa process: %w", v.CandidateID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to create visa process: %w", err)
	}
	return nil
}

// Update overwrites a visa process with the merged record.
func (r *VisaProcessRepository) Update(ctx context.Context, v *secondary.VisaProcessRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE visa_processes SET interview_date = ?, interview_status = ?, interview_remarks = ?,
			trade_test_date = ?, trade_test_status = ?, medical_date = ?, medical_status = ?,
			biometric_date = ?, biometric_status = ?, visa_number = ?, visa_date = ?, visa_status = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		nullTime(v.InterviewDate), nullString(v.InterviewStatus), nullString(v.InterviewRemarks),
		nullTime(v.TradeTestDate), nullString(v.TradeTestStatus), nullTime(v.MedicalDate), nullString(v.MedicalStatus),
		nullTime(v.BiometricDate), nullString(v.BiometricStatus), nullString(v.VisaNumber), nullTime(v.VisaDate), v.VisaStatus,
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update visa process: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("visa process %s %w", v.ID, secondary.ErrNotFound)
	}
	return nil
}

// GetByCandidate returns the candidate's visa process, or nil if none exists.
func (r *VisaProcessRepository) GetByCandidate(ctx context.Context, candidateID string) (*secondary.VisaProcessRecord, error) {
	var (
		interviewStatus, interviewRemarks, tradeTestStatus sql.NullString
		medicalStatus, biometricStatus, visaNumber         sql.NullString
		interviewDate, tradeTestDate, medicalDate          sql.NullTime
		biometricDate, visaDate                            sql.NullTime
		createdAt, updatedAt                               time.Time
	)

	record := &secondary.VisaProcessRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, candidate_id, interview_date, interview_status, interview_remarks, trade_test_date, trade_test_status,
			medical_date, medical_status, biometric_date, biometric_status, visa_number, visa_date, visa_status,
			created_at, updated_at
		 FROM visa_processes WHERE candidate_id = ?`,
		candidateID,
	).Scan(&record.ID, &record.CandidateID, &interviewDate, &interviewStatus, &interviewRemarks, &tradeTestDate, &tradeTestStatus,
		&medicalDate, &medicalStatus, &biometricDate, &biometricStatus, &visaNumber, &visaDate, &record.VisaStatus,
		&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visa process: %w", err)
	}

	record.InterviewDate = timePtr(interviewDate)
	record.InterviewStatus = interviewStatus.String
	record.InterviewRemarks = interviewRemarks.String
	record.TradeTestDate = timePtr(tradeTestDate)
	record.TradeTestStatus = tradeTestStatus.String
	record.MedicalDate = timePtr(medicalDate)
	record.MedicalStatus = medicalStatus.String
	record.BiometricDate = timePtr(biometricDate)
	record.BiometricStatus = biometricStatus.String
	record.VisaNumber = visaNumber.String
	record.VisaDate = timePtr(visaDate)
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// GetNextID returns the next available visa process ID.
func (r *VisaProcessRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM visa_processes",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next visa process ID: %w", err)
	}

	return fmt.Sprintf("VISA-%04d", maxID+1), nil
}

// Ensure VisaProcessRepository implements the interface
var _ secondary.VisaProcessRepository = (*VisaProcessRepository)(nil)
