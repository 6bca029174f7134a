// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is wrapped by repositories when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is wrapped when a write loses an optimistic concurrency check
// or collides with a unique key.
var ErrConflict = errors.New("conflict")

// UnitOfWork runs a function against repositories bound to one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Repositories groups the repositories available inside a unit of work.
type Repositories struct {
	Candidates     CandidateRepository
	Screenings     ScreeningRepository
	Assessments    AssessmentRepository
	Certificates   CertificateRepository
	VisaProcesses  VisaProcessRepository
	Departures     DepartureRepository
	PostDepartures PostDepartureRepository
	SuccessStories SuccessStoryRepository
	History        StatusHistoryRepository
	Reference      ReferenceRepository
}

// CandidateRepository defines the secondary port for candidate persistence.
type CandidateRepository interface {
	// Create persists a new candidate.
	Create(ctx context.Context, candidate *CandidateRecord) error

	// GetByID retrieves a candidate by its external ID.
	GetByID(ctx context.Context, id string) (*CandidateRecord, error)

	// GetByNationalID retrieves a candidate by national ID.
	GetByNationalID(ctx context.Context, nationalID string) (*CandidateRecord, error)

	// NationalIDExists checks whether a national ID is already registered.
	NationalIDExists(ctx context.Context, nationalID string) (bool, error)

	// List retrieves candidates matching the given filters.
	List(ctx context.Context, filters CandidateFilters) ([]*CandidateRecord, error)

	// Update updates demographic fields. Status is never changed here.
	Update(ctx context.Context, candidate *CandidateRecord) error

	// UpdateStatus applies a status change guarded by the expected version.
	// Returns ErrConflict when the stored version differs.
	UpdateStatus(ctx context.Context, change *StatusUpdate) error

	// Delete removes a candidate and, by cascade, its owned records.
	Delete(ctx context.Context, id string) error

	// GetNextID reserves the next candidate ID. Numbers are never reused.
	GetNextID(ctx context.Context) (string, error)

	// CountByStatus returns candidate counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// CandidateRecord represents a candidate as stored in persistence.
type CandidateRecord struct {
	ID                string
	NationalID        string
	Name              string
	FatherName        string
	Gender            string
	DateOfBirth       time.Time
	Phone             string
	Email             string // Empty string means null
	Province          string // Empty string means null
	District          string
	Address           string // Empty string means null
	Status            string
	CampusID          string // Empty string means null
	TradeID           string // Empty string means null
	ProgramID         string // Empty string means null
	BatchID           string // Empty string means null
	OEPID             string // Empty string means null
	RegistrationDate  *time.Time
	TrainingStartDate *time.Time
	TrainingEndDate   *time.Time
	Version           int
	CreatedAt         string
	UpdatedAt         string
}

// StatusUpdate is the candidate-row write for a lifecycle advance.
// Nil/empty optional fields leave stored values untouched.
type StatusUpdate struct {
	ID                string
	Status            string
	ExpectedVersion   int
	RegistrationDate  *time.Time
	TrainingStartDate *time.Time
	TrainingEndDate   *time.Time
	BatchID           string
	CampusID          string
	TradeID           string
	ProgramID         string
	OEPID             string
}

// CandidateFilters contains filter options for querying candidates.
type CandidateFilters struct {
	Status  string
	BatchID string
	Search  string // matches name or national ID
	Limit   int
}

// ScreeningRepository defines the secondary port for screening persistence.
type ScreeningRepository interface {
	Create(ctx context.Context, screening *ScreeningRecord) error
	Update(ctx context.Context, screening *ScreeningRecord) error
	// GetByCandidate returns nil, nil when the candidate has no screening.
	GetByCandidate(ctx context.Context, candidateID string) (*ScreeningRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// ScreeningRecord represents a candidate screening as stored in persistence.
type ScreeningRecord struct {
	ID                string
	CandidateID       string
	Consent           bool
	PlacementInterest string
	TargetCountry     string
	Reviewer          string
	ReviewedAt        *time.Time
	Outcome           string
	CreatedAt         string
	UpdatedAt         string
}

// AssessmentRepository defines the secondary port for training assessment persistence.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *AssessmentRecord) error
	Update(ctx context.Context, assessment *AssessmentRecord) error
	ListByCandidate(ctx context.Context, candidateID string) ([]*AssessmentRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// AssessmentRecord represents a training assessment as stored in persistence.
type AssessmentRecord struct {
	ID          string
	CandidateID string
	Type        string // interim, final
	Score       float64
	MaxScore    float64
	Result      string // pass, fail
	Assessor    string
	AssessedAt  time.Time
	CreatedAt   string
}

// CertificateRepository defines the secondary port for training certificate persistence.
type CertificateRepository interface {
	Create(ctx context.Context, certificate *CertificateRecord) error
	// GetByCandidate returns nil, nil when the candidate has no certificate.
	GetByCandidate(ctx context.Context, candidateID string) (*CertificateRecord, error)
	GetNextID(ctx context.Context) (string, error)
	// MaxSequenceForYear returns the highest certificate sequence issued in a year, 0 if none.
	MaxSequenceForYear(ctx context.Context, year int) (int, error)
}

// CertificateRecord represents a training certificate as stored in persistence.
type CertificateRecord struct {
	ID                string
	CandidateID       string
	CertificateNumber string
	IssuingAuthority  string
	IssuedAt          time.Time
	CreatedAt         string
}

// VisaProcessRepository defines the secondary port for visa process persistence.
type VisaProcessRepository interface {
	Create(ctx context.Context, visa *VisaProcessRecord) error
	Update(ctx context.Context, visa *VisaProcessRecord) error
	// GetByCandidate returns nil, nil when the candidate has no visa process.
	GetByCandidate(ctx context.Context, candidateID string) (*VisaProcessRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// VisaProcessRecord represents a visa process as stored in persistence.
type VisaProcessRecord struct {
	ID               string
	CandidateID      string
	InterviewDate    *time.Time
	InterviewStatus  string
	InterviewRemarks string
	TradeTestDate    *time.Time
	TradeTestStatus  string
	MedicalDate      *time.Time
	MedicalStatus    string
	BiometricDate    *time.Time
	BiometricStatus  string
	VisaNumber       string
	VisaDate         *time.Time
	VisaStatus       string
	CreatedAt        string
	UpdatedAt        string
}

// DepartureRepository defines the secondary port for departure persistence.
type DepartureRepository interface {
	Create(ctx context.Context, departure *DepartureRecord) error
	Update(ctx context.Context, departure *DepartureRecord) error
	// GetByCandidate returns nil, nil when the candidate has no departure.
	GetByCandidate(ctx context.Context, candidateID string) (*DepartureRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// DepartureRecord represents a departure as stored in persistence.
type DepartureRecord struct {
	ID                        string
	CandidateID               string
	DepartureDate             time.Time
	FlightNumber              string
	Destination               string
	ResidencyRegistrationDate *time.Time
	IDRegistrationDate        *time.Time
	FirstSalaryDate           *time.Time
	NinetyDayCompliant        bool
	CreatedAt                 string
	UpdatedAt                 string
}

// PostDepartureRepository defines the secondary port for post-departure detail persistence.
type PostDepartureRepository interface {
	Create(ctx context.Context, detail *PostDepartureRecord) error
	Update(ctx context.Context, detail *PostDepartureRecord) error
	// GetByCandidate returns nil, nil when the candidate has no post-departure detail.
	GetByCandidate(ctx context.Context, candidateID string) (*PostDepartureRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// PostDepartureRecord represents a post-departure detail as stored in persistence.
type PostDepartureRecord struct {
	ID          string
	CandidateID string
	DepartureID string
	Employer    string
	JobTitle    string
	Salary      float64
	Currency    string
	CreatedAt   string
	UpdatedAt   string
}

// SuccessStoryRepository defines the secondary port for success story persistence.
type SuccessStoryRepository interface {
	Create(ctx context.Context, story *SuccessStoryRecord) error
	Update(ctx context.Context, story *SuccessStoryRecord) error
	// GetByCandidate returns nil, nil when the candidate has no story.
	GetByCandidate(ctx context.Context, candidateID string) (*SuccessStoryRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// SuccessStoryRecord represents a success story as stored in persistence.
type SuccessStoryRecord struct {
	ID          string
	CandidateID string
	Narrative   string
	Featured    bool
	CreatedAt   string
}

// StatusHistoryRepository defines the secondary port for status history persistence.
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *StatusHistoryRecord) error
	ListByCandidate(ctx context.Context, candidateID string) ([]*StatusHistoryRecord, error)
}

// StatusHistoryRecord represents one status change as stored in persistence.
type StatusHistoryRecord struct {
	ID          string // UUID
	CandidateID string
	FromStatus  string
	ToStatus    string
	Remarks     string
	ActorID     string // Empty string means null
	CreatedAt   time.Time
}

// ReferenceRepository defines the secondary port for reference data lookups.
type ReferenceRepository interface {
	// GetBatch returns ErrNotFound when the batch does not exist.
	GetBatch(ctx context.Context, id string) (*BatchRecord, error)
	ListBatches(ctx context.Context) ([]*BatchRecord, error)
	// GetOEP returns ErrNotFound when the promoter does not exist.
	GetOEP(ctx context.Context, id string) (*OEPRecord, error)
	ListOEPs(ctx context.Context) ([]*OEPRecord, error)
}

// BatchRecord represents a training batch as stored in persistence.
type BatchRecord struct {
	ID        string
	Name      string
	CampusID  string
	TradeID   string
	ProgramID string
	StartDate time.Time
	EndDate   time.Time
	Capacity  int
}

// OEPRecord represents an overseas employment promoter.
type OEPRecord struct {
	ID      string
	Name    string
	License string
}
