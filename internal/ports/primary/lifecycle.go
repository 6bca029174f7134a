// Package primary defines the primary ports (driving adapters) for the application.
package primary

import (
	"context"
	"time"
)

// LifecycleService defines the primary port for candidate lifecycle operations.
type LifecycleService interface {
	// CreateCandidate creates a new candidate in the listed status.
	CreateCandidate(ctx context.Context, req CreateCandidateRequest) (*CreateCandidateResponse, error)

	// GetCandidate retrieves a candidate by external ID.
	GetCandidate(ctx context.Context, candidateID string) (*Candidate, error)

	// GetCandidateByNationalID retrieves a candidate by national ID.
	GetCandidateByNationalID(ctx context.Context, nationalID string) (*Candidate, error)

	// ListCandidates lists candidates with optional filters.
	ListCandidates(ctx context.Context, filters CandidateFilters) ([]*Candidate, error)

	// UpdateCandidate updates demographic fields. Status is not affected.
	UpdateCandidate(ctx context.Context, req UpdateCandidateRequest) error

	// DeleteCandidate deletes a candidate and its owned records.
	DeleteCandidate(ctx context.Context, candidateID string) error

	// Advance moves a candidate to the target status, applying the stage's side effects.
	Advance(ctx context.Context, req AdvanceRequest) (*AdvanceResponse, error)

	// RecordScreening creates or updates the candidate's screening.
	RecordScreening(ctx context.Context, req RecordScreeningRequest) (*Screening, error)

	// RecordAssessment creates or updates a training assessment during training.
	RecordAssessment(ctx context.Context, req RecordAssessmentRequest) (*Assessment, error)

	// RecordVisaStep fills visa sub-results on the existing visa process.
	RecordVisaStep(ctx context.Context, req RecordVisaStepRequest) (*VisaProcess, error)

	// RecordCompliance records post-departure reporting dates and evaluates 90-day compliance.
	RecordCompliance(ctx context.Context, req RecordComplianceRequest) (*Departure, error)

	// GetCandidateRecords retrieves a candidate with all side records.
	GetCandidateRecords(ctx context.Context, candidateID string) (*CandidateRecords, error)

	// GetHistory lists the candidate's status changes, oldest first.
	GetHistory(ctx context.Context, candidateID string) ([]*StatusChange, error)

	// StatusCounts returns candidate counts for every status.
	StatusCounts(ctx context.Context) ([]StatusCount, error)
}

// CreateCandidateRequest contains parameters for creating a candidate.
type CreateCandidateRequest struct {
	NationalID  string    `validate:"required"`
	Name        string    `validate:"required,max=120"`
	FatherName  string    `validate:"required,max=120"`
	Gender      string    `validate:"required,oneof=male female other"`
	DateOfBirth time.Time `validate:"required"`
	Phone       string    `validate:"required,min=7,max=20"`
	Email       string    `validate:"omitempty,email"`
	Province    string    `validate:"omitempty,max=60"`
	District    string    `validate:"required,max=60"`
	Address     string    `validate:"omitempty,max=255"`
}

// CreateCandidateResponse contains the result of creating a candidate.
type CreateCandidateResponse struct {
	CandidateID string
	Candidate   *Candidate
}

// UpdateCandidateRequest contains parameters for updating a candidate.
// Empty fields are left unchanged.
type UpdateCandidateRequest struct {
	CandidateID string `validate:"required"`
	Name        string `validate:"omitempty,max=120"`
	FatherName  string `validate:"omitempty,max=120"`
	Phone       string `validate:"omitempty,min=7,max=20"`
	Email       string `validate:"omitempty,email"`
	Province    string `validate:"omitempty,max=60"`
	District    string `validate:"omitempty,max=60"`
	Address     string `validate:"omitempty,max=255"`
}

// Candidate represents a candidate entity at the port boundary.
type Candidate struct {
	ID                string
	NationalID        string
	Name              string
	FatherName        string
	Gender            string
	DateOfBirth       time.Time
	Phone             string
	Email             string
	Province          string
	District          string
	Address           string
	Status            string
	CampusID          string
	TradeID           string
	ProgramID         string
	BatchID           string
	OEPID             string
	RegistrationDate  *time.Time
	TrainingStartDate *time.Time
	TrainingEndDate   *time.Time
	Version           int
	CreatedAt         string
	UpdatedAt         string
}

// CandidateFilters contains filter options for listing candidates.
type CandidateFilters struct {
	Status  string
	BatchID string
	Search  string
	Limit   int
}

// AdvanceRequest contains parameters for a lifecycle advance.
// Only the stage data relevant to the target status is read.
type AdvanceRequest struct {
	CandidateID string
	Target      string
	Remarks     string
	Screening   *ScreeningInput
	BatchID     string
	Training    *TrainingInput
	Interview   *InterviewInput
	Visa        *VisaInput
	Departure   *DepartureInput
	Employment  *EmploymentInput
	Story       *StoryInput
}

// AdvanceResponse contains the result of an advance.
type AdvanceResponse struct {
	Candidate      *Candidate
	FromStatus     string
	ToStatus       string
	StatusChanged  bool
	RecordsWritten []string // entity:operation for each side record written
}

// ScreeningInput carries screening fields.
type ScreeningInput struct {
	Consent           *bool
	PlacementInterest string `validate:"omitempty,oneof=local international"`
	TargetCountry     string
	Reviewer          string
	Outcome           string `validate:"omitempty,oneof=pending passed failed"`
}

// TrainingInput carries interim and final scores.
type TrainingInput struct {
	InterimScore *float64
	FinalScore   *float64
	MaxScore     float64 `validate:"gt=0"`
	Assessor     string
}

// InterviewInput carries interview results and the optional OEP assignment.
type InterviewInput struct {
	Date    *time.Time
	Status  string `validate:"omitempty,oneof=scheduled passed failed"`
	Remarks string
	OEPID   string
}

// VisaInput carries visa sub-results.
type VisaInput struct {
	TradeTestDate   *time.Time
	TradeTestStatus string `validate:"omitempty,oneof=pending passed failed"`
	MedicalDate     *time.Time
	MedicalStatus   string `validate:"omitempty,oneof=pending fit unfit"`
	BiometricDate   *time.Time
	BiometricStatus string `validate:"omitempty,oneof=pending done"`
	VisaNumber      string
	VisaDate        *time.Time
}

// DepartureInput carries departure booking data.
type DepartureInput struct {
	Date         time.Time `validate:"required"`
	FlightNumber string
	Destination  string
}

// EmploymentInput carries post-departure employment details.
type EmploymentInput struct {
	Employer string  `validate:"required"`
	JobTitle string
	Salary   float64 `validate:"gte=0"`
	Currency string  `validate:"required,len=3"`
}

// StoryInput carries an optional success story.
type StoryInput struct {
	Narrative string `validate:"required"`
	Featured  bool
}

// RecordScreeningRequest contains parameters for recording a screening.
type RecordScreeningRequest struct {
	CandidateID string `validate:"required"`
	Screening   ScreeningInput
}

// RecordAssessmentRequest contains parameters for recording an assessment.
type RecordAssessmentRequest struct {
	CandidateID string  `validate:"required"`
	Type        string  `validate:"required,oneof=interim final"`
	Score       float64 `validate:"gte=0"`
	MaxScore    float64 `validate:"gt=0"`
	Assessor    string
}

// RecordVisaStepRequest contains parameters for recording visa sub-results.
type RecordVisaStepRequest struct {
	CandidateID string `validate:"required"`
	Visa        VisaInput
}

// RecordComplianceRequest contains post-departure reporting dates.
type RecordComplianceRequest struct {
	CandidateID               string `validate:"required"`
	ResidencyRegistrationDate *time.Time
	IDRegistrationDate        *time.Time
	FirstSalaryDate           *time.Time
}

// Screening represents a candidate screening at the port boundary.
type Screening struct {
	ID                string
	CandidateID       string
	Consent           bool
	PlacementInterest string
	TargetCountry     string
	Reviewer          string
	ReviewedAt        *time.Time
	Outcome           string
}

// Assessment represents a training assessment at the port boundary.
type Assessment struct {
	ID          string
	CandidateID string
	Type        string
	Score       float64
	MaxScore    float64
	Result      string
	Assessor    string
	AssessedAt  time.Time
}

// Certificate represents a training certificate at the port boundary.
type Certificate struct {
	ID                string
	CandidateID       string
	CertificateNumber string
	IssuingAuthority  string
	IssuedAt          time.Time
}

// VisaProcess represents a visa process at the port boundary.
type VisaProcess struct {
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
}

// Departure represents a departure at the port boundary.
type Departure struct {
	ID                        string
	CandidateID               string
	DepartureDate             time.Time
	FlightNumber              string
	Destination               string
	ResidencyRegistrationDate *time.Time
	IDRegistrationDate        *time.Time
	FirstSalaryDate           *time.Time
	NinetyDayCompliant        bool
	ComplianceDeadline        time.Time
	MissingObligations        []string
}

// PostDeparture represents a post-departure detail at the port boundary.
type PostDeparture struct {
	ID          string
	CandidateID string
	DepartureID string
	Employer    string
	JobTitle    string
	Salary      float64
	Currency    string
}

// SuccessStory represents a success story at the port boundary.
type SuccessStory struct {
	ID          string
	CandidateID string
	Narrative   string
	Featured    bool
}

// CandidateRecords is a candidate with every side record it owns.
type CandidateRecords struct {
	Candidate     *Candidate
	Screening     *Screening
	Assessments   []*Assessment
	Certificate   *Certificate
	VisaProcess   *VisaProcess
	Departure     *Departure
	PostDeparture *PostDeparture
	SuccessStory  *SuccessStory
}

// StatusChange represents one status history entry at the port boundary.
type StatusChange struct {
	ID         string
	FromStatus string
	ToStatus   string
	Remarks    string
	ActorID    string
	ChangedAt  time.Time
}

// StatusCount is the number of candidates in one status.
type StatusCount struct {
	Status   string
	Count    int
	Terminal bool
}
