package candidate

import (
	"time"

	"github.com/example/btevta/internal/core/assessment"
)

// Screening outcomes.
const (
	ScreeningPending = "pending"
	ScreeningPassed  = "passed"
	ScreeningFailed  = "failed"
)

// Visa sub-result values the lifecycle depends on.
const (
	InterviewPassed = "passed"
	MedicalFit      = "fit"
	VisaPending     = "pending"
	VisaApproved    = "approved"
)

// Screening is the value form of a candidate screening record.
type Screening struct {
	ID                string
	CandidateID       string
	Consent           bool
	PlacementInterest string // "local" or "international"
	TargetCountry     string
	Reviewer          string
	ReviewedAt        *time.Time
	Outcome           string
}

// Assessment is the value form of a training assessment.
type Assessment struct {
	ID          string
	CandidateID string
	Type        assessment.Type
	Score       float64
	MaxScore    float64
	Result      assessment.Result
	Assessor    string
	AssessedAt  time.Time
}

// Certificate is the value form of a training certificate.
type Certificate struct {
	ID                string
	CandidateID       string
	CertificateNumber string
	IssuingAuthority  string
	IssuedAt          time.Time
}

// VisaProcess is the value form of a visa process. Fields fill in over time.
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

// Departure is the value form of a departure record.
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
}

// PostDeparture is the value form of a post-departure employment detail.
type PostDeparture struct {
	ID          string
	CandidateID string
	DepartureID string
	Employer    string
	JobTitle    string
	Salary      float64
	Currency    string
}

// SuccessStory is the value form of a success story.
type SuccessStory struct {
	ID          string
	CandidateID string
	Narrative   string
	Featured    bool
}

// StatusChange is the candidate-row update produced by an advance.
// Nil/empty optional fields leave the stored value untouched.
type StatusChange struct {
	CandidateID       string
	From              Status
	To                Status
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

// HistoryEntry records one status change.
type HistoryEntry struct {
	CandidateID string
	From        Status
	To          Status
	Remarks     string
	At          time.Time
}

// Snapshot is the pre-fetched state of a candidate and its side records.
type Snapshot struct {
	CandidateID       string
	Status            Status
	Version           int
	BatchID           string
	RegistrationDate  *time.Time
	TrainingStartDate *time.Time
	TrainingEndDate   *time.Time
	Screening         *Screening
	Assessments       []Assessment
	Certificate       *Certificate
	VisaProcess       *VisaProcess
	Departure         *Departure
	PostDeparture     *PostDeparture
	SuccessStory      *SuccessStory
}

// assessmentOf returns the stored assessment of the given type, if any.
func (s Snapshot) assessmentOf(t assessment.Type) *Assessment {
	for i := range s.Assessments {
		if s.Assessments[i].Type == t {
			return &s.Assessments[i]
		}
	}
	return nil
}

// BatchRef carries the associations a batch assigns on registration.
type BatchRef struct {
	ID        string
	CampusID  string
	TradeID   string
	ProgramID string
}

// OEPRef identifies the promoter assigned when visa processing starts.
type OEPRef struct {
	ID   string
	Name string
}

// ScreeningInput is the screening data supplied with an advance or RecordScreening.
type ScreeningInput struct {
	Consent           *bool
	PlacementInterest string
	TargetCountry     string
	Reviewer          string
	Outcome           string
}

// TrainingInput carries the interim and final scores for training completion.
type TrainingInput struct {
	InterimScore *float64
	FinalScore   *float64
	MaxScore     float64
	Assessor     string
}

// InterviewInput carries the interview sub-result opening a visa process.
type InterviewInput struct {
	Date    *time.Time
	Status  string
	Remarks string
	OEPID   string
}

// VisaInput carries visa sub-results. Empty fields leave stored values untouched.
type VisaInput struct {
	TradeTestDate   *time.Time
	TradeTestStatus string
	MedicalDate     *time.Time
	MedicalStatus   string
	BiometricDate   *time.Time
	BiometricStatus string
	VisaNumber      string
	VisaDate        *time.Time
}

// DepartureInput carries departure booking data.
type DepartureInput struct {
	Date         time.Time
	FlightNumber string
	Destination  string
}

// EmploymentInput carries post-departure employment details.
type EmploymentInput struct {
	Employer string
	JobTitle string
	Salary   float64
	Currency string
}

// StoryInput carries an optional success story.
type StoryInput struct {
	Narrative string
	Featured  bool
}

// Payload is the stage-specific data supplied with an advance.
type Payload struct {
	Remarks    string
	Screening  *ScreeningInput
	BatchID    string
	Training   *TrainingInput
	Interview  *InterviewInput
	Visa       *VisaInput
	Departure  *DepartureInput
	Employment *EmploymentInput
	Story      *StoryInput
}

// AdvanceInput contains pre-fetched data for an advance.
// The shell resolves the batch and OEP and allocates a certificate number before calling the core.
type AdvanceInput struct {
	Snapshot          Snapshot
	Target            Status
	Payload           Payload
	Batch             *BatchRef
	OEP               *OEPRef
	CertificateNumber string
	IssuingAuthority  string
	PassPercentage    float64
	Now               time.Time
}

// effectiveScreening merges supplied screening data over the stored record.
func effectiveScreening(in AdvanceInput) *Screening {
	return MergeScreening(in.Snapshot.CandidateID, in.Snapshot.Screening, in.Payload.Screening, in.Now)
}

// MergeScreening overlays input on an existing screening (or a new one).
// Returns nil when there is neither a stored record nor input.
func MergeScreening(candidateID string, existing *Screening, input *ScreeningInput, now time.Time) *Screening {
	if existing == nil && input == nil {
		return nil
	}
	var s Screening
	if existing != nil {
		s = *existing
	} else {
		s = Screening{CandidateID: candidateID, Outcome: ScreeningPending}
	}
	if input == nil {
		return &s
	}
	if input.Consent != nil {
		s.Consent = *input.Consent
	}
	if input.PlacementInterest != "" {
		s.PlacementInterest = input.PlacementInterest
	}
	if input.TargetCountry != "" {
		s.TargetCountry = input.TargetCountry
	}
	if input.Reviewer != "" {
		s.Reviewer = input.Reviewer
	}
	if input.Outcome != "" {
		s.Outcome = input.Outcome
		reviewed := now
		s.ReviewedAt = &reviewed
	}
	return &s
}

// effectiveAssessment returns the assessment of type t after applying training input.
func effectiveAssessment(in AdvanceInput, t assessment.Type) (*Assessment, error) {
	var score *float64
	if in.Payload.Training != nil {
		if t == assessment.TypeInterim {
			score = in.Payload.Training.InterimScore
		} else {
			score = in.Payload.Training.FinalScore
		}
	}
	existing := in.Snapshot.assessmentOf(t)
	if score == nil {
		return existing, nil
	}
	return BuildAssessment(in.Snapshot.CandidateID, existing, t, *score, in.Payload.Training.MaxScore, in.Payload.Training.Assessor, in.PassPercentage, in.Now)
}

// BuildAssessment scores an assessment, reusing the stored record's ID when present.
func BuildAssessment(candidateID string, existing *Assessment, t assessment.Type, score, maxScore float64, assessor string, passPct float64, now time.Time) (*Assessment, error) {
	result, err := assessment.Evaluate(score, maxScore, passPct)
	if err != nil {
		return nil, err
	}
	a := Assessment{
		CandidateID: candidateID,
		Type:        t,
		Score:       score,
		MaxScore:    maxScore,
		Result:      result,
		Assessor:    assessor,
		AssessedAt:  now,
	}
	if existing != nil {
		a.ID = existing.ID
	}
	return &a, nil
}

// MergeVisa overlays visa input on a stored visa process.
func MergeVisa(existing VisaProcess, input *VisaInput) VisaProcess {
	v := existing
	if input == nil {
		return v
	}
	if input.TradeTestDate != nil {
		v.TradeTestDate = input.TradeTestDate
	}
	if input.TradeTestStatus != "" {
		v.TradeTestStatus = input.TradeTestStatus
	}
	if input.MedicalDate != nil {
		v.MedicalDate = input.MedicalDate
	}
	if input.MedicalStatus != "" {
		v.MedicalStatus = input.MedicalStatus
	}
	if input.BiometricDate != nil {
		v.BiometricDate = input.BiometricDate
	}
	if input.BiometricStatus != "" {
		v.BiometricStatus = input.BiometricStatus
	}
	if input.VisaNumber != "" {
		v.VisaNumber = input.VisaNumber
	}
	if input.VisaDate != nil {
		v.VisaDate = input.VisaDate
	}
	return v
}

// effectiveDeparture merges supplied departure data over the stored departure.
func effectiveDeparture(in AdvanceInput) *Departure {
	existing := in.Snapshot.Departure
	input := in.Payload.Departure
	if existing == nil && input == nil {
		return nil
	}
	var d Departure
	if existing != nil {
		d = *existing
	} else {
		d = Departure{CandidateID: in.Snapshot.CandidateID}
	}
	if input != nil {
		d.DepartureDate = input.Date
		if input.FlightNumber != "" {
			d.FlightNumber = input.FlightNumber
		}
		if input.Destination != "" {
			d.Destination = input.Destination
		}
	}
	return &d
}
