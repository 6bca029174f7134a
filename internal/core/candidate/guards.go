package candidate

import (
	"fmt"
	"strings"

	"github.com/example/btevta/internal/core/assessment"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
// The error wraps ErrValidation.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// sources lists the statuses each progressive target may be entered from.
var sources = map[Status][]Status{
	StatusPreDepartureDocs:    {StatusListed},
	StatusScreening:           {StatusListed, StatusPreDepartureDocs},
	StatusScreened:            {StatusScreening},
	StatusRegistered:          {StatusScreened},
	StatusTraining:            {StatusRegistered},
	StatusTrainingCompleted:   {StatusTraining},
	StatusVisaProcess:         {StatusTrainingCompleted},
	StatusVisaApproved:        {StatusVisaProcess},
	StatusDepartureProcessing: {StatusVisaApproved},
	StatusReadyToDepart:       {StatusDepartureProcessing},
	StatusDeparted:            {StatusReadyToDepart, StatusDepartureProcessing},
	StatusPostDeparture:       {StatusDeparted},
	StatusCompleted:           {StatusPostDeparture},
}

// AllowedSources returns the statuses target may be entered from.
// Terminal targets may be entered from any non-terminal status.
func AllowedSources(target Status) []Status {
	if target.IsTerminal() {
		return ProgressiveStatuses()
	}
	out := make([]Status, len(sources[target]))
	copy(out, sources[target])
	return out
}

// stageGuards holds the stage-specific preconditions evaluated after the
// source-state check passes.
var stageGuards = map[Status]func(AdvanceInput) GuardResult{
	StatusScreened:            guardScreened,
	StatusRegistered:          guardRegistered,
	StatusTrainingCompleted:   guardTrainingCompleted,
	StatusVisaProcess:         guardVisaProcess,
	StatusVisaApproved:        guardVisaApproved,
	StatusDepartureProcessing: guardDepartureProcessing,
	StatusReadyToDepart:       guardReadyToDepart,
	StatusDeparted:            guardDeparted,
	StatusPostDeparture:       guardPostDeparture,
	StatusCompleted:           guardCompleted,
}

// CanAdvance evaluates whether a candidate can move to the target status.
// Rules:
// - Target must be a known status
// - Terminal states are absorbing
// - Terminal targets are reachable from any non-terminal status
// - Re-entering the current status re-applies its stage (find-or-create)
// - Otherwise the current status must be an allowed source for the target
// - Stage-specific preconditions must hold for the effective (stored + supplied) data
func CanAdvance(in AdvanceInput) GuardResult {
	id := in.Snapshot.CandidateID
	current := in.Snapshot.Status

	if !in.Target.Valid() {
		return deny("unknown target status %q", in.Target)
	}
	if current.IsTerminal() {
		return deny("candidate %s is %s; terminal states admit no further transitions", id, current)
	}
	if in.Target.IsTerminal() {
		return allow()
	}
	if in.Target == StatusListed && current != StatusListed {
		return deny("cannot return candidate %s to listed (current status: %s)", id, current)
	}

	if in.Target != current && !containsStatus(sources[in.Target], current) {
		return deny("cannot advance candidate %s to %s: requires status %s (current status: %s)",
			id, in.Target, joinStatuses(sources[in.Target]), current)
	}

	if guard, ok := stageGuards[in.Target]; ok {
		return guard(in)
	}
	return allow()
}

func guardScreened(in AdvanceInput) GuardResult {
	s := effectiveScreening(in)
	if s == nil {
		return deny("cannot mark candidate %s screened: no screening recorded", in.Snapshot.CandidateID)
	}
	if !s.Consent {
		return deny("cannot mark candidate %s screened: candidate consent not recorded", in.Snapshot.CandidateID)
	}
	if s.Outcome != ScreeningPassed {
		return deny("cannot mark candidate %s screened: screening outcome is %s, must be %s",
			in.Snapshot.CandidateID, s.Outcome, ScreeningPassed)
	}
	return allow()
}

func guardRegistered(in AdvanceInput) GuardResult {
	id := in.Snapshot.CandidateID
	if in.Snapshot.Screening == nil {
		return deny("cannot register candidate %s: screening record required", id)
	}
	if r := screeningHolds(*in.Snapshot.Screening); !r.Allowed {
		return deny("cannot register candidate %s: %s", id, r.Reason)
	}
	if in.Payload.BatchID == "" && in.Snapshot.BatchID == "" {
		return deny("cannot register candidate %s: batch is required", id)
	}
	if in.Payload.BatchID != "" && in.Batch == nil {
		return deny("cannot register candidate %s: batch %s not found", id, in.Payload.BatchID)
	}
	return allow()
}

func guardTrainingCompleted(in AdvanceInput) GuardResult {
	id := in.Snapshot.CandidateID
	for _, t := range []assessment.Type{assessment.TypeInterim, assessment.TypeFinal} {
		a, err := effectiveAssessment(in, t)
		if err != nil {
			return deny("cannot complete training for candidate %s: %s assessment invalid: %v", id, t, err)
		}
		if a == nil {
			return deny("cannot complete training for candidate %s: %s assessment missing", id, t)
		}
		if a.Result != assessment.ResultPass {
			return deny("cannot complete training for candidate %s: %s assessment not passed (%g/%g)",
				id, t, a.Score, a.MaxScore)
		}
	}
	if in.Snapshot.Certificate == nil && in.CertificateNumber == "" {
		return deny("cannot complete training for candidate %s: certificate number not allocated", id)
	}
	return allow()
}

func guardVisaProcess(in AdvanceInput) GuardResult {
	if i := in.Payload.Interview; i != nil && i.OEPID != "" && in.OEP == nil {
		return deny("cannot start visa process for candidate %s: OEP %s not found", in.Snapshot.CandidateID, i.OEPID)
	}
	return allow()
}

func guardVisaApproved(in AdvanceInput) GuardResult {
	id := in.Snapshot.CandidateID
	if in.Snapshot.VisaProcess == nil {
		return deny("cannot approve visa for candidate %s: visa process record required", id)
	}
	v := MergeVisa(*in.Snapshot.VisaProcess, in.Payload.Visa)
	if v.MedicalStatus != MedicalFit {
		return deny("cannot approve visa for candidate %s: medical status is %q, must be %s", id, v.MedicalStatus, MedicalFit)
	}
	if v.VisaNumber == "" {
		return deny("cannot approve visa for candidate %s: visa number is required", id)
	}
	return allow()
}

func guardDepartureProcessing(in AdvanceInput) GuardResult {
	id := in.Snapshot.CandidateID
	v := in.Snapshot.VisaProcess
	if v == nil {
		return deny("cannot start departure processing for candidate %s: visa process record required", id)
	}
	var missing []string
	if v.InterviewStatus != InterviewPassed {
		missing = append(missing, "interview passed")
	}
	if v.MedicalStatus != MedicalFit {
		missing = append(missing, "medical fit")
	}
	if v.VisaNumber == "" {
		missing = append(missing, "visa number")
	}
	if v.VisaStatus != VisaApproved {
		missing = append(missing, "visa approved")
	}
	if len(missing) > 0 {
		return deny("cannot start departure processing for candidate %s: visa history incomplete (%s)",
			id, strings.Join(missing, ", "))
	}
	return allow()
}

func guardReadyToDepart(in AdvanceInput) GuardResult {
	d := effectiveDeparture(in)
	if d == nil {
		return deny("cannot mark candidate %s ready to depart: departure details required", in.Snapshot.CandidateID)
	}
	if !d.DepartureDate.After(in.Now) {
		return deny("cannot mark candidate %s ready to depart: departure date %s must be in the future",
			in.Snapshot.CandidateID, d.DepartureDate.Format("2006-01-02"))
	}
	return allow()
}

func guardDeparted(in AdvanceInput) GuardResult {
	d := effectiveDeparture(in)
	if d == nil {
		return deny("cannot mark candidate %s departed: departure details required", in.Snapshot.CandidateID)
	}
	if d.DepartureDate.IsZero() || d.DepartureDate.After(in.Now) {
		return deny("cannot mark candidate %s departed: departure date %s is not in the past",
			in.Snapshot.CandidateID, d.DepartureDate.Format("2006-01-02"))
	}
	return allow()
}

func guardPostDeparture(in AdvanceInput) GuardResult {
	id := in.Snapshot.CandidateID
	if in.Snapshot.Departure == nil {
		return deny("cannot record post-departure for candidate %s: departure record required", id)
	}
	e := in.Payload.Employment
	if e == nil {
		if in.Snapshot.PostDeparture != nil {
			return allow()
		}
		return deny("cannot record post-departure for candidate %s: employment details required", id)
	}
	if e.Employer == "" {
		return deny("cannot record post-departure for candidate %s: employer is required", id)
	}
	if e.Salary < 0 {
		return deny("cannot record post-departure for candidate %s: salary must not be negative", id)
	}
	if e.Currency == "" {
		return deny("cannot record post-departure for candidate %s: currency is required", id)
	}
	return allow()
}

func guardCompleted(in AdvanceInput) GuardResult {
	if s := in.Payload.Story; s != nil && strings.TrimSpace(s.Narrative) == "" {
		return deny("cannot complete candidate %s: success story narrative is empty", in.Snapshot.CandidateID)
	}
	return allow()
}

// CreateCandidateContext provides context for candidate creation guards.
type CreateCandidateContext struct {
	NationalID      string
	NationalIDTaken bool
}

// CanCreateCandidate evaluates whether a candidate can be created.
// Rules:
// - National ID must be 13 digits
// - National ID must not belong to another candidate
func CanCreateCandidate(ctx CreateCandidateContext) GuardResult {
	if !IsValidNationalID(ctx.NationalID) {
		return deny("national ID %q must be 13 digits", ctx.NationalID)
	}
	if ctx.NationalIDTaken {
		return deny("national ID %s is already registered", ctx.NationalID)
	}
	return allow()
}

// NormalizeNationalID strips the dashes commonly written in CNIC numbers.
func NormalizeNationalID(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
}

// IsValidNationalID reports whether id is a 13-digit CNIC.
func IsValidNationalID(id string) bool {
	if len(id) != 13 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StageActionContext provides context for out-of-band stage actions
// (recording screenings, assessments, visa steps and compliance).
type StageActionContext struct {
	CandidateID string
	Status      Status
	RecordFound bool // the record the action updates exists, where one is required

	// The record as it would be stored after the action.
	Screening *Screening
	Visa      *VisaProcess
}

// CanRecordScreening evaluates whether screening data may be recorded.
// Rules:
// - Status must be listed, pre_departure_docs, screening or screened
// - Once screened, the screening must keep consent and a passed outcome
func CanRecordScreening(ctx StageActionContext) GuardResult {
	allowed := []Status{StatusListed, StatusPreDepartureDocs, StatusScreening, StatusScreened}
	if !containsStatus(allowed, ctx.Status) {
		return deny("cannot record screening for candidate %s (current status: %s)", ctx.CandidateID, ctx.Status)
	}
	if ctx.Status == StatusScreened && ctx.Screening != nil {
		if r := screeningHolds(*ctx.Screening); !r.Allowed {
			return deny("cannot record screening for screened candidate %s: %s", ctx.CandidateID, r.Reason)
		}
	}
	return allow()
}

// screeningHolds checks the screening a screened candidate must keep.
func screeningHolds(s Screening) GuardResult {
	if !s.Consent {
		return deny("candidate consent not recorded")
	}
	if s.Outcome != ScreeningPassed {
		return deny("screening outcome is %s, must be %s", s.Outcome, ScreeningPassed)
	}
	return allow()
}

// CanRecordAssessment evaluates whether a training assessment may be recorded.
// Rules:
// - Status must be training
func CanRecordAssessment(ctx StageActionContext) GuardResult {
	if ctx.Status != StatusTraining {
		return deny("can only record assessments during training (candidate %s status: %s)", ctx.CandidateID, ctx.Status)
	}
	return allow()
}

// CanRecordVisaStep evaluates whether a visa sub-result may be recorded.
// Rules:
// - Status must be visa_process, visa_approved or departure_processing
// - A visa process record must exist
// - At visa_approved the medical result stays fit and the visa number stays set
// - At departure_processing the interview also stays passed and the visa approved
func CanRecordVisaStep(ctx StageActionContext) GuardResult {
	allowed := []Status{StatusVisaProcess, StatusVisaApproved, StatusDepartureProcessing}
	if !containsStatus(allowed, ctx.Status) {
		return deny("cannot record visa step for candidate %s (current status: %s)", ctx.CandidateID, ctx.Status)
	}
	if !ctx.RecordFound {
		return deny("cannot record visa step for candidate %s: visa process record required", ctx.CandidateID)
	}
	if ctx.Visa == nil || ctx.Status == StatusVisaProcess {
		return allow()
	}

	v := ctx.Visa
	var broken []string
	if v.MedicalStatus != MedicalFit {
		broken = append(broken, fmt.Sprintf("medical status %q, must be %s", v.MedicalStatus, MedicalFit))
	}
	if v.VisaNumber == "" {
		broken = append(broken, "visa number missing")
	}
	if ctx.Status == StatusDepartureProcessing {
		if v.InterviewStatus != InterviewPassed {
			broken = append(broken, fmt.Sprintf("interview status %q, must be %s", v.InterviewStatus, InterviewPassed))
		}
		if v.VisaStatus != VisaApproved {
			broken = append(broken, fmt.Sprintf("visa status %q, must be %s", v.VisaStatus, VisaApproved))
		}
	}
	if len(broken) > 0 {
		return deny("cannot record visa step for candidate %s at %s: %s",
			ctx.CandidateID, ctx.Status, strings.Join(broken, "; "))
	}
	return allow()
}

// CanRecordCompliance evaluates whether post-departure compliance may be recorded.
// Rules:
// - Status must be at or beyond departed (terminal states excluded)
// - A departure record must exist
func CanRecordCompliance(ctx StageActionContext) GuardResult {
	if !ctx.Status.AtOrBeyond(StatusDeparted) {
		return deny("cannot record compliance for candidate %s before departure (current status: %s)", ctx.CandidateID, ctx.Status)
	}
	if !ctx.RecordFound {
		return deny("cannot record compliance for candidate %s: departure record required", ctx.CandidateID)
	}
	return allow()
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinStatuses(list []Status) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}
