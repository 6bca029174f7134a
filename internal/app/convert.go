package app

import (
	"context"
	"fmt"

	"github.com/example/btevta/internal/core/assessment"
	corecandidate "github.com/example/btevta/internal/core/candidate"
	"github.com/example/btevta/internal/ports/primary"
	"github.com/example/btevta/internal/ports/secondary"
)

// loadSnapshot fetches a candidate and every side record the lifecycle guards read.
func loadSnapshot(ctx context.Context, repos secondary.Repositories, candidateID string) (*corecandidate.Snapshot, *secondary.CandidateRecord, error) {
	record, err := repos.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}

	status, err := corecandidate.ParseStatus(record.Status)
	if err != nil {
		return nil, nil, fmt.Errorf("candidate %s has corrupt status: %w", candidateID, err)
	}

	snap := &corecandidate.Snapshot{
		CandidateID:       record.ID,
		Status:            status,
		Version:           record.Version,
		BatchID:           record.BatchID,
		RegistrationDate:  record.RegistrationDate,
		TrainingStartDate: record.TrainingStartDate,
		TrainingEndDate:   record.TrainingEndDate,
	}

	screening, err := repos.Screenings.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	snap.Screening = screeningFromRecord(screening)

	assessments, err := repos.Assessments.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	for _, a := range assessments {
		snap.Assessments = append(snap.Assessments, *assessmentFromRecord(a))
	}

	cert, err := repos.Certificates.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	snap.Certificate = certificateFromRecord(cert)

	visa, err := repos.VisaProcesses.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	snap.VisaProcess = visaFromRecord(visa)

	dep, err := repos.Departures.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	snap.Departure = departureFromRecord(dep)

	pdd, err := repos.PostDepartures.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	snap.PostDeparture = postDepartureFromRecord(pdd)

	story, err := repos.SuccessStories.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}
	snap.SuccessStory = storyFromRecord(story)

	return snap, record, nil
}

// ============================================================================
// Record -> core
// ============================================================================

func screeningFromRecord(r *secondary.ScreeningRecord) *corecandidate.Screening {
	if r == nil {
		return nil
	}
	return &corecandidate.Screening{
		ID:                r.ID,
		CandidateID:       r.CandidateID,
		Consent:           r.Consent,
		PlacementInterest: r.PlacementInterest,
		TargetCountry:     r.TargetCountry,
		Reviewer:          r.Reviewer,
		ReviewedAt:        r.ReviewedAt,
		Outcome:           r.Outcome,
	}
}

func assessmentFromRecord(r *secondary.AssessmentRecord) *corecandidate.Assessment {
	return &corecandidate.Assessment{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		Type:        assessment.Type(r.Type),
		Score:       r.Score,
		MaxScore:    r.MaxScore,
		Result:      assessment.Result(r.Result),
		Assessor:    r.Assessor,
		AssessedAt:  r.AssessedAt,
	}
}

func certificateFromRecord(r *secondary.CertificateRecord) *corecandidate.Certificate {
	if r == nil {
		return nil
	}
	return &corecandidate.Certificate{
		ID:                r.ID,
		CandidateID:       r.CandidateID,
		CertificateNumber: r.CertificateNumber,
		IssuingAuthority:  r.IssuingAuthority,
		IssuedAt:          r.IssuedAt,
	}
}

func visaFromRecord(r *secondary.VisaProcessRecord) *corecandidate.VisaProcess {
	if r == nil {
		return nil
	}
	return &corecandidate.VisaProcess{
		ID:               r.ID,
		CandidateID:      r.CandidateID,
		InterviewDate:    r.InterviewDate,
		InterviewStatus:  r.InterviewStatus,
		InterviewRemarks: r.InterviewRemarks,
		TradeTestDate:    r.TradeTestDate,
		TradeTestStatus:  r.TradeTestStatus,
		MedicalDate:      r.MedicalDate,
		MedicalStatus:    r.MedicalStatus,
		BiometricDate:    r.BiometricDate,
		BiometricStatus:  r.BiometricStatus,
		VisaNumber:       r.VisaNumber,
		VisaDate:         r.VisaDate,
		VisaStatus:       r.VisaStatus,
	}
}

func departureFromRecord(r *secondary.DepartureRecord) *corecandidate.Departure {
	if r == nil {
		return nil
	}
	return &corecandidate.Departure{
		ID:                        r.ID,
		CandidateID:               r.CandidateID,
		DepartureDate:             r.DepartureDate,
		FlightNumber:              r.FlightNumber,
		Destination:               r.Destination,
		ResidencyRegistrationDate: r.ResidencyRegistrationDate,
		IDRegistrationDate:        r.IDRegistrationDate,
		FirstSalaryDate:           r.FirstSalaryDate,
		NinetyDayCompliant:        r.NinetyDayCompliant,
	}
}

func postDepartureFromRecord(r *secondary.PostDepartureRecord) *corecandidate.PostDeparture {
	if r == nil {
		return nil
	}
	return &corecandidate.PostDeparture{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		DepartureID: r.DepartureID,
		Employer:    r.Employer,
		JobTitle:    r.JobTitle,
		Salary:      r.Salary,
		Currency:    r.Currency,
	}
}

func storyFromRecord(r *secondary.SuccessStoryRecord) *corecandidate.SuccessStory {
	if r == nil {
		return nil
	}
	return &corecandidate.SuccessStory{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		Narrative:   r.Narrative,
		Featured:    r.Featured,
	}
}

// ============================================================================
// Core -> record
// ============================================================================

func screeningToRecord(s corecandidate.Screening) *secondary.ScreeningRecord {
	return &secondary.ScreeningRecord{
		ID:                s.ID,
		CandidateID:       s.CandidateID,
		Consent:           s.Consent,
		PlacementInterest: s.PlacementInterest,
		TargetCountry:     s.TargetCountry,
		Reviewer:          s.Reviewer,
		ReviewedAt:        s.ReviewedAt,
		Outcome:           s.Outcome,
	}
}

func assessmentToRecord(a corecandidate.Assessment) *secondary.AssessmentRecord {
	return &secondary.AssessmentRecord{
		ID:          a.ID,
		CandidateID: a.CandidateID,
		Type:        string(a.Type),
		Score:       a.Score,
		MaxScore:    a.MaxScore,
		Result:      string(a.Result),
		Assessor:    a.Assessor,
		AssessedAt:  a.AssessedAt,
	}
}

func certificateToRecord(c corecandidate.Certificate) *secondary.CertificateRecord {
	return &secondary.CertificateRecord{
		ID:                c.ID,
		CandidateID:       c.CandidateID,
		CertificateNumber: c.CertificateNumber,
		IssuingAuthority:  c.IssuingAuthority,
		IssuedAt:          c.IssuedAt,
	}
}

func visaToRecord(v corecandidate.VisaProcess) *secondary.VisaProcessRecord {
	return &secondary.VisaProcessRecord{
		ID:               v.ID,
		CandidateID:      v.CandidateID,
		InterviewDate:    v.InterviewDate,
		InterviewStatus:  v.InterviewStatus,
		InterviewRemarks: v.InterviewRemarks,
		TradeTestDate:    v.TradeTestDate,
		TradeTestStatus:  v.TradeTestStatus,
		MedicalDate:      v.MedicalDate,
		MedicalStatus:    v.MedicalStatus,
		BiometricDate:    v.BiometricDate,
		BiometricStatus:  v.BiometricStatus,
		VisaNumber:       v.VisaNumber,
		VisaDate:         v.VisaDate,
		VisaStatus:       v.VisaStatus,
	}
}

func departureToRecord(d corecandidate.Departure) *secondary.DepartureRecord {
	return &secondary.DepartureRecord{
		ID:                        d.ID,
		CandidateID:               d.CandidateID,
		DepartureDate:             d.DepartureDate,
		FlightNumber:              d.FlightNumber,
		Destination:               d.Destination,
		ResidencyRegistrationDate: d.ResidencyRegistrationDate,
		IDRegistrationDate:        d.IDRegistrationDate,
		FirstSalaryDate:           d.FirstSalaryDate,
		NinetyDayCompliant:        d.NinetyDayCompliant,
	}
}

func postDepartureToRecord(p corecandidate.PostDeparture) *secondary.PostDepartureRecord {
	return &secondary.PostDepartureRecord{
		ID:          p.ID,
		CandidateID: p.CandidateID,
		DepartureID: p.DepartureID,
		Employer:    p.Employer,
		JobTitle:    p.JobTitle,
		Salary:      p.Salary,
		Currency:    p.Currency,
	}
}

func storyToRecord(s corecandidate.SuccessStory) *secondary.SuccessStoryRecord {
	return &secondary.SuccessStoryRecord{
		ID:          s.ID,
		CandidateID: s.CandidateID,
		Narrative:   s.Narrative,
		Featured:    s.Featured,
	}
}

// ============================================================================
// Request -> core
// ============================================================================

func payloadFromRequest(req primary.AdvanceRequest) corecandidate.Payload {
	p := corecandidate.Payload{
		Remarks: req.Remarks,
		BatchID: req.BatchID,
	}
	if s := req.Screening; s != nil {
		p.Screening = screeningInputFromRequest(*s)
	}
	if t := req.Training; t != nil {
		p.Training = &corecandidate.TrainingInput{
			InterimScore: t.InterimScore,
			FinalScore:   t.FinalScore,
			MaxScore:     t.MaxScore,
			Assessor:     t.Assessor,
		}
	}
	if i := req.Interview; i != nil {
		p.Interview = &corecandidate.InterviewInput{
			Date:    i.Date,
			Status:  i.Status,
			Remarks: i.Remarks,
			OEPID:   i.OEPID,
		}
	}
	if v := req.Visa; v != nil {
		p.Visa = visaInputFromRequest(*v)
	}
	if d := req.Departure; d != nil {
		p.Departure = &corecandidate.DepartureInput{
			Date:         d.Date,
			FlightNumber: d.FlightNumber,
			Destination:  d.Destination,
		}
	}
	if e := req.Employment; e != nil {
		p.Employment = &corecandidate.EmploymentInput{
			Employer: e.Employer,
			JobTitle: e.JobTitle,
			Salary:   e.Salary,
			Currency: e.Currency,
		}
	}
	if s := req.Story; s != nil {
		p.Story = &corecandidate.StoryInput{
			Narrative: s.Narrative,
			Featured:  s.Featured,
		}
	}
	return p
}

func screeningInputFromRequest(s primary.ScreeningInput) *corecandidate.ScreeningInput {
	return &corecandidate.ScreeningInput{
		Consent:           s.Consent,
		PlacementInterest: s.PlacementInterest,
		TargetCountry:     s.TargetCountry,
		Reviewer:          s.Reviewer,
		Outcome:           s.Outcome,
	}
}

func visaInputFromRequest(v primary.VisaInput) *corecandidate.VisaInput {
	return &corecandidate.VisaInput{
		TradeTestDate:   v.TradeTestDate,
		TradeTestStatus: v.TradeTestStatus,
		MedicalDate:     v.MedicalDate,
		MedicalStatus:   v.MedicalStatus,
		BiometricDate:   v.BiometricDate,
		BiometricStatus: v.BiometricStatus,
		VisaNumber:      v.VisaNumber,
		VisaDate:        v.VisaDate,
	}
}

// ============================================================================
// Record -> port
// ============================================================================

func recordToCandidate(r *secondary.CandidateRecord) *primary.Candidate {
	return &primary.Candidate{
		ID:                r.ID,
		NationalID:        r.NationalID,
		Name:              r.Name,
		FatherName:        r.FatherName,
		Gender:            r.Gender,
		DateOfBirth:       r.DateOfBirth,
		Phone:             r.Phone,
		Email:             r.Email,
		Province:          r.Province,
		District:          r.District,
		Address:           r.Address,
		Status:            r.Status,
		CampusID:          r.CampusID,
		TradeID:           r.TradeID,
		ProgramID:         r.ProgramID,
		BatchID:           r.BatchID,
		OEPID:             r.OEPID,
		RegistrationDate:  r.RegistrationDate,
		TrainingStartDate: r.TrainingStartDate,
		TrainingEndDate:   r.TrainingEndDate,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func recordToScreening(r *secondary.ScreeningRecord) *primary.Screening {
	if r == nil {
		return nil
	}
	return &primary.Screening{
		ID:                r.ID,
		CandidateID:       r.CandidateID,
		Consent:           r.Consent,
		PlacementInterest: r.PlacementInterest,
		TargetCountry:     r.TargetCountry,
		Reviewer:          r.Reviewer,
		ReviewedAt:        r.ReviewedAt,
		Outcome:           r.Outcome,
	}
}

func recordToAssessment(r *secondary.AssessmentRecord) *primary.Assessment {
	return &primary.Assessment{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		Type:        r.Type,
		Score:       r.Score,
		MaxScore:    r.MaxScore,
		Result:      r.Result,
		Assessor:    r.Assessor,
		AssessedAt:  r.AssessedAt,
	}
}

func recordToCertificate(r *secondary.CertificateRecord) *primary.Certificate {
	if r == nil {
		return nil
	}
	return &primary.Certificate{
		ID:                r.ID,
		CandidateID:       r.CandidateID,
		CertificateNumber: r.CertificateNumber,
		IssuingAuthority:  r.IssuingAuthority,
		IssuedAt:          r.IssuedAt,
	}
}

func recordToVisa(r *secondary.VisaProcessRecord) *primary.VisaProcess {
	if r == nil {
		return nil
	}
	return &primary.VisaProcess{
		ID:               r.ID,
		CandidateID:      r.CandidateID,
		InterviewDate:    r.InterviewDate,
		InterviewStatus:  r.InterviewStatus,
		InterviewRemarks: r.InterviewRemarks,
		TradeTestDate:    r.TradeTestDate,
		TradeTestStatus:  r.TradeTestStatus,
		MedicalDate:      r.MedicalDate,
		MedicalStatus:    r.MedicalStatus,
		BiometricDate:    r.BiometricDate,
		BiometricStatus:  r.BiometricStatus,
		VisaNumber:       r.VisaNumber,
		VisaDate:         r.VisaDate,
		VisaStatus:       r.VisaStatus,
	}
}

func recordToDeparture(r *secondary.DepartureRecord) *primary.Departure {
	if r == nil {
		return nil
	}
	d := &primary.Departure{
		ID:                        r.ID,
		CandidateID:               r.CandidateID,
		DepartureDate:             r.DepartureDate,
		FlightNumber:              r.FlightNumber,
		Destination:               r.Destination,
		ResidencyRegistrationDate: r.ResidencyRegistrationDate,
		IDRegistrationDate:        r.IDRegistrationDate,
		FirstSalaryDate:           r.FirstSalaryDate,
		NinetyDayCompliant:        r.NinetyDayCompliant,
	}
	applyCompliance(d)
	return d
}

func recordToPostDeparture(r *secondary.PostDepartureRecord) *primary.PostDeparture {
	if r == nil {
		return nil
	}
	return &primary.PostDeparture{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		DepartureID: r.DepartureID,
		Employer:    r.Employer,
		JobTitle:    r.JobTitle,
		Salary:      r.Salary,
		Currency:    r.Currency,
	}
}

func recordToStory(r *secondary.SuccessStoryRecord) *primary.SuccessStory {
	if r == nil {
		return nil
	}
	return &primary.SuccessStory{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		Narrative:   r.Narrative,
		Featured:    r.Featured,
	}
}

func recordToStatusChange(r *secondary.StatusHistoryRecord) *primary.StatusChange {
	return &primary.StatusChange{
		ID:         r.ID,
		FromStatus: r.FromStatus,
		ToStatus:   r.ToStatus,
		Remarks:    r.Remarks,
		ActorID:    r.ActorID,
		ChangedAt:  r.CreatedAt,
	}
}
