package candidate

import (
	"github.com/example/btevta/internal/core/assessment"
	"github.com/example/btevta/internal/core/effects"
)

// AdvancePlan represents the planned effects for one lifecycle advance.
type AdvancePlan struct {
	CandidateID string
	From        Status
	To          Status
	StatusOp    effects.PersistEffect
	SideOps     []effects.PersistEffect
	HistoryOps  []effects.PersistEffect
	LogOps      []effects.LogEffect
}

// Effects returns all effects as a flat slice for execution.
// The status update runs first so a version conflict aborts before side records are written.
func (p AdvancePlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, 1+len(p.SideOps)+len(p.HistoryOps)+len(p.LogOps))
	result = append(result, p.StatusOp)
	for _, e := range p.SideOps {
		result = append(result, e)
	}
	for _, e := range p.HistoryOps {
		result = append(result, e)
	}
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	return result
}

// StatusChanged reports whether the plan moves the candidate to a new status.
func (p AdvancePlan) StatusChanged() bool {
	return p.From != p.To
}

// stageHandler produces the side effects of entering one stage. It may fill
// candidate-row fields on change.
type stageHandler func(in AdvanceInput, change *StatusChange) []effects.PersistEffect

var stageHandlers = map[Status]stageHandler{
	StatusScreened:          handleScreened,
	StatusRegistered:        handleRegistered,
	StatusTraining:          handleTraining,
	StatusTrainingCompleted: handleTrainingCompleted,
	StatusVisaProcess:       handleVisaProcess,
	StatusVisaApproved:      handleVisaApproved,
	StatusReadyToDepart:     handleDepartureBooking,
	StatusDeparted:          handleDepartureBooking,
	StatusPostDeparture:     handlePostDeparture,
	StatusCompleted:         handleCompleted,
}

// GenerateAdvancePlan creates the plan for an advance that CanAdvance allowed.
// This is a pure function - all input data must be pre-fetched.
func GenerateAdvancePlan(in AdvanceInput) AdvancePlan {
	from := in.Snapshot.Status
	change := StatusChange{
		CandidateID:     in.Snapshot.CandidateID,
		From:            from,
		To:              in.Target,
		ExpectedVersion: in.Snapshot.Version,
	}

	plan := AdvancePlan{
		CandidateID: in.Snapshot.CandidateID,
		From:        from,
		To:          in.Target,
	}

	if handler, ok := stageHandlers[in.Target]; ok {
		plan.SideOps = handler(in, &change)
	}

	plan.StatusOp = effects.PersistEffect{
		Entity:    effects.EntityCandidate,
		Operation: effects.OpUpdateStatus,
		Data:      change,
	}

	if from != in.Target {
		plan.HistoryOps = append(plan.HistoryOps, effects.PersistEffect{
			Entity:    effects.EntityStatusHistory,
			Operation: effects.OpCreate,
			Data: HistoryEntry{
				CandidateID: in.Snapshot.CandidateID,
				From:        from,
				To:          in.Target,
				Remarks:     in.Payload.Remarks,
				At:          in.Now,
			},
		})
		plan.LogOps = append(plan.LogOps, effects.LogEffect{
			Level:   "info",
			Message: "candidate status changed",
			Fields: map[string]any{
				"candidate_id": in.Snapshot.CandidateID,
				"from":         string(from),
				"to":           string(in.Target),
				"side_records": len(plan.SideOps),
			},
		})
	}

	return plan
}

// upsert builds a persist effect that updates when the record has an ID and creates otherwise.
func upsert(entity, id string, data any) effects.PersistEffect {
	op := effects.OpCreate
	if id != "" {
		op = effects.OpUpdate
	}
	return effects.PersistEffect{Entity: entity, Operation: op, Data: data}
}

func handleScreened(in AdvanceInput, _ *StatusChange) []effects.PersistEffect {
	if in.Payload.Screening == nil {
		return nil
	}
	s := effectiveScreening(in)
	return []effects.PersistEffect{upsert(effects.EntityScreening, s.ID, *s)}
}

func handleRegistered(in AdvanceInput, change *StatusChange) []effects.PersistEffect {
	if in.Snapshot.RegistrationDate == nil {
		now := in.Now
		change.RegistrationDate = &now
	}
	if in.Batch != nil {
		change.BatchID = in.Batch.ID
		change.CampusID = in.Batch.CampusID
		change.TradeID = in.Batch.TradeID
		change.ProgramID = in.Batch.ProgramID
	}
	return nil
}

func handleTraining(in AdvanceInput, change *StatusChange) []effects.PersistEffect {
	if in.Snapshot.TrainingStartDate == nil {
		now := in.Now
		change.TrainingStartDate = &now
	}
	return nil
}

func handleTrainingCompleted(in AdvanceInput, change *StatusChange) []effects.PersistEffect {
	if in.Snapshot.TrainingEndDate == nil {
		now := in.Now
		change.TrainingEndDate = &now
	}

	var ops []effects.PersistEffect
	if tr := in.Payload.Training; tr != nil {
		supplied := map[assessment.Type]*float64{
			assessment.TypeInterim: tr.InterimScore,
			assessment.TypeFinal:   tr.FinalScore,
		}
		for _, t := range []assessment.Type{assessment.TypeInterim, assessment.TypeFinal} {
			if supplied[t] == nil {
				continue
			}
			a, err := effectiveAssessment(in, t)
			if err != nil || a == nil {
				continue
			}
			ops = append(ops, upsert(effects.EntityAssessment, a.ID, *a))
		}
	}

	if in.Snapshot.Certificate == nil {
		ops = append(ops, effects.PersistEffect{
			Entity:    effects.EntityCertificate,
			Operation: effects.OpCreate,
			Data: Certificate{
				CandidateID:       in.Snapshot.CandidateID,
				CertificateNumber: in.CertificateNumber,
				IssuingAuthority:  in.IssuingAuthority,
				IssuedAt:          in.Now,
			},
		})
	}
	return ops
}

func handleVisaProcess(in AdvanceInput, change *StatusChange) []effects.PersistEffect {
	var v VisaProcess
	if in.Snapshot.VisaProcess != nil {
		v = *in.Snapshot.VisaProcess
	} else {
		v = VisaProcess{CandidateID: in.Snapshot.CandidateID, VisaStatus: VisaPending}
	}

	interview := in.Payload.Interview
	if interview != nil {
		if interview.Date != nil {
			v.InterviewDate = interview.Date
		}
		if interview.Status != "" {
			v.InterviewStatus = interview.Status
		}
		if interview.Remarks != "" {
			v.InterviewRemarks = interview.Remarks
		}
		change.OEPID = interview.OEPID
	}
	if v.InterviewStatus == "" {
		v.InterviewStatus = "scheduled"
	}

	if in.Snapshot.VisaProcess != nil && interview == nil {
		return nil
	}
	return []effects.PersistEffect{upsert(effects.EntityVisaProcess, v.ID, v)}
}

func handleVisaApproved(in AdvanceInput, _ *StatusChange) []effects.PersistEffect {
	v := MergeVisa(*in.Snapshot.VisaProcess, in.Payload.Visa)
	v.VisaStatus = VisaApproved
	if v.VisaDate == nil {
		now := in.Now
		v.VisaDate = &now
	}
	return []effects.PersistEffect{{
		Entity:    effects.EntityVisaProcess,
		Operation: effects.OpUpdate,
		Data:      v,
	}}
}

func handleDepartureBooking(in AdvanceInput, _ *StatusChange) []effects.PersistEffect {
	if in.Payload.Departure == nil {
		return nil
	}
	d := effectiveDeparture(in)
	return []effects.PersistEffect{upsert(effects.EntityDeparture, d.ID, *d)}
}

func handlePostDeparture(in AdvanceInput, _ *StatusChange) []effects.PersistEffect {
	e := in.Payload.Employment
	if e == nil {
		return nil
	}
	pd := PostDeparture{
		CandidateID: in.Snapshot.CandidateID,
		DepartureID: in.Snapshot.Departure.ID,
		Employer:    e.Employer,
		JobTitle:    e.JobTitle,
		Salary:      e.Salary,
		Currency:    e.Currency,
	}
	if in.Snapshot.PostDeparture != nil {
		pd.ID = in.Snapshot.PostDeparture.ID
	}
	return []effects.PersistEffect{upsert(effects.EntityPostDeparture, pd.ID, pd)}
}

func handleCompleted(in AdvanceInput, _ *StatusChange) []effects.PersistEffect {
	st := in.Payload.Story
	if st == nil {
		return nil
	}
	story := SuccessStory{
		CandidateID: in.Snapshot.CandidateID,
		Narrative:   st.Narrative,
		Featured:    st.Featured,
	}
	if in.Snapshot.SuccessStory != nil {
		story.ID = in.Snapshot.SuccessStory.ID
	}
	return []effects.PersistEffect{upsert(effects.EntitySuccessStory, story.ID, story)}
}
