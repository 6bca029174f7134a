package candidate

import (
	"testing"

	"github.com/example/btevta/internal/core/assessment"
	"github.com/example/btevta/internal/core/effects"
)

func sideEntities(plan AdvancePlan) []string {
	var out []string
	for _, op := range plan.SideOps {
		out = append(out, op.Entity+":"+op.Operation)
	}
	return out
}

func TestGenerateAdvancePlan_Screening(t *testing.T) {
	plan := GenerateAdvancePlan(input(StatusListed, StatusScreening))

	if len(plan.SideOps) != 0 {
		t.Errorf("expected no side records, got %v", sideEntities(plan))
	}
	change, ok := plan.StatusOp.Data.(StatusChange)
	if !ok {
		t.Fatalf("status op data has type %T", plan.StatusOp.Data)
	}
	if change.From != StatusListed || change.To != StatusScreening || change.ExpectedVersion != 1 {
		t.Errorf("unexpected change: %+v", change)
	}
	if len(plan.HistoryOps) != 1 {
		t.Errorf("expected one history entry, got %d", len(plan.HistoryOps))
	}
	effs := plan.Effects()
	if effs[0].(effects.PersistEffect).Entity != effects.EntityCandidate {
		t.Errorf("status update should run first, got %+v", effs[0])
	}
}

func TestGenerateAdvancePlan_ScreenedUpsert(t *testing.T) {
	in := input(StatusScreening, StatusScreened)
	in.Payload.Screening = &ScreeningInput{Consent: ptr(true), Outcome: ScreeningPassed, TargetCountry: "Saudi Arabia"}

	plan := GenerateAdvancePlan(in)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "screening:create" {
		t.Fatalf("unexpected side ops: %v", got)
	}

	// Re-entering with a stored screening updates it instead of creating another.
	reentry := input(StatusScreened, StatusScreened)
	reentry.Snapshot.Screening = &Screening{ID: "SCR-0001", Consent: true, Outcome: ScreeningPassed}
	reentry.Payload.Screening = &ScreeningInput{Reviewer: "A. Khan"}

	plan = GenerateAdvancePlan(reentry)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "screening:update" {
		t.Fatalf("unexpected side ops on re-entry: %v", got)
	}
	if plan.StatusChanged() || len(plan.HistoryOps) != 0 {
		t.Error("re-entry should not change status or write history")
	}
	s := plan.SideOps[0].Data.(Screening)
	if s.ID != "SCR-0001" || s.Reviewer != "A. Khan" || s.Outcome != ScreeningPassed {
		t.Errorf("unexpected merged screening: %+v", s)
	}
}

func TestGenerateAdvancePlan_Registered(t *testing.T) {
	in := input(StatusScreened, StatusRegistered)
	in.Payload.BatchID = "BATCH-0002"
	in.Batch = &BatchRef{ID: "BATCH-0002", CampusID: "CAMP-0001", TradeID: "TRADE-0003", ProgramID: "PROG-0001"}

	plan := GenerateAdvancePlan(in)
	change := plan.StatusOp.Data.(StatusChange)
	if change.RegistrationDate == nil || !change.RegistrationDate.Equal(testNow) {
		t.Errorf("registration date not set: %+v", change.RegistrationDate)
	}
	if change.BatchID != "BATCH-0002" || change.CampusID != "CAMP-0001" || change.TradeID != "TRADE-0003" {
		t.Errorf("batch associations not assigned: %+v", change)
	}
}

func TestGenerateAdvancePlan_TrainingCompleted(t *testing.T) {
	in := input(StatusTraining, StatusTrainingCompleted)
	in.Payload.Training = &TrainingInput{InterimScore: ptr(65.0), FinalScore: ptr(72.0), MaxScore: 100, Assessor: "Instructor"}
	in.CertificateNumber = "CERT-2026-00004"
	in.IssuingAuthority = "BTEVTA"
	in.PassPercentage = 50

	plan := GenerateAdvancePlan(in)
	got := sideEntities(plan)
	want := []string{"assessment:create", "assessment:create", "certificate:create"}
	if len(got) != len(want) {
		t.Fatalf("side ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("side op %d = %s, want %s", i, got[i], want[i])
		}
	}
	final := plan.SideOps[1].Data.(Assessment)
	if final.Type != assessment.TypeFinal || final.Result != assessment.ResultPass {
		t.Errorf("unexpected final assessment: %+v", final)
	}
	cert := plan.SideOps[2].Data.(Certificate)
	if cert.CertificateNumber != "CERT-2026-00004" || cert.IssuingAuthority != "BTEVTA" {
		t.Errorf("unexpected certificate: %+v", cert)
	}
	change := plan.StatusOp.Data.(StatusChange)
	if change.TrainingEndDate == nil {
		t.Error("training end date not set")
	}

	// Existing certificate and assessments are reused.
	in.Snapshot.Status = StatusTrainingCompleted
	in.Snapshot.Certificate = &Certificate{ID: "CERT-ID-1"}
	in.Snapshot.Assessments = []Assessment{
		{ID: "ASMT-0001", Type: assessment.TypeInterim},
		{ID: "ASMT-0002", Type: assessment.TypeFinal},
	}
	plan = GenerateAdvancePlan(in)
	got = sideEntities(plan)
	if len(got) != 2 || got[0] != "assessment:update" || got[1] != "assessment:update" {
		t.Errorf("re-entry side ops = %v", got)
	}
}

func TestGenerateAdvancePlan_VisaStages(t *testing.T) {
	in := input(StatusTrainingCompleted, StatusVisaProcess)
	in.Payload.Interview = &InterviewInput{Status: InterviewPassed, OEPID: "OEP-0002"}

	plan := GenerateAdvancePlan(in)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "visa_process:create" {
		t.Fatalf("unexpected side ops: %v", got)
	}
	v := plan.SideOps[0].Data.(VisaProcess)
	if v.InterviewStatus != InterviewPassed || v.VisaStatus != VisaPending || v.VisaNumber != "" {
		t.Errorf("visa process should only carry interview fields: %+v", v)
	}
	if plan.StatusOp.Data.(StatusChange).OEPID != "OEP-0002" {
		t.Error("OEP not assigned")
	}

	approve := input(StatusVisaProcess, StatusVisaApproved)
	approve.Snapshot.VisaProcess = &v
	approve.Snapshot.VisaProcess.ID = "VISA-0001"
	approve.Payload.Visa = &VisaInput{MedicalStatus: MedicalFit, VisaNumber: "SA-99"}

	plan = GenerateAdvancePlan(approve)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "visa_process:update" {
		t.Fatalf("unexpected side ops: %v", got)
	}
	approved := plan.SideOps[0].Data.(VisaProcess)
	if approved.VisaStatus != VisaApproved || approved.VisaNumber != "SA-99" || approved.VisaDate == nil {
		t.Errorf("visa not approved: %+v", approved)
	}
}

func TestGenerateAdvancePlan_DepartureAndAfter(t *testing.T) {
	in := input(StatusDepartureProcessing, StatusReadyToDepart)
	in.Payload.Departure = &DepartureInput{Date: testNow.AddDate(0, 0, 10), FlightNumber: "PK-741", Destination: "Jeddah"}
	plan := GenerateAdvancePlan(in)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "departure:create" {
		t.Fatalf("unexpected side ops: %v", got)
	}

	post := input(StatusDeparted, StatusPostDeparture)
	post.Snapshot.Departure = &Departure{ID: "DEP-0001"}
	post.Payload.Employment = &EmploymentInput{Employer: "Al Noor", Salary: 1800, Currency: "SAR"}
	plan = GenerateAdvancePlan(post)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "post_departure:create" {
		t.Fatalf("unexpected side ops: %v", got)
	}
	if plan.SideOps[0].Data.(PostDeparture).DepartureID != "DEP-0001" {
		t.Error("post-departure detail should link to the departure")
	}

	done := input(StatusPostDeparture, StatusCompleted)
	plan = GenerateAdvancePlan(done)
	if len(plan.SideOps) != 0 {
		t.Errorf("completion without story should create nothing, got %v", sideEntities(plan))
	}
	done.Payload.Story = &StoryInput{Narrative: "Supports family of six", Featured: true}
	plan = GenerateAdvancePlan(done)
	if got := sideEntities(plan); len(got) != 1 || got[0] != "success_story:create" {
		t.Errorf("unexpected side ops: %v", got)
	}
}

func TestGenerateAdvancePlan_Terminal(t *testing.T) {
	in := input(StatusScreening, StatusRejected)
	in.Payload.Remarks = "failed document check"
	plan := GenerateAdvancePlan(in)
	if len(plan.SideOps) != 0 {
		t.Errorf("terminal transition should have no side records")
	}
	entry := plan.HistoryOps[0].Data.(HistoryEntry)
	if entry.Remarks != "failed document check" || entry.To != StatusRejected {
		t.Errorf("unexpected history entry: %+v", entry)
	}
}
