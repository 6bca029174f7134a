package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/btevta/internal/adapters/sqlite"
	"github.com/example/btevta/internal/ports/secondary"
)

func TestScreeningRepository_CreateUpdateGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewScreeningRepository(db)
	ctx := context.Background()
	candidateID := seedCandidate(t, db, "", "")

	missing, err := repo.GetByCandidate(ctx, candidateID)
	if err != nil || missing != nil {
		t.Fatalf("expected nil screening, got %+v, %v", missing, err)
	}

	id, _ := repo.GetNextID(ctx)
	if id != "SCR-0001" {
		t.Errorf("expected SCR-0001, got %s", id)
	}
	s := &secondary.ScreeningRecord{ID: id, CandidateID: candidateID, Consent: true, PlacementInterest: "international", Outcome: "pending"}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// One screening per candidate
	dup := &secondary.ScreeningRecord{ID: "SCR-0002", CandidateID: candidateID, Outcome: "pending"}
	if err := repo.Create(ctx, dup); !errors.Is(err, secondary.ErrConflict) {
		t.Errorf("expected conflict on second screening, got %v", err)
	}

	reviewed := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s.Outcome = "passed"
	s.Reviewer = "Officer Khan"
	s.ReviewedAt = &reviewed
	if err := repo.Update(ctx, s); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByCandidate(ctx, candidateID)
	if err != nil {
		t.Fatalf("GetByCandidate failed: %v", err)
	}
	if got.Outcome != "passed" || got.Reviewer != "Officer Khan" || !got.Consent {
		t.Errorf("unexpected screening: %+v", got)
	}
	if got.ReviewedAt == nil || !got.ReviewedAt.Equal(reviewed) {
		t.Errorf("reviewed_at mismatch: %v", got.ReviewedAt)
	}
	if got.TargetCountry != "" {
		t.Errorf("expected empty target country, got %q", got.TargetCountry)
	}
}

func TestAssessmentRepository_UniquePerType(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssessmentRepository(db)
	ctx := context.Background()
	candidateID := seedCandidate(t, db, "", "")
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	final := &secondary.AssessmentRecord{ID: "ASMT-0001", CandidateID: candidateID, Type: "final", Score: 70, MaxScore: 100, Result: "pass", AssessedAt: at}
	interim := &secondary.AssessmentRecord{ID: "ASMT-0002", CandidateID: candidateID, Type: "interim", Score: 40, MaxScore: 100, Result: "fail", AssessedAt: at}
	for _, a := range []*secondary.AssessmentRecord{final, interim} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %s failed: %v", a.Type, err)
		}
	}

	again := &secondary.AssessmentRecord{ID: "ASMT-0003", CandidateID: candidateID, Type: "interim", Score: 60, MaxScore: 100, Result: "pass", AssessedAt: at}
	if err := repo.Create(ctx, again); !errors.Is(err, secondary.ErrConflict) {
		t.Errorf("expected conflict for duplicate type, got %v", err)
	}

	interim.Score = 65
	interim.Result = "pass"
	if err := repo.Update(ctx, interim); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	list, err := repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		t.Fatalf("ListByCandidate failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assessments, got %d", len(list))
	}
	if list[0].Type != "interim" || list[0].Score != 65 || list[0].Result != "pass" {
		t.Errorf("unexpected interim: %+v", list[0])
	}

	next, _ := repo.GetNextID(ctx)
	if next != "ASMT-0003" {
		t.Errorf("expected ASMT-0003, got %s", next)
	}
}

func TestAssessmentRepository_ScoreConstraint(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssessmentRepository(db)
	candidateID := seedCandidate(t, db, "", "")

	bad := &secondary.AssessmentRecord{ID: "ASMT-0001", CandidateID: candidateID, Type: "final", Score: 120, MaxScore: 100, Result: "pass", AssessedAt: time.Now()}
	if err := repo.Create(context.Background(), bad); err == nil {
		t.Error("expected CHECK constraint to reject score above max")
	}
}

func TestCertificateRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCertificateRepository(db)
	ctx := context.Background()
	first := seedCandidate(t, db, "BTEVTA-000001", "3520112345671")
	second := seedCandidate(t, db, "BTEVTA-000002", "3520112345672")

	seq, err := repo.MaxSequenceForYear(ctx, 2026)
	if err != nil || seq != 0 {
		t.Fatalf("expected sequence 0, got %d, %v", seq, err)
	}

	issued := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range []struct{ candidate, number string }{
		{first, "CERT-2026-00001"},
		{second, "CERT-2026-00007"},
	} {
		id, _ := repo.GetNextID(ctx)
		if err := repo.Create(ctx, &secondary.CertificateRecord{ID: id, CandidateID: c.candidate, CertificateNumber: c.number, IssuingAuthority: "BTEVTA", IssuedAt: issued}); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	seq, _ = repo.MaxSequenceForYear(ctx, 2026)
	if seq != 7 {
		t.Errorf("expected max sequence 7, got %d", seq)
	}
	seq, _ = repo.MaxSequenceForYear(ctx, 2025)
	if seq != 0 {
		t.Errorf("expected 0 for other year, got %d", seq)
	}

	got, err := repo.GetByCandidate(ctx, first)
	if err != nil || got == nil {
		t.Fatalf("GetByCandidate failed: %v", err)
	}
	if got.ID != "TC-0001" || got.CertificateNumber != "CERT-2026-00001" {
		t.Errorf("unexpected certificate: %+v", got)
	}

	dup := &secondary.CertificateRecord{ID: "TC-0009", CandidateID: first, CertificateNumber: "CERT-2026-00009", IssuingAuthority: "BTEVTA", IssuedAt: issued}
	if err := repo.Create(ctx, dup); !errors.Is(err, secondary.ErrConflict) {
		t.Errorf("expected conflict for second certificate, got %v", err)
	}
}

func TestVisaProcessRepository_IncrementalFill(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewVisaProcessRepository(db)
	ctx := context.Background()
	candidateID := seedCandidate(t, db, "", "")

	interview := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	v := &secondary.VisaProcessRecord{ID: "VISA-0001", CandidateID: candidateID, InterviewDate: &interview, InterviewStatus: "passed"}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, _ := repo.GetByCandidate(ctx, candidateID)
	if got.VisaStatus != "pending" || got.VisaNumber != "" || got.MedicalDate != nil {
		t.Errorf("new visa process should only carry interview data: %+v", got)
	}

	visaDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	got.MedicalStatus = "fit"
	got.VisaNumber = "SA-2026-7781"
	got.VisaDate = &visaDate
	got.VisaStatus = "approved"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ = repo.GetByCandidate(ctx, candidateID)
	if got.VisaStatus != "approved" || got.VisaNumber != "SA-2026-7781" || got.MedicalStatus != "fit" {
		t.Errorf("visa not updated: %+v", got)
	}
	if got.InterviewDate == nil || !got.InterviewDate.Equal(interview) {
		t.Error("interview date lost on update")
	}
}

func TestDepartureAndPostDeparture(t *testing.T) {
	db := setupTestDB(t)
	deps := sqlite.NewDepartureRepository(db)
	details := sqlite.NewPostDepartureRepository(db)
	ctx := context.Background()
	candidateID := seedCandidate(t, db, "", "")

	date := time.Date(2026, 6, 10, 3, 30, 0, 0, time.UTC)
	id, _ := deps.GetNextID(ctx)
	if err := deps.Create(ctx, &secondary.DepartureRecord{ID: id, CandidateID: candidateID, DepartureDate: date, FlightNumber: "PK-741", Destination: "Jeddah"}); err != nil {
		t.Fatalf("Create departure failed: %v", err)
	}

	dep, err := deps.GetByCandidate(ctx, candidateID)
	if err != nil || dep == nil {
		t.Fatalf("GetByCandidate failed: %v", err)
	}
	if dep.NinetyDayCompliant || dep.ResidencyRegistrationDate != nil {
		t.Errorf("new departure should have no compliance data: %+v", dep)
	}

	residency := date.AddDate(0, 0, 20)
	dep.ResidencyRegistrationDate = &residency
	dep.NinetyDayCompliant = true
	if err := deps.Update(ctx, dep); err != nil {
		t.Fatalf("Update departure failed: %v", err)
	}
	dep, _ = deps.GetByCandidate(ctx, candidateID)
	if !dep.NinetyDayCompliant || dep.ResidencyRegistrationDate == nil {
		t.Errorf("compliance not stored: %+v", dep)
	}

	pdd := &secondary.PostDepartureRecord{ID: "PDD-0001", CandidateID: candidateID, DepartureID: dep.ID, Employer: "Al Noor Contracting", Salary: 1800, Currency: "SAR"}
	if err := details.Create(ctx, pdd); err != nil {
		t.Fatalf("Create post-departure failed: %v", err)
	}
	dup := &secondary.PostDepartureRecord{ID: "PDD-0002", CandidateID: candidateID, DepartureID: dep.ID, Employer: "Other", Currency: "SAR"}
	if err := details.Create(ctx, dup); !errors.Is(err, secondary.ErrConflict) {
		t.Errorf("expected one post-departure detail per departure, got %v", err)
	}

	got, _ := details.GetByCandidate(ctx, candidateID)
	if got.DepartureID != dep.ID || got.Salary != 1800 {
		t.Errorf("unexpected detail: %+v", got)
	}
}

func TestSuccessStoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSuccessStoryRepository(db)
	ctx := context.Background()
	candidateID := seedCandidate(t, db, "", "")

	id, _ := repo.GetNextID(ctx)
	if id != "STORY-0001" {
		t.Errorf("expected STORY-0001, got %s", id)
	}
	s := &secondary.SuccessStoryRecord{ID: id, CandidateID: candidateID, Narrative: "Now a site supervisor"}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.Featured = true
	if err := repo.Update(ctx, s); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.GetByCandidate(ctx, candidateID)
	if !got.Featured || got.Narrative != "Now a site supervisor" {
		t.Errorf("unexpected story: %+v", got)
	}
}

func TestStatusHistoryRepository_Order(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewStatusHistoryRepository(db)
	ctx := context.Background()
	candidateID := seedCandidate(t, db, "", "")

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	entries := []secondary.StatusHistoryRecord{
		{ID: "b7c1", CandidateID: candidateID, FromStatus: "listed", ToStatus: "screening", CreatedAt: base},
		{ID: "a2f9", CandidateID: candidateID, FromStatus: "screening", ToStatus: "screened", ActorID: "officer-1", CreatedAt: base.Add(time.Hour)},
	}
	for i := range entries {
		if err := repo.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		t.Fatalf("ListByCandidate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ToStatus != "screening" || got[1].ToStatus != "screened" {
		t.Errorf("history out of order: %s, %s", got[0].ToStatus, got[1].ToStatus)
	}
	if got[1].ActorID != "officer-1" || got[0].ActorID != "" {
		t.Errorf("actor mismatch: %q %q", got[0].ActorID, got[1].ActorID)
	}
}

func TestReferenceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewReferenceRepository(db)
	ctx := context.Background()

	batch, err := repo.GetBatch(ctx, "BATCH-0002")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if batch.CampusID != "CAMP-0002" || batch.TradeID != "TRADE-0003" {
		t.Errorf("unexpected batch: %+v", batch)
	}

	if _, err := repo.GetBatch(ctx, "BATCH-9999"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	oep, err := repo.GetOEP(ctx, "OEP-0001")
	if err != nil {
		t.Fatalf("GetOEP failed: %v", err)
	}
	if oep.Name != "Al-Falah Overseas Employment" || oep.License != "OEP-LHR-1021" {
		t.Errorf("unexpected OEP: %+v", oep)
	}

	if _, err := repo.GetOEP(ctx, "OEP-9999"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	batches, _ := repo.ListBatches(ctx)
	oeps, _ := repo.ListOEPs(ctx)
	if len(batches) != 3 || len(oeps) != 2 {
		t.Errorf("expected 3 batches and 2 OEPs, got %d and %d", len(batches), len(oeps))
	}
}
