package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/example/btevta/internal/ports/primary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// mockLifecycleService implements primary.LifecycleService for testing
type mockLifecycleService struct {
	createFn  func(ctx context.Context, req primary.CreateCandidateRequest) (*primary.CreateCandidateResponse, error)
	listFn    func(ctx context.Context, filters primary.CandidateFilters) ([]*primary.Candidate, error)
	recordsFn func(ctx context.Context, candidateID string) (*primary.CandidateRecords, error)
	advanceFn func(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error)
	historyFn func(ctx context.Context, candidateID string) ([]*primary.StatusChange, error)
	countsFn  func(ctx context.Context) ([]primary.StatusCount, error)

	// Track calls for verification
	lastAdvanceReq primary.AdvanceRequest
	lastFilters    primary.CandidateFilters
}

func (m *mockLifecycleService) CreateCandidate(ctx context.Context, req primary.CreateCandidateRequest) (*primary.CreateCandidateResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.CreateCandidateResponse{
		CandidateID: "BTEVTA-000001",
		Candidate:   &primary.Candidate{ID: "BTEVTA-000001", Name: req.Name, Status: "listed"},
	}, nil
}

func (m *mockLifecycleService) GetCandidate(ctx context.Context, candidateID string) (*primary.Candidate, error) {
	return &primary.Candidate{ID: candidateID, Status: "listed"}, nil
}

func (m *mockLifecycleService) GetCandidateByNationalID(ctx context.Context, nationalID string) (*primary.Candidate, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockLifecycleService) ListCandidates(ctx context.Context, filters primary.CandidateFilters) ([]*primary.Candidate, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return []*primary.Candidate{}, nil
}

func (m *mockLifecycleService) UpdateCandidate(ctx context.Context, req primary.UpdateCandidateRequest) error {
	return nil
}

func (m *mockLifecycleService) DeleteCandidate(ctx context.Context, candidateID string) error {
	return nil
}

func (m *mockLifecycleService) Advance(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
	m.lastAdvanceReq = req
	if m.advanceFn != nil {
		return m.advanceFn(ctx, req)
	}
	return &primary.AdvanceResponse{
		Candidate:     &primary.Candidate{ID: req.CandidateID, Status: req.Target},
		FromStatus:    "listed",
		ToStatus:      req.Target,
		StatusChanged: true,
	}, nil
}

func (m *mockLifecycleService) RecordScreening(ctx context.Context, req primary.RecordScreeningRequest) (*primary.Screening, error) {
	return &primary.Screening{ID: "SCR-0001", CandidateID: req.CandidateID, Outcome: "pending", Consent: true}, nil
}

func (m *mockLifecycleService) RecordAssessment(ctx context.Context, req primary.RecordAssessmentRequest) (*primary.Assessment, error) {
	return &primary.Assessment{ID: "ASMT-0001", CandidateID: req.CandidateID, Type: req.Type, Score: req.Score, MaxScore: req.MaxScore, Result: "fail"}, nil
}

func (m *mockLifecycleService) RecordVisaStep(ctx context.Context, req primary.RecordVisaStepRequest) (*primary.VisaProcess, error) {
	return &primary.VisaProcess{ID: "VISA-0001", CandidateID: req.CandidateID, MedicalStatus: req.Visa.MedicalStatus, VisaStatus: "pending"}, nil
}

func (m *mockLifecycleService) RecordCompliance(ctx context.Context, req primary.RecordComplianceRequest) (*primary.Departure, error) {
	return &primary.Departure{
		ID:                 "DEP-0001",
		CandidateID:        req.CandidateID,
		ComplianceDeadline: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		MissingObligations: []string{"first_salary"},
	}, nil
}

func (m *mockLifecycleService) GetCandidateRecords(ctx context.Context, candidateID string) (*primary.CandidateRecords, error) {
	if m.recordsFn != nil {
		return m.recordsFn(ctx, candidateID)
	}
	return &primary.CandidateRecords{Candidate: &primary.Candidate{ID: candidateID, Status: "listed"}}, nil
}

func (m *mockLifecycleService) GetHistory(ctx context.Context, candidateID string) ([]*primary.StatusChange, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, candidateID)
	}
	return nil, nil
}

func (m *mockLifecycleService) StatusCounts(ctx context.Context) ([]primary.StatusCount, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx)
	}
	return nil, nil
}

func newTestAdapter() (*CandidateAdapter, *mockLifecycleService, *bytes.Buffer) {
	svc := &mockLifecycleService{}
	out := &bytes.Buffer{}
	return NewCandidateAdapter(svc, out), svc, out
}

func TestCandidateAdapter_Create(t *testing.T) {
	adapter, _, out := newTestAdapter()

	err := adapter.Create(context.Background(), primary.CreateCandidateRequest{Name: "Ali Raza"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Created candidate BTEVTA-000001: Ali Raza (listed)") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestCandidateAdapter_Create_Error(t *testing.T) {
	adapter, svc, _ := newTestAdapter()
	svc.createFn = func(ctx context.Context, req primary.CreateCandidateRequest) (*primary.CreateCandidateResponse, error) {
		return nil, errors.New("national ID 3520112345671 is already registered")
	}

	err := adapter.Create(context.Background(), primary.CreateCandidateRequest{})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("expected wrapped service error, got %v", err)
	}
}

func TestCandidateAdapter_List(t *testing.T) {
	adapter, svc, out := newTestAdapter()

	if err := adapter.List(context.Background(), primary.CandidateFilters{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No candidates found") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	out.Reset()
	svc.listFn = func(ctx context.Context, filters primary.CandidateFilters) ([]*primary.Candidate, error) {
		return []*primary.Candidate{
			{ID: "BTEVTA-000001", Name: "Ali Raza", NationalID: "3520112345671", District: "Lahore", Status: "training", BatchID: "BATCH-0001"},
			{ID: "BTEVTA-000002", Name: "Ayesha Khan", NationalID: "1730112345672", District: "Peshawar", Status: "listed"},
		}, nil
	}
	if err := adapter.List(context.Background(), primary.CandidateFilters{Status: "training"}); err != nil {
		t.Fatal(err)
	}
	if svc.lastFilters.Status != "training" {
		t.Errorf("filters not passed through: %+v", svc.lastFilters)
	}
	for _, want := range []string{"BTEVTA-000001", "Ayesha Khan", "BATCH-0001", "Peshawar"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCandidateAdapter_Show(t *testing.T) {
	adapter, svc, out := newTestAdapter()
	departed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	svc.recordsFn = func(ctx context.Context, candidateID string) (*primary.CandidateRecords, error) {
		return &primary.CandidateRecords{
			Candidate:   &primary.Candidate{ID: candidateID, Name: "Ali Raza", FatherName: "Aslam", Status: "post_departure", BatchID: "BATCH-0002", CampusID: "CAMP-0002"},
			Assessments: []*primary.Assessment{{ID: "ASMT-0001", Type: "final", Score: 81, MaxScore: 100, Result: "pass"}},
			Certificate: &primary.Certificate{CertificateNumber: "CERT-2026-00004", IssuingAuthority: "BTEVTA"},
			Departure: &primary.Departure{
				ID: "DEP-0001", DepartureDate: departed, Destination: "Riyadh",
				ComplianceDeadline: departed.AddDate(0, 0, 90), MissingObligations: []string{"first_salary"},
			},
			PostDeparture: &primary.PostDeparture{Employer: "Al Noor", Salary: 1800, Currency: "SAR"},
		}, nil
	}

	if err := adapter.Show(context.Background(), "BTEVTA-000009"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Candidate: BTEVTA-000009",
		"post_departure",
		"BATCH-0002 (campus CAMP-0002",
		"81/100 pass",
		"CERT-2026-00004",
		"to Riyadh",
		"pending (first_salary), deadline 2026-04-05",
		"Al Noor",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCandidateAdapter_Advance(t *testing.T) {
	adapter, svc, out := newTestAdapter()

	req := primary.AdvanceRequest{CandidateID: "BTEVTA-000001", Target: "screening", Remarks: "walk-in"}
	if err := adapter.Advance(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if svc.lastAdvanceReq.Remarks != "walk-in" {
		t.Errorf("request not passed through: %+v", svc.lastAdvanceReq)
	}
	if !strings.Contains(out.String(), "BTEVTA-000001: listed → screening") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	svc.advanceFn = func(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
		return &primary.AdvanceResponse{
			Candidate:      &primary.Candidate{ID: req.CandidateID},
			FromStatus:     "screened",
			ToStatus:       "screened",
			RecordsWritten: []string{"screening:update"},
		}, nil
	}
	if err := adapter.Advance(context.Background(), primary.AdvanceRequest{CandidateID: "BTEVTA-000001", Target: "screened"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "already screened") || !strings.Contains(out.String(), "screening:update") {
		t.Errorf("unexpected output: %q", out.String())
	}

	svc.advanceFn = func(ctx context.Context, req primary.AdvanceRequest) (*primary.AdvanceResponse, error) {
		return nil, errors.New("validation failed: cannot advance")
	}
	if err := adapter.Advance(context.Background(), req); err == nil {
		t.Error("expected error")
	}
}

func TestCandidateAdapter_HistoryAndStats(t *testing.T) {
	adapter, svc, out := newTestAdapter()

	if err := adapter.History(context.Background(), "BTEVTA-000001"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No status changes for BTEVTA-000001") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	svc.historyFn = func(ctx context.Context, candidateID string) ([]*primary.StatusChange, error) {
		return []*primary.StatusChange{
			{FromStatus: "listed", ToStatus: "screening", ActorID: "officer-7", ChangedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)},
		}, nil
	}
	if err := adapter.History(context.Background(), "BTEVTA-000001"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2026-03-01 10:30", "officer-7", "screening"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("history output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	svc.countsFn = func(ctx context.Context) ([]primary.StatusCount, error) {
		return []primary.StatusCount{
			{Status: "listed", Count: 3},
			{Status: "withdrawn", Count: 2, Terminal: true},
		}, nil
	}
	if err := adapter.Stats(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"withdrawn (terminal)", "5"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCandidateAdapter_RecordOperations(t *testing.T) {
	adapter, _, out := newTestAdapter()
	ctx := context.Background()

	if err := adapter.RecordScreening(ctx, primary.RecordScreeningRequest{CandidateID: "BTEVTA-000001"}); err != nil {
		t.Fatal(err)
	}
	if err := adapter.RecordAssessment(ctx, primary.RecordAssessmentRequest{CandidateID: "BTEVTA-000001", Type: "interim", Score: 30, MaxScore: 100}); err != nil {
		t.Fatal(err)
	}
	if err := adapter.RecordVisaStep(ctx, primary.RecordVisaStepRequest{CandidateID: "BTEVTA-000001", Visa: primary.VisaInput{MedicalStatus: "fit"}}); err != nil {
		t.Fatal(err)
	}
	if err := adapter.RecordCompliance(ctx, primary.RecordComplianceRequest{CandidateID: "BTEVTA-000001"}); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Screening SCR-0001 for BTEVTA-000001: pending",
		"Assessment ASMT-0001 (interim) for BTEVTA-000001: 30/100 fail",
		"medical=fit",
		"90-day compliance pending (first_salary), deadline 2026-06-01",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
