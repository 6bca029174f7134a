package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	corecandidate "github.com/example/btevta/internal/core/candidate"
	"github.com/example/btevta/internal/ctxutil"
	"github.com/example/btevta/internal/ports/primary"
	"github.com/example/btevta/internal/ports/secondary"
)

// demoBatches are the batch fixtures installed by db.SeedFixtures.
var demoBatches = []string{"BATCH-0001", "BATCH-0002", "BATCH-0003"}

var demoNames = []struct{ name, father, gender, district, province string }{
	{"Ali Raza", "Muhammad Aslam", "male", "Lahore", "Punjab"},
	{"Ayesha Khan", "Imran Khan", "female", "Peshawar", "Khyber Pakhtunkhwa"},
	{"Bilal Ahmed", "Rashid Ahmed", "male", "Multan", "Punjab"},
	{"Fatima Noor", "Noor Muhammad", "female", "Quetta", "Balochistan"},
	{"Hamza Iqbal", "Javed Iqbal", "male", "Karachi", "Sindh"},
	{"Sana Tariq", "Tariq Mehmood", "female", "Rawalpindi", "Punjab"},
	{"Usman Ghani", "Abdul Ghani", "male", "Mardan", "Khyber Pakhtunkhwa"},
}

var demoTerminals = []corecandidate.Status{
	corecandidate.StatusWithdrawn,
	corecandidate.StatusDeferred,
	corecandidate.StatusRejected,
}

// SeedSummary reports what a demo seed run did.
type SeedSummary struct {
	Created  int
	Skipped  int
	ByStatus map[string]int
}

// DemoSeeder drives demo candidates through the lifecycle service.
// It never writes candidate status directly.
type DemoSeeder struct {
	svc    primary.LifecycleService
	logger *zap.Logger
	now    func() time.Time
}

// NewDemoSeeder creates a new DemoSeeder.
func NewDemoSeeder(svc primary.LifecycleService, logger *zap.Logger, now func() time.Time) *DemoSeeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &DemoSeeder{svc: svc, logger: logger, now: now}
}

// Seed creates n demo candidates spread across the lifecycle. Candidates whose
// demo national ID already exists are skipped, so repeated runs are safe.
func (d *DemoSeeder) Seed(ctx context.Context, n int) (*SeedSummary, error) {
	ctx = ctxutil.WithDefaultActor(ctx, "demo-seeder")
	summary := &SeedSummary{ByStatus: make(map[string]int)}
	progression := corecandidate.ProgressiveStatuses()

	for i := 0; i < n; i++ {
		nationalID := fmt.Sprintf("42101%08d", i+1)
		if _, err := d.svc.GetCandidateByNationalID(ctx, nationalID); err == nil {
			summary.Skipped++
			continue
		} else if !errors.Is(err, secondary.ErrNotFound) {
			return summary, err
		}

		person := demoNames[i%len(demoNames)]
		resp, err := d.svc.CreateCandidate(ctx, primary.CreateCandidateRequest{
			NationalID:  nationalID,
			Name:        person.name,
			FatherName:  person.father,
			Gender:      person.gender,
			DateOfBirth: time.Date(1990+i%12, time.Month(1+i%12), 1+i%28, 0, 0, 0, 0, time.UTC),
			Phone:       fmt.Sprintf("0300%07d", i+1),
			District:    person.district,
			Province:    person.province,
		})
		if err != nil {
			return summary, fmt.Errorf("failed to create demo candidate %d: %w", i+1, err)
		}
		summary.Created++

		target := progression[i%len(progression)]
		status, err := d.walk(ctx, resp.CandidateID, i, target)
		if err != nil {
			return summary, fmt.Errorf("failed to advance demo candidate %s: %w", resp.CandidateID, err)
		}

		if i%5 == 4 {
			terminal := demoTerminals[(i/5)%len(demoTerminals)]
			if _, err := d.svc.Advance(ctx, primary.AdvanceRequest{
				CandidateID: resp.CandidateID,
				Target:      string(terminal),
				Remarks:     "demo side branch",
			}); err != nil {
				return summary, fmt.Errorf("failed to branch demo candidate %s: %w", resp.CandidateID, err)
			}
			status = terminal
		}
		summary.ByStatus[string(status)]++
	}

	d.logger.Info("demo candidates seeded",
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// walk advances a candidate one stage at a time from its stored status until it reaches target.
func (d *DemoSeeder) walk(ctx context.Context, candidateID string, i int, target corecandidate.Status) (corecandidate.Status, error) {
	c, err := d.svc.GetCandidate(ctx, candidateID)
	if err != nil {
		return "", err
	}
	current, err := corecandidate.ParseStatus(c.Status)
	if err != nil {
		return "", err
	}
	departsDirectly := target.AtOrBeyond(corecandidate.StatusDeparted)

	for current != target {
		next, ok := current.Next()
		if !ok {
			break
		}
		// Candidates heading past departure fly straight from departure processing
		// with a departure date already behind them.
		if next == corecandidate.StatusReadyToDepart && departsDirectly {
			next = corecandidate.StatusDeparted
		}

		req := d.stageRequest(candidateID, i, next)
		if _, err := d.svc.Advance(ctx, req); err != nil {
			return current, err
		}
		current = next

		if current == corecandidate.StatusPostDeparture {
			if err := d.recordCompliance(ctx, candidateID); err != nil {
				return current, err
			}
		}
	}
	return current, nil
}

func (d *DemoSeeder) stageRequest(candidateID string, i int, next corecandidate.Status) primary.AdvanceRequest {
	now := d.now()
	req := primary.AdvanceRequest{
		CandidateID: candidateID,
		Target:      string(next),
		Remarks:     "demo",
	}

	switch next {
	case corecandidate.StatusScreened:
		consent := true
		req.Screening = &primary.ScreeningInput{
			Consent:           &consent,
			PlacementInterest: "international",
			TargetCountry:     "Saudi Arabia",
			Reviewer:          "demo-reviewer",
			Outcome:           corecandidate.ScreeningPassed,
		}
	case corecandidate.StatusRegistered:
		req.BatchID = demoBatches[i%len(demoBatches)]
	case corecandidate.StatusTrainingCompleted:
		interim, final := 65.0+float64(i%20), 70.0+float64(i%25)
		req.Training = &primary.TrainingInput{
			InterimScore: &interim,
			FinalScore:   &final,
			MaxScore:     100,
			Assessor:     "demo-assessor",
		}
	case corecandidate.StatusVisaProcess:
		interviewed := now.AddDate(0, 0, -60)
		req.Interview = &primary.InterviewInput{
			Date:   &interviewed,
			Status: corecandidate.InterviewPassed,
			OEPID:  "OEP-0001",
		}
	case corecandidate.StatusVisaApproved:
		medical := now.AddDate(0, 0, -50)
		req.Visa = &primary.VisaInput{
			MedicalDate:     &medical,
			MedicalStatus:   corecandidate.MedicalFit,
			BiometricStatus: "done",
			VisaNumber:      fmt.Sprintf("KSA-%07d", i+1),
		}
	case corecandidate.StatusReadyToDepart:
		req.Departure = &primary.DepartureInput{
			Date:         now.AddDate(0, 0, 14),
			FlightNumber: "PK-741",
			Destination:  "Riyadh",
		}
	case corecandidate.StatusDeparted:
		req.Departure = &primary.DepartureInput{
			Date:         now.AddDate(0, 0, -30),
			FlightNumber: "PK-741",
			Destination:  "Riyadh",
		}
	case corecandidate.StatusPostDeparture:
		req.Employment = &primary.EmploymentInput{
			Employer: "Al Noor Contracting",
			JobTitle: "Electrician",
			Salary:   1800,
			Currency: "SAR",
		}
	case corecandidate.StatusCompleted:
		req.Story = &primary.StoryInput{
			Narrative: "Completed contract and supports family remittances.",
			Featured:  i%2 == 0,
		}
	}
	return req
}

func (d *DemoSeeder) recordCompliance(ctx context.Context, candidateID string) error {
	departed := d.now().AddDate(0, 0, -30)
	residency := departed.AddDate(0, 0, 7)
	idCard := departed.AddDate(0, 0, 12)
	salary := departed.AddDate(0, 0, 28)
	_, err := d.svc.RecordCompliance(ctx, primary.RecordComplianceRequest{
		CandidateID:               candidateID,
		ResidencyRegistrationDate: &residency,
		IDRegistrationDate:        &idCard,
		FirstSalaryDate:           &salary,
	})
	return err
}
