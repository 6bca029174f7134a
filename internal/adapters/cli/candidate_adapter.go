// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/example/btevta/internal/ports/primary"
)

const dateLayout = "2006-01-02"

// CandidateAdapter is a thin adapter that translates CLI operations to LifecycleService calls.
// It depends only on the LifecycleService interface, enabling easy testing with mocks.
type CandidateAdapter struct {
	service primary.LifecycleService
	out     io.Writer
}

// NewCandidateAdapter creates a new CandidateAdapter with the given service.
func NewCandidateAdapter(service primary.LifecycleService, out io.Writer) *CandidateAdapter {
	return &CandidateAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new candidate.
func (a *CandidateAdapter) Create(ctx context.Context, req primary.CreateCandidateRequest) error {
	resp, err := a.service.CreateCandidate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	fmt.Fprintf(a.out, "%s Created candidate %s: %s (%s)\n",
		color.New(color.FgGreen).Sprint("✓"), resp.CandidateID, resp.Candidate.Name, statusLabel(resp.Candidate.Status))
	return nil
}

// List lists candidates with optional filters.
func (a *CandidateAdapter) List(ctx context.Context, filters primary.CandidateFilters) error {
	candidates, err := a.service.ListCandidates(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}

	if len(candidates) == 0 {
		fmt.Fprintln(a.out, "No candidates found")
		return nil
	}

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"ID", "Name", "National ID", "District", "Status", "Batch"})
	for _, c := range candidates {
		table.Append([]string{c.ID, c.Name, c.NationalID, c.District, c.Status, orDash(c.BatchID)})
	}
	table.Render()
	return nil
}

// Show displays a candidate with every side record it owns.
func (a *CandidateAdapter) Show(ctx context.Context, candidateID string) error {
	records, err := a.service.GetCandidateRecords(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to get candidate: %w", err)
	}

	c := records.Candidate
	fmt.Fprintf(a.out, "\nCandidate: %s\n", c.ID)
	fmt.Fprintf(a.out, "Name:        %s (s/o %s)\n", c.Name, c.FatherName)
	fmt.Fprintf(a.out, "National ID: %s\n", c.NationalID)
	fmt.Fprintf(a.out, "Status:      %s\n", statusLabel(c.Status))
	fmt.Fprintf(a.out, "Gender:      %s, born %s\n", c.Gender, c.DateOfBirth.Format(dateLayout))
	fmt.Fprintf(a.out, "Contact:     %s", c.Phone)
	if c.Email != "" {
		fmt.Fprintf(a.out, ", %s", c.Email)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "District:    %s", c.District)
	if c.Province != "" {
		fmt.Fprintf(a.out, ", %s", c.Province)
	}
	fmt.Fprintln(a.out)
	if c.BatchID != "" {
		fmt.Fprintf(a.out, "Batch:       %s (campus %s, trade %s, program %s)\n", c.BatchID, c.CampusID, c.TradeID, c.ProgramID)
	}
	if c.OEPID != "" {
		fmt.Fprintf(a.out, "OEP:         %s\n", c.OEPID)
	}
	printDate(a.out, "Registered:  ", c.RegistrationDate)
	printDate(a.out, "Training:    ", c.TrainingStartDate)
	printDate(a.out, "Trained:     ", c.TrainingEndDate)

	if s := records.Screening; s != nil {
		fmt.Fprintf(a.out, "\nScreening %s: %s, consent=%t", s.ID, s.Outcome, s.Consent)
		if s.TargetCountry != "" {
			fmt.Fprintf(a.out, ", target %s", s.TargetCountry)
		}
		fmt.Fprintln(a.out)
	}
	for _, as := range records.Assessments {
		fmt.Fprintf(a.out, "Assessment %s (%s): %g/%g %s\n", as.ID, as.Type, as.Score, as.MaxScore, as.Result)
	}
	if cert := records.Certificate; cert != nil {
		fmt.Fprintf(a.out, "Certificate: %s issued %s by %s\n", cert.CertificateNumber, cert.IssuedAt.Format(dateLayout), cert.IssuingAuthority)
	}
	if v := records.VisaProcess; v != nil {
		fmt.Fprintf(a.out, "Visa %s: interview=%s medical=%s visa=%s", v.ID, orDash(v.InterviewStatus), orDash(v.MedicalStatus), v.VisaStatus)
		if v.VisaNumber != "" {
			fmt.Fprintf(a.out, " (%s)", v.VisaNumber)
		}
		fmt.Fprintln(a.out)
	}
	if d := records.Departure; d != nil {
		fmt.Fprintf(a.out, "Departure %s: %s", d.ID, d.DepartureDate.Format(dateLayout))
		if d.Destination != "" {
			fmt.Fprintf(a.out, " to %s", d.Destination)
		}
		fmt.Fprintln(a.out)
		fmt.Fprintf(a.out, "  90-day compliance: %s\n", complianceLabel(d))
	}
	if p := records.PostDeparture; p != nil {
		fmt.Fprintf(a.out, "Employment: %s, %s %.2f %s\n", p.Employer, orDash(p.JobTitle), p.Salary, p.Currency)
	}
	if s := records.SuccessStory; s != nil {
		featured := ""
		if s.Featured {
			featured = " [featured]"
		}
		fmt.Fprintf(a.out, "Success story%s: %s\n", featured, s.Narrative)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Update updates a candidate's demographic fields.
func (a *CandidateAdapter) Update(ctx context.Context, req primary.UpdateCandidateRequest) error {
	if err := a.service.UpdateCandidate(ctx, req); err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Candidate %s updated\n", req.CandidateID)
	return nil
}

// Delete deletes a candidate and its records.
func (a *CandidateAdapter) Delete(ctx context.Context, candidateID string) error {
	if err := a.service.DeleteCandidate(ctx, candidateID); err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Deleted candidate %s\n", candidateID)
	return nil
}

// Advance moves a candidate to a target status.
func (a *CandidateAdapter) Advance(ctx context.Context, req primary.AdvanceRequest) error {
	resp, err := a.service.Advance(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusChanged {
		fmt.Fprintf(a.out, "%s %s: %s → %s\n",
			color.New(color.FgGreen).Sprint("✓"), resp.Candidate.ID, resp.FromStatus, statusLabel(resp.ToStatus))
	} else {
		fmt.Fprintf(a.out, "= %s already %s\n", resp.Candidate.ID, statusLabel(resp.ToStatus))
	}
	for _, w := range resp.RecordsWritten {
		fmt.Fprintf(a.out, "  %s\n", w)
	}
	return nil
}

// History prints a candidate's status changes.
func (a *CandidateAdapter) History(ctx context.Context, candidateID string) error {
	changes, err := a.service.GetHistory(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(changes) == 0 {
		fmt.Fprintf(a.out, "No status changes for %s\n", candidateID)
		return nil
	}

	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"When", "From", "To", "Actor", "Remarks"})
	for _, ch := range changes {
		table.Append([]string{ch.ChangedAt.Format("2006-01-02 15:04"), ch.FromStatus, ch.ToStatus, orDash(ch.ActorID), ch.Remarks})
	}
	table.Render()
	return nil
}

// Stats prints candidate counts for every status.
func (a *CandidateAdapter) Stats(ctx context.Context) error {
	counts, err := a.service.StatusCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status counts: %w", err)
	}

	total := 0
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Status", "Count"})
	for _, c := range counts {
		name := c.Status
		if c.Terminal {
			name += " (terminal)"
		}
		table.Append([]string{name, strconv.Itoa(c.Count)})
		total += c.Count
	}
	table.SetFooter([]string{"Total", strconv.Itoa(total)})
	table.Render()
	return nil
}

// RecordScreening records screening data.
func (a *CandidateAdapter) RecordScreening(ctx context.Context, req primary.RecordScreeningRequest) error {
	s, err := a.service.RecordScreening(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Screening %s for %s: %s (consent=%t)\n", s.ID, s.CandidateID, s.Outcome, s.Consent)
	return nil
}

// RecordAssessment records a training assessment.
func (a *CandidateAdapter) RecordAssessment(ctx context.Context, req primary.RecordAssessmentRequest) error {
	as, err := a.service.RecordAssessment(ctx, req)
	if err != nil {
		return err
	}
	result := color.New(color.FgGreen).Sprint(as.Result)
	if as.Result != "pass" {
		result = color.New(color.FgRed).Sprint(as.Result)
	}
	fmt.Fprintf(a.out, "✓ Assessment %s (%s) for %s: %g/%g %s\n", as.ID, as.Type, as.CandidateID, as.Score, as.MaxScore, result)
	return nil
}

// RecordVisaStep records visa sub-results.
func (a *CandidateAdapter) RecordVisaStep(ctx context.Context, req primary.RecordVisaStepRequest) error {
	v, err := a.service.RecordVisaStep(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Visa %s for %s: trade test=%s medical=%s biometric=%s visa=%s\n",
		v.ID, v.CandidateID, orDash(v.TradeTestStatus), orDash(v.MedicalStatus), orDash(v.BiometricStatus), v.VisaStatus)
	return nil
}

// RecordCompliance records post-departure reporting dates.
func (a *CandidateAdapter) RecordCompliance(ctx context.Context, req primary.RecordComplianceRequest) error {
	d, err := a.service.RecordCompliance(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Departure %s for %s: 90-day compliance %s\n", d.ID, d.CandidateID, complianceLabel(d))
	return nil
}

func statusLabel(status string) string {
	switch status {
	case "deferred", "rejected", "withdrawn":
		return color.New(color.FgRed).Sprint(status)
	case "completed":
		return color.New(color.FgGreen).Sprint(status)
	default:
		return color.New(color.FgCyan).Sprint(status)
	}
}

func complianceLabel(d *primary.Departure) string {
	if d.NinetyDayCompliant {
		return color.New(color.FgGreen).Sprint("compliant")
	}
	label := color.New(color.FgYellow).Sprint("pending")
	if len(d.MissingObligations) > 0 {
		label += " (" + strings.Join(d.MissingObligations, ", ") + ")"
	}
	return label + ", deadline " + d.ComplianceDeadline.Format(dateLayout)
}

func printDate(out io.Writer, label string, t *time.Time) {
	if t != nil {
		fmt.Fprintf(out, "%s%s\n", label, t.Format(dateLayout))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
