package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/btevta/internal/ports/primary"
	"github.com/example/btevta/internal/wire"
)

// ScreeningCmd returns the screening command
func ScreeningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screening",
		Short: "Record candidate screening",
	}

	record := &cobra.Command{
		Use:   "record [candidate-id]",
		Short: "Create or update a candidate's screening",
		Long: `Record screening data while the candidate is listed, in pre_departure_docs,
screening or screened. Once screened, the screening must keep consent and a
passed outcome.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			return wire.CandidateAdapter().RecordScreening(NewContext(), primary.RecordScreeningRequest{
				CandidateID: args[0],
				Screening:   *screeningInput(cmd),
			})
		},
	}
	addScreeningFlags(record)
	cmd.AddCommand(record)

	return cmd
}

// AssessmentCmd returns the assessment command
func AssessmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Record training assessments",
	}

	var req primary.RecordAssessmentRequest
	record := &cobra.Command{
		Use:   "record [candidate-id]",
		Short: "Create or update an interim or final assessment",
		Long:  `Record an assessment score while the candidate is in training.`,
		Example: `  btevta assessment record BTEVTA-000001 --type interim --score 72
  btevta assessment record BTEVTA-000001 --type final --score 81 --max-score 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			if !cmd.Flags().Changed("score") {
				return fmt.Errorf("--score is required")
			}
			req.CandidateID = args[0]
			return wire.CandidateAdapter().RecordAssessment(NewContext(), req)
		},
	}
	record.Flags().StringVar(&req.Type, "type", "", "interim or final (required)")
	record.Flags().Float64Var(&req.Score, "score", 0, "Score obtained (required)")
	record.Flags().Float64Var(&req.MaxScore, "max-score", 100, "Maximum score")
	record.Flags().StringVar(&req.Assessor, "assessor", "", "Assessor name")
	cmd.AddCommand(record)

	return cmd
}

// VisaCmd returns the visa command
func VisaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visa",
		Short: "Record visa processing steps",
	}

	step := &cobra.Command{
		Use:   "step [candidate-id]",
		Short: "Record trade test, medical, biometric or visa results",
		Long:  `Fill visa sub-results while the candidate is in visa_process.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			visa, err := visaInput(cmd)
			if err != nil {
				return err
			}
			if visa == nil {
				return fmt.Errorf("no visa step given\nHint: use --trade-test-status, --medical-status, --biometric-status or --visa-number")
			}
			return wire.CandidateAdapter().RecordVisaStep(NewContext(), primary.RecordVisaStepRequest{
				CandidateID: args[0],
				Visa:        *visa,
			})
		},
	}
	addVisaFlags(step)
	cmd.AddCommand(step)

	return cmd
}

// DepartureCmd returns the departure command
func DepartureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "departure",
		Short: "Track post-departure compliance",
	}

	compliance := &cobra.Command{
		Use:   "compliance [candidate-id]",
		Short: "Record residency, ID and first-salary dates",
		Long: `Record post-departure reporting dates. The candidate is 90-day compliant
once all three fall within 90 days of the departure date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			req := primary.RecordComplianceRequest{CandidateID: args[0]}
			var err error
			if req.ResidencyRegistrationDate, err = optionalDate(cmd, "residency-date"); err != nil {
				return err
			}
			if req.IDRegistrationDate, err = optionalDate(cmd, "id-date"); err != nil {
				return err
			}
			if req.FirstSalaryDate, err = optionalDate(cmd, "salary-date"); err != nil {
				return err
			}
			return wire.CandidateAdapter().RecordCompliance(NewContext(), req)
		},
	}
	compliance.Flags().String("residency-date", "", "Residency registration date, YYYY-MM-DD")
	compliance.Flags().String("id-date", "", "Local ID registration date, YYYY-MM-DD")
	compliance.Flags().String("salary-date", "", "First salary date, YYYY-MM-DD")
	cmd.AddCommand(compliance)

	return cmd
}

func addScreeningFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("consent", false, "Candidate consented to placement")
	cmd.Flags().String("placement", "", "Placement interest: local or international")
	cmd.Flags().String("target-country", "", "Target country")
	cmd.Flags().String("reviewer", "", "Screening reviewer")
	cmd.Flags().String("outcome", "", "Screening outcome: pending, passed or failed")
}

func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("interim", 0, "Interim assessment score")
	cmd.Flags().Float64("final", 0, "Final assessment score")
	cmd.Flags().Float64("max-score", 100, "Maximum assessment score")
	cmd.Flags().String("assessor", "", "Assessor name")
}

func addInterviewFlags(cmd *cobra.Command) {
	cmd.Flags().String("interview-date", "", "Interview date, YYYY-MM-DD")
	cmd.Flags().String("interview-status", "", "Interview status: scheduled, passed or failed")
	cmd.Flags().String("interview-remarks", "", "Interview remarks")
	cmd.Flags().String("oep", "", "Overseas employment promoter ID")
}

func addVisaFlags(cmd *cobra.Command) {
	cmd.Flags().String("trade-test-date", "", "Trade test date, YYYY-MM-DD")
	cmd.Flags().String("trade-test-status", "", "Trade test: pending, passed or failed")
	cmd.Flags().String("medical-date", "", "Medical date, YYYY-MM-DD")
	cmd.Flags().String("medical-status", "", "Medical: pending, fit or unfit")
	cmd.Flags().String("biometric-date", "", "Biometric date, YYYY-MM-DD")
	cmd.Flags().String("biometric-status", "", "Biometric: pending or done")
	cmd.Flags().String("visa-number", "", "Issued visa number")
	cmd.Flags().String("visa-date", "", "Visa issue date, YYYY-MM-DD")
}

func addDepartureFlags(cmd *cobra.Command) {
	cmd.Flags().String("departure-date", "", "Departure date, YYYY-MM-DD")
	cmd.Flags().String("flight", "", "Flight number")
	cmd.Flags().String("destination", "", "Destination city")
}

func addEmploymentFlags(cmd *cobra.Command) {
	cmd.Flags().String("employer", "", "Foreign employer")
	cmd.Flags().String("job-title", "", "Job title")
	cmd.Flags().Float64("salary", 0, "Monthly salary")
	cmd.Flags().String("currency", "", "Salary currency (ISO 4217, e.g. SAR)")
}

// anyChanged reports whether any of the named flags was set.
func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// bindStageFlags copies every stage flag group that was used into req.
func bindStageFlags(cmd *cobra.Command, req *primary.AdvanceRequest) error {
	if anyChanged(cmd, "consent", "placement", "target-country", "reviewer", "outcome") {
		req.Screening = screeningInput(cmd)
	}

	if anyChanged(cmd, "interim", "final") {
		maxScore, _ := cmd.Flags().GetFloat64("max-score")
		assessor, _ := cmd.Flags().GetString("assessor")
		req.Training = &primary.TrainingInput{
			InterimScore: optionalFloat(cmd, "interim"),
			FinalScore:   optionalFloat(cmd, "final"),
			MaxScore:     maxScore,
			Assessor:     assessor,
		}
	}

	if anyChanged(cmd, "interview-date", "interview-status", "interview-remarks", "oep") {
		date, err := optionalDate(cmd, "interview-date")
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("interview-status")
		remarks, _ := cmd.Flags().GetString("interview-remarks")
		oep, _ := cmd.Flags().GetString("oep")
		if err := validateEntityID(oep, "oep"); err != nil {
			return err
		}
		req.Interview = &primary.InterviewInput{Date: date, Status: status, Remarks: remarks, OEPID: oep}
	}

	visa, err := visaInput(cmd)
	if err != nil {
		return err
	}
	req.Visa = visa

	if anyChanged(cmd, "departure-date", "flight", "destination") {
		if !cmd.Flags().Changed("departure-date") {
			return fmt.Errorf("--departure-date is required with --flight or --destination")
		}
		value, _ := cmd.Flags().GetString("departure-date")
		date, err := parseDate("departure-date", value)
		if err != nil {
			return err
		}
		flight, _ := cmd.Flags().GetString("flight")
		destination, _ := cmd.Flags().GetString("destination")
		req.Departure = &primary.DepartureInput{Date: date, FlightNumber: flight, Destination: destination}
	}

	if anyChanged(cmd, "employer", "job-title", "salary", "currency") {
		employer, _ := cmd.Flags().GetString("employer")
		jobTitle, _ := cmd.Flags().GetString("job-title")
		salary, _ := cmd.Flags().GetFloat64("salary")
		currency, _ := cmd.Flags().GetString("currency")
		req.Employment = &primary.EmploymentInput{Employer: employer, JobTitle: jobTitle, Salary: salary, Currency: currency}
	}

	if cmd.Flags().Changed("story") {
		narrative, _ := cmd.Flags().GetString("story")
		featured, _ := cmd.Flags().GetBool("featured")
		req.Story = &primary.StoryInput{Narrative: narrative, Featured: featured}
	}
	return nil
}

func screeningInput(cmd *cobra.Command) *primary.ScreeningInput {
	in := &primary.ScreeningInput{}
	if cmd.Flags().Changed("consent") {
		consent, _ := cmd.Flags().GetBool("consent")
		in.Consent = &consent
	}
	in.PlacementInterest, _ = cmd.Flags().GetString("placement")
	in.TargetCountry, _ = cmd.Flags().GetString("target-country")
	in.Reviewer, _ = cmd.Flags().GetString("reviewer")
	in.Outcome, _ = cmd.Flags().GetString("outcome")
	return in
}

// visaInput returns nil when no visa flag was set.
func visaInput(cmd *cobra.Command) (*primary.VisaInput, error) {
	if !anyChanged(cmd, "trade-test-date", "trade-test-status", "medical-date", "medical-status",
		"biometric-date", "biometric-status", "visa-number", "visa-date") {
		return nil, nil
	}

	in := &primary.VisaInput{}
	var err error
	if in.TradeTestDate, err = optionalDate(cmd, "trade-test-date"); err != nil {
		return nil, err
	}
	if in.MedicalDate, err = optionalDate(cmd, "medical-date"); err != nil {
		return nil, err
	}
	if in.BiometricDate, err = optionalDate(cmd, "biometric-date"); err != nil {
		return nil, err
	}
	if in.VisaDate, err = optionalDate(cmd, "visa-date"); err != nil {
		return nil, err
	}
	in.TradeTestStatus, _ = cmd.Flags().GetString("trade-test-status")
	in.MedicalStatus, _ = cmd.Flags().GetString("medical-status")
	in.BiometricStatus, _ = cmd.Flags().GetString("biometric-status")
	in.VisaNumber, _ = cmd.Flags().GetString("visa-number")
	return in, nil
}
