package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/btevta/internal/ports/primary"
	"github.com/example/btevta/internal/wire"
)

// CandidateCmd returns the candidate command
func CandidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "candidate",
		Aliases: []string{"c"},
		Short:   "Manage candidates and move them through the lifecycle",
		Long: `Create, inspect and advance candidates from listing through departure
to completion.`,
	}

	cmd.AddCommand(candidateCreateCmd())
	cmd.AddCommand(candidateListCmd())
	cmd.AddCommand(candidateShowCmd())
	cmd.AddCommand(candidateUpdateCmd())
	cmd.AddCommand(candidateDeleteCmd())
	cmd.AddCommand(candidateAdvanceCmd())
	cmd.AddCommand(candidateHistoryCmd())
	cmd.AddCommand(candidateStatsCmd())

	return cmd
}

func candidateCreateCmd() *cobra.Command {
	var req primary.CreateCandidateRequest
	var dob string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new candidate in the listed status",
		Example: `  btevta candidate create --national-id 3520112345671 --name "Ali Raza" \
    --father "Muhammad Aslam" --gender male --dob 1996-04-12 \
    --phone 03001234567 --district Lahore`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dob != "" {
				t, err := parseDate("dob", dob)
				if err != nil {
					return err
				}
				req.DateOfBirth = t
			}
			return wire.CandidateAdapter().Create(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.NationalID, "national-id", "", "13-digit national ID (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&req.FatherName, "father", "", "Father's name (required)")
	cmd.Flags().StringVar(&req.Gender, "gender", "", "male, female or other (required)")
	cmd.Flags().StringVar(&dob, "dob", "", "Date of birth, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Province, "province", "", "Province")
	cmd.Flags().StringVar(&req.District, "district", "", "District (required)")
	cmd.Flags().StringVar(&req.Address, "address", "", "Postal address")
	return cmd
}

func candidateListCmd() *cobra.Command {
	var filters primary.CandidateFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(filters.BatchID, "batch"); err != nil {
				return err
			}
			return wire.CandidateAdapter().List(NewContext(), filters)
		},
	}

	cmd.Flags().StringVar(&filters.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&filters.BatchID, "batch", "", "Filter by batch ID")
	cmd.Flags().StringVarP(&filters.Search, "search", "s", "", "Match name, national ID or candidate ID")
	cmd.Flags().IntVar(&filters.Limit, "limit", 0, "Maximum rows (0 = all)")
	return cmd
}

func candidateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [candidate-id]",
		Short: "Show a candidate with all stage records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			return wire.CandidateAdapter().Show(NewContext(), args[0])
		},
	}
}

func candidateUpdateCmd() *cobra.Command {
	var req primary.UpdateCandidateRequest

	cmd := &cobra.Command{
		Use:   "update [candidate-id]",
		Short: "Update a candidate's personal details",
		Long:  `Update personal details. Status is never changed here; use 'candidate advance'.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			req.CandidateID = args[0]
			return wire.CandidateAdapter().Update(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.FatherName, "father", "", "Father's name")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Province, "province", "", "Province")
	cmd.Flags().StringVar(&req.District, "district", "", "District")
	cmd.Flags().StringVar(&req.Address, "address", "", "Postal address")
	return cmd
}

func candidateDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [candidate-id]",
		Short: "Delete a candidate and all its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("refusing to delete %s without --force", args[0])
			}
			return wire.CandidateAdapter().Delete(NewContext(), args[0])
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm deletion")
	return cmd
}

func candidateAdvanceCmd() *cobra.Command {
	var remarks, batchID string

	cmd := &cobra.Command{
		Use:   "advance [candidate-id] [status]",
		Short: "Move a candidate to a new status",
		Long: `Move a candidate to the given status. The move must be the next stage, a
re-entry of the current one, or a side exit (deferred, rejected, withdrawn).
Stage data is taken from the flags relevant to the target status:

  screened            --consent --outcome passed [--target-country ...]
  registered          --batch BATCH-0001
  training_completed  --interim N --final N [--max-score 100]
  visa_process        --interview-date --interview-status passed [--oep OEP-0001]
  visa_approved       --medical-status fit --visa-number ...
  ready_to_depart     --departure-date (future) [--flight --destination]
  departed            --departure-date
  post_departure      --employer --salary --currency
  completed           [--story ... --featured]

Examples:
  btevta candidate advance BTEVTA-000001 screening
  btevta candidate advance BTEVTA-000001 registered --batch BATCH-0001
  btevta candidate advance BTEVTA-000001 withdrawn --remarks "family reasons"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			if err := validateEntityID(batchID, "batch"); err != nil {
				return err
			}

			req := primary.AdvanceRequest{
				CandidateID: args[0],
				Target:      args[1],
				Remarks:     remarks,
				BatchID:     batchID,
			}
			if err := bindStageFlags(cmd, &req); err != nil {
				return err
			}
			return wire.CandidateAdapter().Advance(NewContext(), req)
		},
	}

	cmd.Flags().StringVarP(&remarks, "remarks", "r", "", "Remarks recorded with the status change")
	cmd.Flags().StringVar(&batchID, "batch", "", "Batch to register into")
	addScreeningFlags(cmd)
	addTrainingFlags(cmd)
	addInterviewFlags(cmd)
	addVisaFlags(cmd)
	addDepartureFlags(cmd)
	addEmploymentFlags(cmd)
	cmd.Flags().String("story", "", "Success story narrative")
	cmd.Flags().Bool("featured", false, "Feature the success story")
	return cmd
}

func candidateHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [candidate-id]",
		Short: "Show a candidate's status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "candidate"); err != nil {
				return err
			}
			return wire.CandidateAdapter().History(NewContext(), args[0])
		},
	}
}

func candidateStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count candidates in each status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CandidateAdapter().Stats(NewContext())
		},
	}
}
