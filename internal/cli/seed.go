package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/btevta/internal/db"
	"github.com/example/btevta/internal/wire"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	var demo int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data and optional demo candidates",
		Long: `Load campuses, trades, programs, OEPs and batches. With --demo N, also
create N demo candidates spread across every lifecycle status. Demo candidates
are driven through the same lifecycle rules as real ones.

Examples:
  btevta seed
  btevta seed --demo 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if demo < 0 {
				return fmt.Errorf("--demo must not be negative")
			}

			if err := db.SeedFixtures(wire.Database()); err != nil {
				return fmt.Errorf("failed to seed reference data: %w", err)
			}
			fmt.Println("✓ Reference data loaded")

			if demo == 0 {
				return nil
			}

			summary, err := wire.DemoSeeder().Seed(NewContext(), demo)
			if err != nil {
				return fmt.Errorf("failed to seed demo candidates: %w", err)
			}

			fmt.Printf("✓ Created %d demo candidates (%d already present)\n", summary.Created, summary.Skipped)
			statuses := make([]string, 0, len(summary.ByStatus))
			for s := range summary.ByStatus {
				statuses = append(statuses, s)
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				fmt.Printf("  %-22s %d\n", s, summary.ByStatus[s])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&demo, "demo", 0, "Number of demo candidates to create")
	return cmd
}
