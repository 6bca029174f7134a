package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/btevta/internal/config"
	"github.com/example/btevta/internal/db"
	"github.com/example/btevta/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the btevta database",
		Long: `Initialize the btevta database (default ~/.btevta/btevta.db) with the
required schema and reference data, and write .btevta/config.json in the
current directory if none exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing btevta database at %s\n", dbPath)

			database := wire.Database()
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed reference data: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			created, err := initConfig()
			if err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			if created {
				fmt.Printf("✓ Config file created at %s/config.json\n", config.DirName)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  btevta candidate create --name \"Ali Raza\" ...")
			fmt.Println("  btevta seed --demo 20")
			fmt.Println("  btevta candidate stats")

			return nil
		},
	}
}

// initConfig writes the active configuration to the working directory unless one exists.
func initConfig() (bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return false, err
	}

	if _, err := config.LoadConfig(cwd); err == nil {
		return false, nil // Already exists, skip
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	return true, config.SaveConfig(cwd, wire.Config())
}
