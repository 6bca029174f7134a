// Package cli provides CLI commands for the btevta application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/btevta/internal/config"
	"github.com/example/btevta/internal/ctxutil"
	"github.com/example/btevta/internal/wire"
)

// globalActorID stores the actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor resolves the acting operator and stores it globally.
// An explicit --actor wins, then $BTEVTA_ACTOR, then the OS user name.
func DetectAndStoreActor(explicit string) {
	switch {
	case explicit != "":
		globalActorID = explicit
	case os.Getenv("BTEVTA_ACTOR") != "":
		globalActorID = os.Getenv("BTEVTA_ACTOR")
	default:
		if u, err := user.Current(); err == nil {
			globalActorID = u.Username
		}
	}
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// Bootstrap installs the global flags and the PersistentPreRunE that loads
// configuration for the working directory before any command runs.
func Bootstrap(root *cobra.Command) {
	var actor, dbPath, logLevel string
	root.PersistentFlags().StringVar(&actor, "actor", "", "Operator recorded on status changes (default: $BTEVTA_ACTOR or OS user)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides config and $"+config.EnvDBPath+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		wire.Configure(cfg)
		DetectAndStoreActor(actor)
		return nil
	}
}

// parseDate parses a YYYY-MM-DD flag value as a UTC date.
func parseDate(flag, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", flag, value)
	}
	return t, nil
}

// optionalDate parses a date flag only when it was set.
func optionalDate(cmd *cobra.Command, flag string) (*time.Time, error) {
	if !cmd.Flags().Changed(flag) {
		return nil, nil
	}
	value, _ := cmd.Flags().GetString(flag)
	t, err := parseDate(flag, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalFloat returns a float flag only when it was set.
func optionalFloat(cmd *cobra.Command, flag string) *float64 {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(flag)
	return &v
}

const dateLayout = "2006-01-02"
