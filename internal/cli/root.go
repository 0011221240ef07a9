package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/observations"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// newService builds the service used by every command. Tests replace it.
var newService = func() *observations.Service {
	return observations.NewDefaultService(config.BaseURL, 5*time.Second)
}

var rootCmd = &cobra.Command{
	Use:   "observaciones",
	Short: "Generador de observaciones con IA",
	Long: `observaciones sends a title, an entity and a findings text to the hosted
scoring service and shows the three observation proposals it returns.

The bearer token is read from OBSERVACIONES_API_KEY on every request.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "observaciones %s\ncommit: %s\nbuilt:  %s\nAPI:    %s\n",
			appVersion, appCommit, appDate, config.BaseURL)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Reported tells whether err was already shown to the user by the command.
func Reported(err error) bool {
	return errors.Is(err, errReported)
}
