package cli

import (
	"fmt"

	"github.com/cdeia/observaciones/internal/render"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the scoring service is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, msg := newService().ProbeHealth(cmd.Context())
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), render.Unavailable(msg))
			return errReported
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Available(msg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
