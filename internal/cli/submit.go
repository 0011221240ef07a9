package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cdeia/observaciones/internal/form"
	"github.com/cdeia/observaciones/internal/render"
	"github.com/spf13/cobra"
)

// errReported marks failures whose message was already printed.
var errReported = errors.New("request failed")

var (
	submitTitle   string
	submitEntity  string
	submitText    string
	submitExample bool
	submitJSON    bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Request three observation proposals",
	Long: `Submit sends the title, entity and findings text to the scoring service and
prints the returned proposals as cards.

Pass --resultados - to read the findings text from stdin. --ejemplo fills
the fields with example values (flags given explicitly still win).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f form.Form
		if submitExample {
			f.SeedExample()
		}
		if cmd.Flags().Changed("titulo") {
			f.Title = submitTitle
		}
		if cmd.Flags().Changed("entidad") {
			f.Entity = submitEntity
		}
		if cmd.Flags().Changed("resultados") {
			text, err := readText(cmd.InOrStdin(), submitText)
			if err != nil {
				return err
			}
			f.Text = text
		}

		if err := f.Validate(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), render.Failure(err))
			return errReported
		}

		resp, err := newService().Submit(cmd.Context(), f.Title, f.Entity, f.Text)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), render.Failure(err))
			return errReported
		}
		f.Clear()

		out := cmd.OutOrStdout()
		if submitJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"propuestas": resp.Displayed(),
				"elapsed_ms": resp.Elapsed.Milliseconds(),
			})
		}
		fmt.Fprintln(out, render.Cards(resp))
		return nil
	},
}

func readText(stdin io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading findings text from stdin: %w", err)
	}
	return string(b), nil
}

func init() {
	submitCmd.Flags().StringVarP(&submitTitle, "titulo", "t", "", "observation title")
	submitCmd.Flags().StringVarP(&submitEntity, "entidad", "e", "", "audited entity name")
	submitCmd.Flags().StringVarP(&submitText, "resultados", "r", "", "findings text, or - to read stdin")
	submitCmd.Flags().BoolVar(&submitExample, "ejemplo", false, "start from the example values")
	submitCmd.Flags().BoolVar(&submitJSON, "json", false, "print proposals as JSON")
	rootCmd.AddCommand(submitCmd)
}
