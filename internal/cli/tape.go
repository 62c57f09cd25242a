package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/tape"
)

// NewTapeCommand creates the tape command.
func NewTapeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "tape",
		Short: "List recorded calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(dbPath); err != nil {
				return WrapExitError(ExitCommandError, "tape database not found", err)
			}

			t, err := tape.Open(dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open tape", err)
			}
			defer t.Close()

			entries, err := t.Recent(cmd.Context(), limit)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read tape", err)
			}

			return rootOpts.formatter(cmd).Success(entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%s  %s = %s\n", e.RecordedAt.Format(time.RFC3339), e.Expression, e.Result)
				}
			})
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", os.Getenv("CALC_TAPE_DB"), "path to the tape database")
	cmd.Flags().IntVarP(&limit, "limit", "n", tape.DefaultLimit, "maximum entries to list")

	return cmd
}
