package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/scenario"
)

type runReport struct {
	Results []scenario.Result `json:"results"`
	Passed  int               `json:"passed"`
	Failed  int               `json:"failed"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenario files against the engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			var report runReport
			for _, path := range args {
				scenarios, err := scenario.LoadFile(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to load scenarios", err)
				}
				out.VerboseLog("%s: %d scenarios", path, len(scenarios))

				for _, res := range scenario.RunAll(scenarios, rootOpts.engineOptions()...) {
					report.Results = append(report.Results, res)
					if res.Passed {
						report.Passed++
					} else {
						report.Failed++
					}
				}
			}

			render := func(w io.Writer) {
				for _, res := range report.Results {
					if res.Passed {
						fmt.Fprintf(w, "PASS %s\n", res.Name)
						continue
					}
					fmt.Fprintf(w, "FAIL %s: %s\n", res.Name, strings.Join(res.Failures, "; "))
				}
				fmt.Fprintf(w, "%d passed, %d failed\n", report.Passed, report.Failed)
			}

			if report.Failed > 0 {
				if err := out.Failure("scenarios failed", report, render); err != nil {
					return err
				}
				return NewExitError(ExitFailure, fmt.Sprintf("%d scenarios failed", report.Failed))
			}
			return out.Success(report, render)
		},
	}
}
