package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	MaxDigits int
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the calc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "calc",
		Short:         "Keypad calculator",
		Long:          "Drive the calculator engine from the command line: evaluate key sequences, run scenario files and read the calculation tape.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.MaxDigits < 1 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --max-digits %d", opts.MaxDigits))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.MaxDigits, "max-digits", engine.DefaultMaxDigits, "maximum digits per entry")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTapeCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) engineOptions() []engine.Option {
	return []engine.Option{engine.WithMaxDigits(o.MaxDigits)}
}
