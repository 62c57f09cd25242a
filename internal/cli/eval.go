package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keypad"
)

type evalStep struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

type evalResult struct {
	Steps   []evalStep `json:"steps,omitempty"`
	Display string     `json:"display"`
	State   string     `json:"state"`
	Error   string     `json:"error,omitempty"`
	History []string   `json:"history"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "eval [keys...]",
		Short: "Evaluate a key sequence",
		Long: `Feed a key sequence to a fresh engine and print the final display.

Keys are separated by whitespace; numbers are split into single digit
presses, so "12 + 3 =" is five keys. Without arguments keys are read from
standard input.`,
		Example: `  calc eval 2 + 3 x 4 =
  echo "50 %" | calc eval --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := readKeys(cmd.InOrStdin(), args)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read keys", err)
			}
			if len(keys) == 0 {
				return NewExitError(ExitCommandError, "no keys given")
			}

			out := rootOpts.formatter(cmd)
			res := evaluate(keys, trace, rootOpts.engineOptions(), out)

			return out.Success(res, func(w io.Writer) {
				for _, s := range res.Steps {
					fmt.Fprintf(w, "%s => %s\n", s.Key, s.Display)
				}
				fmt.Fprintln(w, res.Display)
			})
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "print the display after every key")

	return cmd
}

func evaluate(keys []string, trace bool, opts []engine.Option, out *OutputFormatter) evalResult {
	e := engine.New(opts...)
	var res evalResult

	for _, k := range keys {
		cmd, ok := keypad.Normalize(k)
		if !ok {
			out.VerboseLog("unrecognised key %q", k)
		}
		display := e.Apply(cmd)
		if trace {
			res.Steps = append(res.Steps, evalStep{Key: k, Display: display})
		}
	}

	res.Display = e.Display()
	res.State = e.State().String()
	res.History = e.History()
	if err := e.Err(); err != nil {
		res.Error = err.Error()
	}
	return res
}

func readKeys(in io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return keypad.Fields(strings.Join(args, " ")), nil
	}

	var keys []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		keys = append(keys, keypad.Fields(sc.Text())...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
