package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/drymix/internal/discovery"
	"github.com/five82/drymix/internal/reporter"
)

// inputFlags are shared by every command that takes clips.
type inputFlags struct {
	inputs   []string
	jsonMode bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.inputs, "input", "i", nil, "Clip file or directory of clips (repeatable)")
	cmd.Flags().BoolVar(&f.jsonMode, "json", false, "Emit NDJSON progress events instead of text")
}

// clips expands -i values and positional arguments into an ordered clip list.
func (f *inputFlags) clips(args []string, logger *slog.Logger) ([]string, error) {
	inputs := append(append([]string(nil), f.inputs...), args...)
	if len(inputs) == 0 {
		return nil, errors.New("at least one input is required (-i/--input)")
	}
	result, err := discovery.ExpandInputs(inputs, logger)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}

// newReporter returns a JSON reporter when requested or when out is not a
// terminal, and a terminal reporter otherwise.
func newReporter(out io.Writer, jsonMode, verbose bool) reporter.Reporter {
	if jsonMode || !isTerminal(out) {
		return reporter.NewJSONReporterWithWriter(out)
	}
	return reporter.NewTerminalReporterWithWriter(out, verbose)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
