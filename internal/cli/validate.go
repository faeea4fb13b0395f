package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/logstore"
	"github.com/roach88/minelog/internal/schema"
)

// LineProblem is one log line that fails validation.
type LineProblem struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ValidationResult is the output of the validate command.
type ValidationResult struct {
	Valid    bool          `json:"valid"`
	Checked  int           `json:"checked"`
	Problems []LineProblem `json:"problems"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every log line against the record schema",
		Long: `Check every non-blank line of receipts.jsonl and errors.jsonl against
the record schema. Reports lines the store would skip as well as lines that
decode but carry missing or out-of-range fields.

Exits with code 1 when any line is invalid.

Examples:
  minelog validate
  minelog validate --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	env, err := openEnvironment(opts, cmd)
	if err != nil {
		return err
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load record schema", err)
	}

	result := ValidationResult{Problems: []LineProblem{}}
	channels := []struct {
		ch       logstore.Channel
		validate func([]byte) error
	}{
		{logstore.ChannelReceipts, validator.ValidateReceipt},
		{logstore.ChannelErrors, validator.ValidateError},
	}

	for _, c := range channels {
		lines, err := env.store.ReadLines(c.ch)
		if err != nil {
			_ = env.formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read log", err)
		}
		env.formatter.VerboseLog("checking %d line(s) in %s", len(lines), env.store.Path(c.ch))

		for _, line := range lines {
			result.Checked++
			if err := c.validate(line.Data); err != nil {
				result.Problems = append(result.Problems, LineProblem{
					File:    c.ch.FileName(),
					Line:    line.Number,
					Message: err.Error(),
				})
			}
		}
	}
	result.Valid = len(result.Problems) == 0

	if err := env.formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d invalid line(s)", len(result.Problems)))
	}
	return nil
}

func (r ValidationResult) renderText(w io.Writer, _ bool) {
	if r.Valid {
		fmt.Fprintf(w, "✓ All %d line(s) valid\n", r.Checked)
		return
	}

	fmt.Fprintf(w, "✗ %d of %d line(s) invalid\n", len(r.Problems), r.Checked)
	fmt.Fprintln(w)
	for _, p := range r.Problems {
		fmt.Fprintf(w, "%s:%d\n", p.File, p.Line)
		fmt.Fprintf(w, "  %s\n\n", p.Message)
	}
}
