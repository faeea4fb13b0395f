package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/logstore"
	"github.com/roach88/minelog/internal/record"
	"github.com/roach88/minelog/internal/schema"
)

// AppendOptions holds flags for the append command.
type AppendOptions struct {
	*RootOptions
	File string
}

// AppendResult is the output of the append command.
type AppendResult struct {
	Channel  string `json:"channel"`
	Path     string `json:"path"`
	Appended int    `json:"appended"`
}

// InvalidInput describes one rejected input record.
type InvalidInput struct {
	Record  int    `json:"record"` // 1-based position in the input
	Message string `json:"message"`
}

// NewAppendCommand creates the append command.
func NewAppendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AppendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "append receipt|error",
		Short: "Append records to a log",
		Long: `Append JSON records to the receipts or errors log.

Input is a stream of JSON objects read from --file or stdin. Records without
a "ts" field are stamped with the current time. All records are checked
before any is written: if one is invalid, nothing is appended.

Examples:
  minelog append receipt --file accepted.jsonl
  echo '{"address":"0xA","challenge_id":"c1","nonce":"n1","hash":"h1"}' | minelog append receipt`,
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     []string{"receipt", "error"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read records from file instead of stdin")
	return cmd
}

func runAppend(opts *AppendOptions, kind string, cmd *cobra.Command) error {
	env, err := openEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	input, err := readAppendInput(opts, cmd)
	if err != nil {
		_ = env.formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	objects, err := splitObjects(input)
	if err != nil {
		_ = env.formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to parse input", err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load record schema", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	switch kind {
	case "receipt":
		receipts, invalid := parseReceipts(objects, now, validator)
		if len(invalid) > 0 {
			return rejectAppend(env.formatter, invalid)
		}
		for _, r := range receipts {
			env.store.AppendReceipt(r)
		}
		return env.formatter.Success(AppendResult{
			Channel:  string(logstore.ChannelReceipts),
			Path:     env.store.Path(logstore.ChannelReceipts),
			Appended: len(receipts),
		})

	default:
		errs, invalid := parseErrorRecords(objects, now, validator)
		if len(invalid) > 0 {
			return rejectAppend(env.formatter, invalid)
		}
		for _, e := range errs {
			env.store.AppendError(e)
		}
		return env.formatter.Success(AppendResult{
			Channel:  string(logstore.ChannelErrors),
			Path:     env.store.Path(logstore.ChannelErrors),
			Appended: len(errs),
		})
	}
}

func readAppendInput(opts *AppendOptions, cmd *cobra.Command) ([]byte, error) {
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.File, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// splitObjects splits a stream of JSON values. Values may span lines.
func splitObjects(input []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	var out []json.RawMessage
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(out)+1, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func parseReceipts(objects []json.RawMessage, now func() time.Time, v *schema.Validator) ([]record.Receipt, []InvalidInput) {
	var (
		out     []record.Receipt
		invalid []InvalidInput
	)
	for i, raw := range objects {
		var r record.Receipt
		if err := decodeObject(raw, &r); err != nil {
			invalid = append(invalid, InvalidInput{Record: i + 1, Message: err.Error()})
			continue
		}
		if r.Timestamp == "" {
			r.Timestamp = record.FormatTimestamp(now())
		}
		if err := validateEncoded(r, v.ValidateReceipt); err != nil {
			invalid = append(invalid, InvalidInput{Record: i + 1, Message: err.Error()})
			continue
		}
		out = append(out, r)
	}
	return out, invalid
}

func parseErrorRecords(objects []json.RawMessage, now func() time.Time, v *schema.Validator) ([]record.ErrorRecord, []InvalidInput) {
	var (
		out     []record.ErrorRecord
		invalid []InvalidInput
	)
	for i, raw := range objects {
		var e record.ErrorRecord
		if err := decodeObject(raw, &e); err != nil {
			invalid = append(invalid, InvalidInput{Record: i + 1, Message: err.Error()})
			continue
		}
		if e.Timestamp == "" {
			e.Timestamp = record.FormatTimestamp(now())
		}
		if err := validateEncoded(e, v.ValidateError); err != nil {
			invalid = append(invalid, InvalidInput{Record: i + 1, Message: err.Error()})
			continue
		}
		out = append(out, e)
	}
	return out, invalid
}

func decodeObject(raw json.RawMessage, v any) error {
	if len(raw) == 0 || raw[0] != '{' {
		return errors.New("record is not a JSON object")
	}
	return json.Unmarshal(raw, v)
}

// validateEncoded checks the record as it will be written, after stamping.
func validateEncoded(v any, validate func([]byte) error) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return validate(line)
}

func rejectAppend(formatter *OutputFormatter, invalid []InvalidInput) error {
	msg := fmt.Sprintf("%d invalid record(s), nothing appended", len(invalid))
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeInvalidRecord, msg, invalid)
	} else {
		fmt.Fprintf(formatter.Writer, "Error [%s]: %s\n", ErrCodeInvalidRecord, msg)
		for _, in := range invalid {
			fmt.Fprintf(formatter.Writer, "  record %d: %s\n", in.Record, in.Message)
		}
	}
	return NewExitError(ExitCommandError, msg)
}

func (r AppendResult) renderText(w io.Writer, _ bool) {
	fmt.Fprintf(w, "Appended %d record(s) to %s\n", r.Appended, r.Path)
}
