package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/logstore"
	"github.com/roach88/minelog/internal/record"
)

// ListOptions holds flags for the receipts and errors commands.
type ListOptions struct {
	*RootOptions
	Tail int
}

// ReceiptList is the output of the receipts command.
type ReceiptList struct {
	Path     string           `json:"path"`
	Receipts []record.Receipt `json:"receipts"`
}

// ErrorList is the output of the errors command.
type ErrorList struct {
	Path   string               `json:"path"`
	Errors []record.ErrorRecord `json:"errors"`
}

// NewReceiptsCommand creates the receipts command.
func NewReceiptsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List accepted solutions",
		Long: `List receipts in the order they were recorded.

Corrupt lines are skipped with a warning on stderr.

Examples:
  minelog receipts
  minelog receipts --tail 20
  minelog receipts --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReceipts(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "only show the last N receipts")
	return cmd
}

// NewErrorsCommand creates the errors command.
func NewErrorsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List rejected submissions",
		Long: `List submission error records in the order they were recorded.

Examples:
  minelog errors
  minelog errors --tail 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErrors(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Tail, "tail", 0, "only show the last N error records")
	return cmd
}

func runReceipts(opts *ListOptions, cmd *cobra.Command) error {
	if err := checkTail(opts, cmd); err != nil {
		return err
	}
	env, err := openEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	var receipts []record.Receipt
	if cmd.Flags().Changed("tail") {
		receipts = env.store.ReadRecentReceipts(opts.Tail)
	} else {
		receipts = env.store.ReadAllReceipts()
	}
	env.formatter.VerboseLog("read %d receipt(s) from %s", len(receipts), env.store.Path(logstore.ChannelReceipts))

	return env.formatter.Success(ReceiptList{
		Path:     env.store.Path(logstore.ChannelReceipts),
		Receipts: receipts,
	})
}

func runErrors(opts *ListOptions, cmd *cobra.Command) error {
	if err := checkTail(opts, cmd); err != nil {
		return err
	}
	env, err := openEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	var errs []record.ErrorRecord
	if cmd.Flags().Changed("tail") {
		errs = env.store.ReadRecentErrors(opts.Tail)
	} else {
		errs = env.store.ReadAllErrors()
	}
	env.formatter.VerboseLog("read %d error record(s) from %s", len(errs), env.store.Path(logstore.ChannelErrors))

	return env.formatter.Success(ErrorList{
		Path:   env.store.Path(logstore.ChannelErrors),
		Errors: errs,
	})
}

func checkTail(opts *ListOptions, cmd *cobra.Command) error {
	if cmd.Flags().Changed("tail") && opts.Tail < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--tail must not be negative, got %d", opts.Tail))
	}
	return nil
}

func (l ReceiptList) renderText(w io.Writer, _ bool) {
	if len(l.Receipts) == 0 {
		fmt.Fprintln(w, "No receipts recorded.")
		return
	}
	for _, r := range l.Receipts {
		fmt.Fprintf(w, "%s  %s  challenge=%s nonce=%s hash=%s",
			r.Timestamp, formatAddress(r.Address, r.AddressIndex), r.ChallengeID, r.Nonce, r.Hash)
		if r.IsDevFee {
			fmt.Fprint(w, "  [dev fee]")
		}
		fmt.Fprintln(w)
	}
}

func (l ErrorList) renderText(w io.Writer, verbose bool) {
	if len(l.Errors) == 0 {
		fmt.Fprintln(w, "No errors recorded.")
		return
	}
	for _, e := range l.Errors {
		fmt.Fprintf(w, "%s  %s  challenge=%s nonce=%s  %s\n",
			e.Timestamp, formatAddress(e.Address, e.AddressIndex), e.ChallengeID, e.Nonce, e.Message)
		if verbose && len(e.Response) > 0 {
			fmt.Fprintf(w, "    response: %s\n", e.Response)
		}
	}
}

// formatAddress renders an address with its sub-account index, e.g. 0xA#3.
func formatAddress(address string, idx *int) string {
	if idx == nil {
		return address
	}
	return address + "#" + strconv.Itoa(*idx)
}
