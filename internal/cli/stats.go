package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/stats"
)

// StatsResult is the output of the stats command.
type StatsResult struct {
	DataDir string `json:"data_dir"`
	stats.Summary
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize mining results",
		Long: `Summarize receipts and errors: totals, dev-fee share, success rate,
duplicate submissions, a per-address breakdown and the most frequent
rejection messages.

Examples:
  minelog stats
  minelog stats --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	env, err := openEnvironment(opts, cmd)
	if err != nil {
		return err
	}

	summary := stats.Summarize(env.store.ReadAllReceipts(), env.store.ReadAllErrors())
	return env.formatter.Success(StatsResult{
		DataDir: env.store.Dir(),
		Summary: summary,
	})
}

func (r StatsResult) renderText(w io.Writer, _ bool) {
	heading := color.New(color.FgCyan, color.Bold)

	heading.Fprintln(w, "=== Totals ===")
	fmt.Fprintf(w, "  Receipts:      %d (%d user, %d dev fee)\n", r.Receipts, r.UserReceipts, r.DevFeeReceipts)
	fmt.Fprintf(w, "  Errors:        %d\n", r.Errors)
	fmt.Fprintf(w, "  Success rate:  %.1f%%\n", r.SuccessRate*100)
	fmt.Fprintf(w, "  Challenges:    %d\n", r.Challenges)
	fmt.Fprintf(w, "  Duplicates:    %d\n", r.Duplicates)
	fmt.Fprintf(w, "  First receipt: %s\n", orDash(r.FirstReceipt))
	fmt.Fprintf(w, "  Last receipt:  %s\n", orDash(r.LastReceipt))
	fmt.Fprintln(w)

	heading.Fprintln(w, "=== Addresses ===")
	if len(r.Addresses) == 0 {
		fmt.Fprintln(w, "  (no activity)")
	} else {
		width := 0
		for _, a := range r.Addresses {
			width = max(width, len(formatAddress(a.Address, a.AddressIndex)))
		}
		for _, a := range r.Addresses {
			fmt.Fprintf(w, "  %-*s  solutions=%d dev_fee=%d errors=%d\n",
				width, formatAddress(a.Address, a.AddressIndex), a.Solutions, a.DevFee, a.Errors)
		}
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "=== Top Errors ===")
	if len(r.TopErrors) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, e := range r.TopErrors {
		fmt.Fprintf(w, "  %4d  %s\n", e.Count, e.Message)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
