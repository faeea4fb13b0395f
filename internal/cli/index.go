package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/index"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Database string
}

// IndexResult is the output of the index command.
type IndexResult struct {
	Path      string               `json:"path"`
	Build     index.BuildInfo      `json:"build"`
	Totals    index.Totals         `json:"totals"`
	Addresses []index.AddressTotal `json:"addresses"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the SQLite index from the logs",
		Long: `Read both logs and replace the contents of the SQLite index with them.

The index is a derived copy for ad-hoc SQL. The JSONL logs remain the
source of truth; the index can be deleted and rebuilt at any time.

Examples:
  minelog index
  minelog index --db ./mining.db
  sqlite3 ./mining.db 'SELECT address, COUNT(*) FROM receipts GROUP BY 1'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite index (default <data-dir>/index.db)")
	return cmd
}

func runIndex(opts *IndexOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	env, err := openEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	path := opts.Database
	if path == "" {
		path = env.cfg.IndexPath()
	}

	ix, err := index.Open(path)
	if err != nil {
		_ = env.formatter.Error(ErrCodeIndex, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open index", err)
	}
	defer ix.Close()

	build, err := ix.Rebuild(ctx, env.store.ReadAllReceipts(), env.store.ReadAllErrors())
	if err != nil {
		_ = env.formatter.Error(ErrCodeIndex, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to rebuild index", err)
	}
	env.logger.Debug("index rebuilt", "build", build.ID, "receipts", build.Receipts, "errors", build.Errors)

	totals, err := ix.Totals(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query index", err)
	}
	addresses, err := ix.AddressTotals(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query index", err)
	}

	return env.formatter.Success(IndexResult{
		Path:      path,
		Build:     build,
		Totals:    totals,
		Addresses: addresses,
	})
}

func (r IndexResult) renderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "Indexed %d receipt(s) and %d error(s) into %s\n", r.Build.Receipts, r.Build.Errors, r.Path)
	if verbose {
		fmt.Fprintf(w, "  Build:      %s\n", r.Build.ID)
	}
	fmt.Fprintf(w, "  Dev fee:    %d\n", r.Totals.DevFeeReceipts)
	fmt.Fprintf(w, "  Challenges: %d\n", r.Totals.Challenges)
	fmt.Fprintf(w, "  Duplicates: %d\n", r.Totals.Duplicates)
	fmt.Fprintf(w, "  Addresses:  %d\n", len(r.Addresses))
}
