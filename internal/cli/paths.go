package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/minelog/internal/logstore"
)

// PathsResult is the output of the paths command.
type PathsResult struct {
	DataDir  string `json:"data_dir"`
	Receipts string `json:"receipts"`
	Errors   string `json:"errors"`
	Index    string `json:"index"`
}

// NewPathsCommand creates the paths command.
func NewPathsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "paths",
		Short:         "Print the resolved data directory and file paths",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(rootOpts, cmd)
			if err != nil {
				return err
			}
			return env.formatter.Success(PathsResult{
				DataDir:  env.store.Dir(),
				Receipts: env.store.Path(logstore.ChannelReceipts),
				Errors:   env.store.Path(logstore.ChannelErrors),
				Index:    env.cfg.IndexPath(),
			})
		},
	}
	return cmd
}

func (r PathsResult) renderText(w io.Writer, _ bool) {
	fmt.Fprintf(w, "data dir: %s\n", r.DataDir)
	fmt.Fprintf(w, "receipts: %s\n", r.Receipts)
	fmt.Fprintf(w, "errors:   %s\n", r.Errors)
	fmt.Fprintf(w, "index:    %s\n", r.Index)
}
