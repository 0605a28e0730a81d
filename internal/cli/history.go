package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/plotstore/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Seq      int64
	Limit    int
	Output   string
}

// HistoryResult lists archived snapshots, newest first.
type HistoryResult struct {
	Snapshots []history.Snapshot `json:"snapshots"`
}

// WriteText implements texter.
func (r HistoryResult) WriteText(w io.Writer) {
	if len(r.Snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots.")
		return
	}
	for _, s := range r.Snapshots {
		fmt.Fprintf(w, "%6d  page %-4d %-7s upid %-7d %7.2fx%-7.2f %s\n",
			s.Seq, s.PageID, s.Reason, s.Upid, s.Width, s.Height, s.Renderer)
	}
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived page snapshots",
		Long: `List the snapshots in a history database, or print one of them.

Example:
  plotstore history --db ./history.db
  plotstore history --db ./history.db --seq 12 -o page.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().Int64Var(&opts.Seq, "seq", 0, "print the body of this snapshot")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "list at most this many snapshots (0 for all)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the snapshot body to a file")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(opts.Database); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	archive, err := history.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer archive.Close()

	if opts.Seq == 0 {
		snaps, err := archive.List(cmd.Context(), opts.Limit)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list snapshots", err)
		}
		return formatter.Success(HistoryResult{Snapshots: snaps})
	}

	snap, err := archive.Get(cmd.Context(), opts.Seq)
	if errors.Is(err, history.ErrNotFound) {
		if outErr := formatter.Error(ErrCodeHistory, fmt.Sprintf("no snapshot %d", opts.Seq), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "snapshot lookup failed", err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read snapshot", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, snap.Body, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return formatter.Success(HistoryResult{Snapshots: []history.Snapshot{snap}})
	}
	_, err = cmd.OutOrStdout().Write(snap.Body)
	return err
}
