package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/egresslabs/egress/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Limit       int  // max records to show
	Acceptances bool // show baseline acceptances instead of runs
}

// LogResult holds the log command output.
type LogResult struct {
	Runs        []store.RunRecord        `json:"runs,omitempty"`
	Acceptances []store.AcceptanceRecord `json:"acceptances,omitempty"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log [namespace]",
		Short: "Show run and acceptance history",
		Long: `Show the ledger of session runs and baseline acceptances, newest
first.

Examples:
  egress log
  egress log mypkg/numbers --limit 50
  egress log --acceptances`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace := ""
			if len(args) == 1 {
				namespace = args[0]
			}
			return runLog(opts, namespace, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum records to show (0 = all)")
	cmd.Flags().BoolVar(&opts.Acceptances, "acceptances", false, "show baseline acceptances instead of runs")

	return cmd
}

func runLog(opts *LogOptions, namespace string, cmd *cobra.Command) error {
	st, _, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if _, err := os.Stat(st.HistoryPath()); os.IsNotExist(err) {
		if opts.Format == "json" {
			return out.JSON(LogResult{})
		}
		out.Text("No history recorded yet.")
		return nil
	}

	history, err := store.OpenHistory(st.HistoryPath())
	if err != nil {
		return WrapExitError(ExitCommandError, "opening history", err)
	}
	defer history.Close()

	ctx := context.Background()
	var result LogResult
	if opts.Acceptances {
		result.Acceptances, err = history.Acceptances(ctx, namespace, opts.Limit)
	} else {
		result.Runs, err = history.Runs(ctx, namespace, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "querying history", err)
	}

	if opts.Format == "json" {
		return out.JSON(result)
	}
	if opts.Acceptances {
		if len(result.Acceptances) == 0 {
			out.Text("No acceptances recorded.")
			return nil
		}
		for _, a := range result.Acceptances {
			out.Text("%s  accepted %s/%s  (run %s)", a.AcceptedAt, a.Namespace, a.Artifact, a.RunID)
		}
		return nil
	}
	if len(result.Runs) == 0 {
		out.Text("No runs recorded.")
		return nil
	}
	for _, r := range result.Runs {
		out.Text("%s  %-9s %s/%s  (run %s)", r.RecordedAt, r.Status, r.Namespace, r.Artifact, r.RunID)
	}
	return nil
}
