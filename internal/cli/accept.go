package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egresslabs/egress/store"
)

// AcceptOptions holds flags for the accept command.
type AcceptOptions struct {
	*RootOptions
	All bool // accept every artifact with a current file
}

// AcceptResult holds the accept command output.
type AcceptResult struct {
	Namespace string   `json:"namespace"`
	Accepted  []string `json:"accepted"`
}

// NewAcceptCommand creates the accept command.
func NewAcceptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AcceptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "accept <namespace> [artifact...]",
		Short: "Promote current artifacts to baselines",
		Long: `Promote the named artifacts' current files to become the accepted
baselines. This is the only operation that changes baselines; a plain
test run never does.

Examples:
  egress accept mypkg/numbers basic_arithmetic
  egress accept mypkg/numbers --all`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccept(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "accept every artifact with a current file")

	return cmd
}

func runAccept(opts *AcceptOptions, namespace string, names []string, cmd *cobra.Command) error {
	st, cfg, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	if err := store.ValidateNamespace(namespace); err != nil {
		return WrapExitError(ExitCommandError, "invalid namespace", err)
	}

	if opts.All {
		if len(names) > 0 {
			return NewExitError(ExitCommandError, "--all cannot be combined with artifact names")
		}
		names, err = st.ListCurrent(namespace)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing current artifacts", err)
		}
		if len(names) == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("no current artifacts in namespace %q", namespace))
		}
	} else if len(names) == 0 {
		return NewExitError(ExitCommandError, "name at least one artifact or pass --all")
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	result := AcceptResult{Namespace: namespace, Accepted: make([]string, 0, len(names))}

	for _, name := range names {
		// Read the run ID off the current file before the rename
		// consumes it, so the ledger can tie the acceptance to the run
		// that produced the bytes.
		current, found, err := st.LoadCurrent(namespace, name)
		if err != nil {
			return WrapExitError(ExitCommandError, "reading current artifact", err)
		}
		if !found {
			return NewExitError(ExitCommandError, fmt.Sprintf("no current file for artifact %q in namespace %q", name, namespace))
		}

		if err := st.Accept(namespace, name); err != nil {
			return WrapExitError(ExitCommandError, "accepting artifact", err)
		}
		result.Accepted = append(result.Accepted, name)
		out.VerboseLog("accepted %s/%s (run %s)", namespace, name, current.RunID)

		if !cfg.DisableHistory {
			if err := recordAcceptance(st, namespace, name, current.RunID); err != nil {
				return WrapExitError(ExitCommandError, "recording acceptance", err)
			}
		}
	}

	if opts.Format == "json" {
		return out.JSON(result)
	}
	for _, name := range result.Accepted {
		out.Text("accepted %s/%s", namespace, name)
	}
	return nil
}

func recordAcceptance(st *store.Store, namespace, name, runID string) error {
	history, err := store.OpenHistory(st.HistoryPath())
	if err != nil {
		return err
	}
	defer history.Close()
	return history.RecordAcceptance(context.Background(), namespace, name, runID)
}
