package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egresslabs/egress"
	"github.com/egresslabs/egress/compare"
	"github.com/egresslabs/egress/store"
)

// NamespaceStatus holds the comparison result for one namespace.
type NamespaceStatus struct {
	Namespace string          `json:"namespace"`
	Reports   compare.Reports `json:"reports"`
}

// StatusResult holds the overall status output.
type StatusResult struct {
	Namespaces []NamespaceStatus `json:"namespaces"`
	Regressed  bool              `json:"regressed"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [namespace]",
		Short: "Compare current artifacts against their baselines",
		Long: `Compare the current artifact files from the latest run against the
accepted baselines and report drift.

Exit codes:
  0 - No regressions (new and unchanged artifacts only)
  1 - At least one artifact changed or went missing
  2 - Command error

Examples:
  egress status
  egress status mypkg/numbers
  egress status --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace := ""
			if len(args) == 1 {
				namespace = args[0]
			}
			return runStatus(rootOpts, namespace, cmd)
		},
	}
	return cmd
}

func runStatus(opts *RootOptions, namespace string, cmd *cobra.Command) error {
	st, _, err := openStore(opts)
	if err != nil {
		return err
	}

	namespaces, err := resolveNamespaces(st, namespace)
	if err != nil {
		return err
	}

	result := StatusResult{Namespaces: make([]NamespaceStatus, 0, len(namespaces))}
	for _, ns := range namespaces {
		reports, err := namespaceReports(st, ns)
		if err != nil {
			return WrapExitError(ExitCommandError, "comparing artifacts", err)
		}
		result.Namespaces = append(result.Namespaces, NamespaceStatus{Namespace: ns, Reports: reports})
		if reports.Regressed() {
			result.Regressed = true
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		if err := out.JSON(result); err != nil {
			return err
		}
	} else {
		if len(result.Namespaces) == 0 {
			out.Text("No artifacts found.")
		}
		for _, ns := range result.Namespaces {
			out.Text("namespace: %s", ns.Namespace)
			fmt.Fprint(cmd.OutOrStdout(), ns.Reports.Render())
		}
	}

	if result.Regressed {
		return NewExitError(ExitFailure, "regressions detected")
	}
	return nil
}

// namespaceReports diffs every artifact with a current file against its
// baseline.
//
// Baselines without a current file are not reported here: acceptance
// consumes the current file, so their absence usually means "already
// accepted" rather than "went missing". True missing detection happens
// at session close, where the run's artifact set is known.
func namespaceReports(st *store.Store, namespace string) (compare.Reports, error) {
	currents, err := st.ListCurrent(namespace)
	if err != nil {
		return nil, err
	}

	var reports compare.Reports
	for _, name := range currents {
		current, _, err := st.LoadCurrent(namespace, name)
		if err != nil {
			return nil, err
		}
		baseline, found, err := st.LoadBaseline(namespace, name)
		if err != nil {
			return nil, err
		}
		if !found {
			reports = append(reports, compare.New(name, current.Entries))
		} else {
			reports = append(reports, compare.Diff(name, baseline.Entries, current.Entries))
		}
	}
	return reports, nil
}

// openStore resolves the configuration under the --root directory and
// opens the artifact store it describes.
func openStore(opts *RootOptions) (*store.Store, egress.Config, error) {
	cfg, err := egress.ResolveConfig(opts.Root)
	if err != nil {
		return nil, egress.Config{}, WrapExitError(ExitCommandError, "resolving config", err)
	}
	return store.New(cfg.StoreDir()), cfg, nil
}

func resolveNamespaces(st *store.Store, namespace string) ([]string, error) {
	if namespace != "" {
		if err := store.ValidateNamespace(namespace); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid namespace", err)
		}
		return []string{namespace}, nil
	}
	namespaces, err := st.ListNamespaces()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "listing namespaces", err)
	}
	return namespaces, nil
}
