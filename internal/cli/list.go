package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

// ListEntry describes one artifact's presence in the store.
type ListEntry struct {
	Namespace   string `json:"namespace"`
	Artifact    string `json:"artifact"`
	HasBaseline bool   `json:"has_baseline"`
	HasCurrent  bool   `json:"has_current"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [namespace]",
		Short: "List artifacts in the store",
		Long: `List every artifact in the store with its baseline/current file
presence.

Examples:
  egress list
  egress list mypkg/numbers --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace := ""
			if len(args) == 1 {
				namespace = args[0]
			}
			return runList(rootOpts, namespace, cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, namespace string, cmd *cobra.Command) error {
	st, _, err := openStore(opts)
	if err != nil {
		return err
	}

	namespaces, err := resolveNamespaces(st, namespace)
	if err != nil {
		return err
	}

	var entries []ListEntry
	for _, ns := range namespaces {
		baselines, err := st.ListBaselines(ns)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing baselines", err)
		}
		currents, err := st.ListCurrent(ns)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing current artifacts", err)
		}

		hasBaseline := make(map[string]bool, len(baselines))
		names := make(map[string]struct{}, len(baselines)+len(currents))
		for _, n := range baselines {
			hasBaseline[n] = true
			names[n] = struct{}{}
		}
		hasCurrent := make(map[string]bool, len(currents))
		for _, n := range currents {
			hasCurrent[n] = true
			names[n] = struct{}{}
		}

		sorted := make([]string, 0, len(names))
		for n := range names {
			sorted = append(sorted, n)
		}
		sort.Strings(sorted)

		for _, n := range sorted {
			entries = append(entries, ListEntry{
				Namespace:   ns,
				Artifact:    n,
				HasBaseline: hasBaseline[n],
				HasCurrent:  hasCurrent[n],
			})
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.JSON(entries)
	}
	if len(entries) == 0 {
		out.Text("No artifacts found.")
		return nil
	}
	for _, e := range entries {
		marker := ""
		switch {
		case e.HasBaseline && e.HasCurrent:
			marker = "baseline+current"
		case e.HasBaseline:
			marker = "baseline"
		case e.HasCurrent:
			marker = "current (unaccepted)"
		}
		out.Text("%s/%s  [%s]", e.Namespace, e.Artifact, marker)
	}
	return nil
}
