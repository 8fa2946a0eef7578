package compare

import (
	"fmt"
	"strings"
)

// Render produces the human-readable form of a report set.
//
// Regressed artifacts are rendered with per-entry detail; passing
// artifacts get a one-line summary. The output is deterministic and is
// what assertion failures and the CLI print.
func (rs Reports) Render() string {
	var b strings.Builder
	for _, r := range rs {
		r.render(&b)
	}
	return b.String()
}

// Render produces the human-readable form of a single report.
func (r Report) Render() string {
	var b strings.Builder
	r.render(&b)
	return b.String()
}

func (r Report) render(b *strings.Builder) {
	switch r.Status {
	case StatusNew:
		fmt.Fprintf(b, "NEW: artifact `%s` has no baseline yet (%d entries captured)\n", r.Artifact, len(r.Entries))
	case StatusUnchanged:
		fmt.Fprintf(b, "OK: artifact `%s` matches the baseline (%d entries)\n", r.Artifact, len(r.Entries))
	case StatusMissing:
		fmt.Fprintf(b, "MISMATCH: artifact `%s` exists in the baseline but was not produced by this run\n", r.Artifact)
		for _, d := range r.Entries {
			fmt.Fprintf(b, "  entry `%s` lost\n    baseline: %s\n", d.Name, d.Old)
		}
	case StatusChanged:
		fmt.Fprintf(b, "MISMATCH: artifact `%s` differs from the baseline\n", r.Artifact)
		for _, d := range r.Entries {
			switch d.Status {
			case EntryChanged:
				fmt.Fprintf(b, "  entry `%s` not the same as the baseline value\n    baseline: %s\n    current:  %s\n", d.Name, d.Old, d.New)
			case EntryAdded:
				fmt.Fprintf(b, "  entry `%s` does not exist in the baseline\n    current:  %s\n", d.Name, d.New)
			case EntryRemoved:
				fmt.Fprintf(b, "  entry `%s` exists in the baseline but was not produced\n    baseline: %s\n", d.Name, d.Old)
			}
		}
	}
}
