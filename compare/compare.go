package compare

import "github.com/egresslabs/egress/artifact"

// Status classifies an artifact against its baseline.
type Status string

const (
	// StatusNew means no baseline exists for the artifact yet.
	StatusNew Status = "new"

	// StatusUnchanged means every entry matches the baseline exactly.
	StatusUnchanged Status = "unchanged"

	// StatusChanged means entries were added, removed, or changed.
	StatusChanged Status = "changed"

	// StatusMissing means a baseline exists but the current run produced
	// no artifact under its name.
	StatusMissing Status = "missing"
)

// EntryStatus classifies a single entry within a report.
type EntryStatus string

const (
	// EntryAdded means the entry exists only in the current artifact.
	EntryAdded EntryStatus = "added"

	// EntryRemoved means the entry exists only in the baseline.
	EntryRemoved EntryStatus = "removed"

	// EntryChanged means the entry exists in both but the renderings
	// differ.
	EntryChanged EntryStatus = "changed"

	// EntryUnchanged means the entry matches the baseline exactly.
	EntryUnchanged EntryStatus = "unchanged"
)

// EntryDiff describes one entry's relation to the baseline.
// Old is set for removed/changed/unchanged entries, New for
// added/changed/unchanged entries.
type EntryDiff struct {
	Name   string      `json:"name"`
	Status EntryStatus `json:"status"`
	Old    string      `json:"old,omitempty"`
	New    string      `json:"new,omitempty"`
}

// Report is the comparison outcome for a single artifact.
type Report struct {
	Artifact string      `json:"artifact"`
	Status   Status      `json:"status"`
	Entries  []EntryDiff `json:"entries,omitempty"`
}

// Regressed reports whether this artifact's status fails the run.
// New and unchanged artifacts pass; changed and missing ones fail.
func (r Report) Regressed() bool {
	return r.Status == StatusChanged || r.Status == StatusMissing
}

// New builds the report for an artifact with no baseline. Every entry is
// reported as added, in insertion order.
func New(name string, current []artifact.Entry) Report {
	diffs := make([]EntryDiff, 0, len(current))
	for _, e := range current {
		diffs = append(diffs, EntryDiff{Name: e.Name, Status: EntryAdded, New: e.Value})
	}
	return Report{Artifact: name, Status: StatusNew, Entries: diffs}
}

// Missing builds the report for a baseline whose artifact was not
// produced by the current run. Every baseline entry is reported as
// removed, in baseline order.
func Missing(name string, baseline []artifact.Entry) Report {
	diffs := make([]EntryDiff, 0, len(baseline))
	for _, e := range baseline {
		diffs = append(diffs, EntryDiff{Name: e.Name, Status: EntryRemoved, Old: e.Value})
	}
	return Report{Artifact: name, Status: StatusMissing, Entries: diffs}
}

// Diff compares a current artifact against its baseline entry-by-entry.
//
// Baseline entries are visited first in baseline order and classified as
// removed, changed, or unchanged; current-only entries follow in their
// insertion order as added. An entry counts as changed when either its
// value or its formatting kind differs — the rendering strategy is part
// of the contract, so a kind switch is drift even if the bytes happen to
// match.
func Diff(name string, baseline, current []artifact.Entry) Report {
	currentByName := make(map[string]artifact.Entry, len(current))
	for _, e := range current {
		currentByName[e.Name] = e
	}
	baselineNames := make(map[string]struct{}, len(baseline))

	diffs := make([]EntryDiff, 0, len(baseline)+len(current))
	for _, ref := range baseline {
		baselineNames[ref.Name] = struct{}{}

		cur, ok := currentByName[ref.Name]
		switch {
		case !ok:
			diffs = append(diffs, EntryDiff{Name: ref.Name, Status: EntryRemoved, Old: ref.Value})
		case cur.Value != ref.Value || cur.Kind != ref.Kind:
			diffs = append(diffs, EntryDiff{Name: ref.Name, Status: EntryChanged, Old: ref.Value, New: cur.Value})
		default:
			diffs = append(diffs, EntryDiff{Name: ref.Name, Status: EntryUnchanged, Old: ref.Value, New: cur.Value})
		}
	}
	for _, cur := range current {
		if _, ok := baselineNames[cur.Name]; !ok {
			diffs = append(diffs, EntryDiff{Name: cur.Name, Status: EntryAdded, New: cur.Value})
		}
	}

	status := StatusUnchanged
	for _, d := range diffs {
		if d.Status != EntryUnchanged {
			status = StatusChanged
			break
		}
	}
	return Report{Artifact: name, Status: status, Entries: diffs}
}

// Reports is the aggregate comparison result for a closed session.
type Reports []Report

// Regressed reports whether any artifact in the set fails the run.
func (rs Reports) Regressed() bool {
	for _, r := range rs {
		if r.Regressed() {
			return true
		}
	}
	return false
}

// Err returns a *RegressionError carrying the full report set if any
// artifact regressed, or nil if the run is clean.
func (rs Reports) Err() error {
	if !rs.Regressed() {
		return nil
	}
	return &RegressionError{Reports: rs}
}

// RegressionError is a test-semantic failure, not a system error: the run
// completed, but at least one artifact diverged from its baseline. The
// full report set travels with the error so callers can surface exact
// value differences.
type RegressionError struct {
	Reports Reports
}

// Error implements the error interface with the full rendered report.
func (e *RegressionError) Error() string {
	return e.Reports.Render()
}
