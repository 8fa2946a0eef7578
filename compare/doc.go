// Package compare diffs freshly captured artifacts against their accepted
// baselines and reports divergence.
//
// Comparison is byte-exact on the formatted entry values; there is no
// fuzzy matching. Each artifact yields one Report with a status:
//
//   - StatusNew: no baseline exists yet (passing)
//   - StatusUnchanged: every entry matches the baseline (passing)
//   - StatusChanged: at least one entry added, removed, or changed (failing)
//   - StatusMissing: a baseline exists but the run produced no artifact
//     (failing)
//
// Entry diffs are reported in baseline order first, then current-only
// additions in their insertion order, so output is deterministic and
// reviewable. Comparison never mutates a baseline; only an explicit
// accept operation in the store does.
package compare
