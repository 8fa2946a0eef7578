// Package store persists artifacts as versioned JSON files and owns the
// baseline/current separation at the heart of regression detection.
//
// # Layout
//
// One file per (namespace, artifact name), under the store root:
//
//	<root>/<namespace>/<name>.json          baseline (accepted)
//	<root>/<namespace>/<name>.current.json  current (rewritten every run)
//	<root>/history.db                       acceptance/run ledger (SQLite)
//
// Current files are overwritten on every run. Baseline files change only
// through Accept, which atomically promotes the current file via rename —
// comparison never touches them. This pair is the durable contract of the
// engine and the files are plain indented JSON so failures can be
// inspected with ordinary diff tools.
//
// # Format versioning
//
// Every artifact file carries a format_version tag. Readers reject files
// written by a newer format so historical baselines are never corrupted
// by a partial migration.
package store
