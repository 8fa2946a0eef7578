// Package artifact defines the data captured by a regression session.
//
// An Artifact is a named, ordered collection of entries produced by one
// logical test. Each entry is a formatted string rendering of a value,
// produced under one of three formatting kinds:
//
//   - KindSerialize: canonical JSON rendering, stable across refactors
//     that do not change data shape
//   - KindDebug: implementation-oriented Go-syntax dump, intentionally
//     brittle
//   - KindDisplay: the value's user-facing textual form
//
// Artifacts follow a two-state lifecycle: Open (accepting inserts) and
// Sealed (immutable, terminal). The owning session seals every artifact
// at close time before it is persisted and compared.
package artifact
