package egress

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/egresslabs/egress/artifact"
	"github.com/egresslabs/egress/compare"
	"github.com/egresslabs/egress/store"
)

// Session orchestrates artifact capture for one test run.
//
// A session is Active until Close, which seals and persists every
// artifact, runs the comparison against the baselines, and returns the
// terminal ClosedSession. One session per logical test run; sessions are
// not safe for concurrent use, and concurrent tests must use distinct
// namespaces to avoid colliding on the same files.
type Session struct {
	cfg       Config
	namespace string
	runID     string
	logger    *slog.Logger
	store     *store.Store

	closed    bool
	order     []string
	artifacts map[string]*artifact.Artifact
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. By default logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Open creates a session over the store described by cfg, scoped to the
// given namespace. The namespace is the per-test artifact directory,
// conventionally the package import path of the test.
func Open(cfg Config, namespace string, opts ...Option) (*Session, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return nil, newInvalidNameError(namespace, err)
	}

	s := &Session{
		cfg:       cfg,
		namespace: namespace,
		runID:     uuid.NewString(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		store:     store.New(cfg.StoreDir()),
		artifacts: make(map[string]*artifact.Artifact),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunID returns the unique identifier for this run, stamped into every
// current file and the history ledger.
func (s *Session) RunID() string {
	return s.runID
}

// Namespace returns the session's artifact namespace.
func (s *Session) Namespace() string {
	return s.namespace
}

// Artifact creates and returns a new open artifact owned by this
// session. Fails with a duplicate-artifact error if the name was already
// used, and with a closed-session error after Close.
func (s *Session) Artifact(name string) (*artifact.Artifact, error) {
	if s.closed {
		return nil, newSessionClosedError()
	}
	if err := store.ValidateName(name); err != nil {
		return nil, newInvalidNameError(name, err)
	}
	if _, exists := s.artifacts[name]; exists {
		return nil, newDuplicateArtifactError(name)
	}

	art := artifact.New(name)
	s.artifacts[name] = art
	s.order = append(s.order, name)
	return art, nil
}

// Close seals every outstanding artifact, persists each as the run's
// current file, compares all of them against their baselines, and
// returns the terminal ClosedSession. Baselines present in the store but
// absent from this session are reported as missing.
//
// Reports appear in artifact creation order, followed by missing
// baselines in name order. After Close the session accepts no further
// calls.
func (s *Session) Close() (*ClosedSession, error) {
	if s.closed {
		return nil, newSessionClosedError()
	}
	s.closed = true

	reports := make(compare.Reports, 0, len(s.order))
	for _, name := range s.order {
		art := s.artifacts[name]
		art.Seal()

		if err := s.store.SaveCurrent(s.namespace, art, s.runID); err != nil {
			return nil, err
		}

		baseline, found, err := s.store.LoadBaseline(s.namespace, name)
		if err != nil {
			return nil, err
		}
		var report compare.Report
		if !found {
			report = compare.New(name, art.Entries())
		} else {
			report = compare.Diff(name, baseline.Entries, art.Entries())
		}
		reports = append(reports, report)

		s.logger.Debug("artifact compared",
			"namespace", s.namespace,
			"artifact", name,
			"status", string(report.Status),
			"entries", art.Len(),
		)
	}

	// Baselines with no artifact in this run are regressions too: the
	// test stopped producing something it used to produce.
	baselines, err := s.store.ListBaselines(s.namespace)
	if err != nil {
		return nil, err
	}
	for _, name := range baselines {
		if _, produced := s.artifacts[name]; produced {
			continue
		}
		baseline, found, err := s.store.LoadBaseline(s.namespace, name)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		reports = append(reports, compare.Missing(name, baseline.Entries))
		s.logger.Debug("baseline not produced", "namespace", s.namespace, "artifact", name)
	}

	if !s.cfg.DisableHistory {
		if err := s.recordHistory(reports); err != nil {
			return nil, err
		}
	}

	return &ClosedSession{runID: s.runID, reports: reports}, nil
}

func (s *Session) recordHistory(reports compare.Reports) error {
	history, err := store.OpenHistory(s.store.HistoryPath())
	if err != nil {
		return err
	}
	defer history.Close()
	return history.RecordRun(context.Background(), s.runID, s.namespace, reports)
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// ClosedSession is the terminal comparison handle returned by Close.
type ClosedSession struct {
	runID   string
	reports compare.Reports
}

// RunID returns the identifier of the run that produced this result.
func (c *ClosedSession) RunID() string {
	return c.runID
}

// Reports returns the per-artifact regression reports.
func (c *ClosedSession) Reports() compare.Reports {
	return c.reports
}

// Unregressed reports whether every artifact passed (new or unchanged).
func (c *ClosedSession) Unregressed() bool {
	return !c.reports.Regressed()
}

// Err returns a *compare.RegressionError carrying the full report set if
// any artifact regressed, or nil for a clean run.
func (c *ClosedSession) Err() error {
	return c.reports.Err()
}

// AssertUnregressed fails the test with the full rendered report if any
// artifact's status is changed or missing. New and unchanged artifacts
// pass.
func (c *ClosedSession) AssertUnregressed(t testing.TB) {
	t.Helper()
	if err := c.reports.Err(); err != nil {
		t.Fatalf("regression detected:\n%s", err.Error())
	}
}
