package egress_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egresslabs/egress"
	"github.com/egresslabs/egress/compare"
	"github.com/egresslabs/egress/store"
)

func testConfig(t *testing.T) egress.Config {
	t.Helper()
	return egress.Config{
		Root:           t.TempDir(),
		ArtifactDir:    "egress/artifacts",
		DisableHistory: true,
	}
}

// runOnce opens a session, captures one serialize entry, and closes it.
func runOnce(t *testing.T, cfg egress.Config, namespace, artifactName, entryName string, value any) *egress.ClosedSession {
	t.Helper()

	session, err := egress.Open(cfg, namespace)
	require.NoError(t, err)

	art, err := session.Artifact(artifactName)
	require.NoError(t, err)
	require.NoError(t, art.InsertSerialize(entryName, value))

	closed, err := session.Close()
	require.NoError(t, err)
	return closed
}

func TestSession_DuplicateArtifactFails(t *testing.T) {
	session, err := egress.Open(testConfig(t), "pkg/dupes")
	require.NoError(t, err)

	_, err = session.Artifact("numbers")
	require.NoError(t, err)

	_, err = session.Artifact("numbers")
	require.Error(t, err)
	assert.True(t, egress.IsDuplicateArtifact(err))
}

func TestSession_RejectsInvalidNames(t *testing.T) {
	_, err := egress.Open(testConfig(t), "../escape")
	require.Error(t, err)

	session, err := egress.Open(testConfig(t), "pkg/names")
	require.NoError(t, err)

	for _, name := range []string{"", "a/b", "numbers.json"} {
		_, err := session.Artifact(name)
		require.Error(t, err, "artifact name %q must be rejected", name)
	}
}

func TestSession_ClosedSessionRejectsCalls(t *testing.T) {
	session, err := egress.Open(testConfig(t), "pkg/closed")
	require.NoError(t, err)

	_, err = session.Close()
	require.NoError(t, err)
	assert.True(t, session.Closed())

	_, err = session.Artifact("late")
	require.Error(t, err)
	assert.True(t, egress.IsSessionClosed(err))

	_, err = session.Close()
	require.Error(t, err)
	assert.True(t, egress.IsSessionClosed(err))
}

func TestSession_FirstRunIsNewAndPassing(t *testing.T) {
	cfg := testConfig(t)

	closed := runOnce(t, cfg, "pkg/numbers", "basic_arithmetic", "1 + 1 (serde)", 1+1)

	reports := closed.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, compare.StatusNew, reports[0].Status)
	assert.True(t, closed.Unregressed())
	require.NoError(t, closed.Err())
	closed.AssertUnregressed(t)
}

func TestSession_UnchangedAfterAccept(t *testing.T) {
	cfg := testConfig(t)
	ns := "pkg/numbers"

	runOnce(t, cfg, ns, "basic_arithmetic", "1 + 1 (serde)", 1+1)

	st := store.New(cfg.StoreDir())
	require.NoError(t, st.Accept(ns, "basic_arithmetic"))

	closed := runOnce(t, cfg, ns, "basic_arithmetic", "1 + 1 (serde)", 1+1)
	reports := closed.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, compare.StatusUnchanged, reports[0].Status)
	closed.AssertUnregressed(t)
}

func TestSession_DetectsChangedEntry(t *testing.T) {
	cfg := testConfig(t)
	ns := "pkg/numbers"

	runOnce(t, cfg, ns, "basic_arithmetic", "1 + 1 (serde)", 2)
	st := store.New(cfg.StoreDir())
	require.NoError(t, st.Accept(ns, "basic_arithmetic"))

	// The "super complex test output" drifted.
	closed := runOnce(t, cfg, ns, "basic_arithmetic", "1 + 1 (serde)", 3)

	reports := closed.Reports()
	require.Len(t, reports, 1)
	require.Equal(t, compare.StatusChanged, reports[0].Status)

	diff := reports[0].Entries[0]
	assert.Equal(t, "1 + 1 (serde)", diff.Name)
	assert.Equal(t, compare.EntryChanged, diff.Status)
	assert.Equal(t, "2", diff.Old)
	assert.Equal(t, "3", diff.New)

	err := closed.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 + 1 (serde)")
	assert.Contains(t, err.Error(), "baseline: 2")
	assert.Contains(t, err.Error(), "current:  3")
}

func TestSession_DetectsMissingArtifact(t *testing.T) {
	cfg := testConfig(t)
	ns := "pkg/numbers"

	runOnce(t, cfg, ns, "basic_arithmetic", "1 + 1 (serde)", 2)
	st := store.New(cfg.StoreDir())
	require.NoError(t, st.Accept(ns, "basic_arithmetic"))

	// A later run produces a different artifact set entirely.
	closed := runOnce(t, cfg, ns, "other_artifact", "entry", 1)

	reports := closed.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, "other_artifact", reports[0].Artifact)
	assert.Equal(t, compare.StatusNew, reports[0].Status)
	assert.Equal(t, "basic_arithmetic", reports[1].Artifact)
	assert.Equal(t, compare.StatusMissing, reports[1].Status)
	assert.False(t, closed.Unregressed())
}

func TestSession_ReportsFollowCreationOrder(t *testing.T) {
	session, err := egress.Open(testConfig(t), "pkg/order")
	require.NoError(t, err)

	for _, name := range []string{"zulu", "alpha", "mike"} {
		art, err := session.Artifact(name)
		require.NoError(t, err)
		require.NoError(t, art.InsertDisplay("k", "v"))
	}

	closed, err := session.Close()
	require.NoError(t, err)

	reports := closed.Reports()
	require.Len(t, reports, 3)
	assert.Equal(t, "zulu", reports[0].Artifact)
	assert.Equal(t, "alpha", reports[1].Artifact)
	assert.Equal(t, "mike", reports[2].Artifact)
}

func TestSession_RecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.DisableHistory = false
	ns := "pkg/audited"

	closed := runOnce(t, cfg, ns, "numbers", "two", 2)

	st := store.New(cfg.StoreDir())
	history, err := store.OpenHistory(st.HistoryPath())
	require.NoError(t, err)
	defer history.Close()

	records, err := history.Runs(context.Background(), ns, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, closed.RunID(), records[0].RunID)
	assert.Equal(t, "numbers", records[0].Artifact)
	assert.Equal(t, "new", records[0].Status)
}

func TestSession_SealedArtifactAfterClose(t *testing.T) {
	session, err := egress.Open(testConfig(t), "pkg/sealing")
	require.NoError(t, err)

	art, err := session.Artifact("numbers")
	require.NoError(t, err)
	require.NoError(t, art.InsertDisplay("k", "v"))

	_, err = session.Close()
	require.NoError(t, err)

	assert.True(t, art.Sealed())
	require.Error(t, art.InsertDisplay("late", "nope"))
}
