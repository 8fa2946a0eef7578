// Package egress is a snapshot-regression engine for Go tests.
//
// A test opens a Session, captures named artifacts of formatted values,
// and closes the session. Closing seals every artifact, persists each as
// the run's "current" file, and diffs it against the previously accepted
// baseline. Divergence fails the test with a full report; baselines only
// ever change through an explicit accept (via the egress CLI or
// store.Store.Accept), never as a side effect of comparison.
//
// Typical usage:
//
//	func TestNumbers(t *testing.T) {
//		cfg, err := egress.ResolveConfig(".")
//		if err != nil {
//			t.Fatal(err)
//		}
//		session, err := egress.Open(cfg, "numbers")
//		if err != nil {
//			t.Fatal(err)
//		}
//
//		art, err := session.Artifact("basic_arithmetic")
//		if err != nil {
//			t.Fatal(err)
//		}
//		if err := art.InsertSerialize("1 + 1 (serde)", 1+1); err != nil {
//			t.Fatal(err)
//		}
//
//		closed, err := session.Close()
//		if err != nil {
//			t.Fatal(err)
//		}
//		closed.AssertUnregressed(t)
//	}
//
// On the first run every artifact reports as new and passes. Accepting
// promotes the current files to baselines; later runs fail whenever an
// entry's rendering drifts from the accepted bytes.
package egress
