package artifact

// Entry is a single named, formatted value within an artifact.
//
// Entries are immutable once inserted. The struct is also the persisted
// wire shape: field names and the Kind string forms are part of the
// artifact file format.
type Entry struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// Artifact is an ordered mapping from entry name to formatted value,
// scoped to one logical test.
//
// Artifacts are created by a session, mutated only through Insert, and
// sealed exactly once when the session closes. Not safe for concurrent
// use; a session belongs to a single test execution context.
type Artifact struct {
	name    string
	sealed  bool
	entries []Entry
	index   map[string]int
}

// New creates an empty, open artifact with the given name.
func New(name string) *Artifact {
	return &Artifact{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the artifact name.
func (a *Artifact) Name() string {
	return a.name
}

// Insert formats value under the given kind and appends it as a named
// entry, preserving insertion order.
//
// Fails with a sealed-artifact error after Seal, a duplicate-entry error
// if name is already present, and a format error if the value cannot be
// rendered. On any failure the entry set is unchanged.
func (a *Artifact) Insert(name string, value any, kind Kind) error {
	if a.sealed {
		return newSealedError(a.name, name)
	}
	if _, exists := a.index[name]; exists {
		return newDuplicateEntryError(a.name, name)
	}

	rendered, err := Format(value, kind)
	if err != nil {
		return err
	}

	a.index[name] = len(a.entries)
	a.entries = append(a.entries, Entry{Name: name, Kind: kind, Value: rendered})
	return nil
}

// InsertSerialize inserts value rendered as canonical JSON.
func (a *Artifact) InsertSerialize(name string, value any) error {
	return a.Insert(name, value, KindSerialize)
}

// InsertDebug inserts value rendered as a Go-syntax debug dump.
func (a *Artifact) InsertDebug(name string, value any) error {
	return a.Insert(name, value, KindDebug)
}

// InsertDisplay inserts value rendered in its user-facing textual form.
func (a *Artifact) InsertDisplay(name string, value any) error {
	return a.Insert(name, value, KindDisplay)
}

// Seal transitions the artifact to its terminal immutable state.
// Further Insert calls fail with a sealed-artifact error. Sealing an
// already-sealed artifact is a no-op.
func (a *Artifact) Seal() {
	a.sealed = true
}

// Sealed reports whether the artifact has been sealed.
func (a *Artifact) Sealed() bool {
	return a.sealed
}

// Len returns the number of entries.
func (a *Artifact) Len() int {
	return len(a.entries)
}

// Entry returns the entry with the given name, if present.
func (a *Artifact) Entry(name string) (Entry, bool) {
	i, ok := a.index[name]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Entries returns a copy of the entries in insertion order.
func (a *Artifact) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}
