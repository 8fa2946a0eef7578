package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/egresslabs/egress/artifact"
)

// FormatVersion is the current artifact file format version.
//
// Version history:
//
//	1 - Initial format: {format_version, artifact, run_id, entries}
const FormatVersion = 1

const (
	baselineExt = ".json"
	currentExt  = ".current.json"
	tmpExt      = ".tmp"

	// historyFile is the acceptance/run ledger, kept alongside the
	// namespaces in the store root.
	historyFile = "history.db"
)

// File is the persisted shape of a single artifact.
//
// Entries keep their insertion order; RunID identifies the run that
// produced the file and is ignored by comparison.
type File struct {
	FormatVersion int              `json:"format_version"`
	Artifact      string           `json:"artifact"`
	RunID         string           `json:"run_id,omitempty"`
	Entries       []artifact.Entry `json:"entries"`
}

// Store persists and loads artifact files under a root directory.
// It is the only component that reads or writes artifact files.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created lazily on
// the first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store root directory.
func (s *Store) Dir() string {
	return s.dir
}

// HistoryPath returns the path of the acceptance/run ledger database.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.dir, historyFile)
}

// BaselinePath returns the baseline file path for an artifact.
func (s *Store) BaselinePath(namespace, name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(namespace), name+baselineExt)
}

// CurrentPath returns the current file path for an artifact.
func (s *Store) CurrentPath(namespace, name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(namespace), name+currentExt)
}

// ValidateName checks that name is usable as an artifact file stem:
// non-empty, no path separators, and no extension. The stem rule keeps
// the name→path mapping stable and collision-free.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("artifact name must not be empty")
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("artifact name %q must not contain path separators", name)
	case name == "." || name == "..":
		return fmt.Errorf("artifact name %q is reserved", name)
	case filepath.Ext(name) != "":
		return fmt.Errorf("artifact name %q must be a bare file stem (no extension)", name)
	}
	return nil
}

// ValidateNamespace checks that namespace is a clean, relative,
// slash-separated path. Namespaces may nest (mirroring package paths),
// but must stay inside the store root.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	for _, seg := range strings.Split(namespace, "/") {
		switch seg {
		case "", ".", "..":
			return fmt.Errorf("namespace %q must be a clean relative path", namespace)
		}
	}
	return nil
}

// SaveCurrent serializes a sealed artifact to its current file,
// overwriting any previous run's current file. The baseline file is never
// written by this path.
//
// The file is written to a temporary sibling, synced, and renamed into
// place so a crashed run cannot leave a half-written current file.
func (s *Store) SaveCurrent(namespace string, art *artifact.Artifact, runID string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	if err := ValidateName(art.Name()); err != nil {
		return err
	}
	if !art.Sealed() {
		return fmt.Errorf("store save: artifact %q is not sealed", art.Name())
	}

	f := File{
		FormatVersion: FormatVersion,
		Artifact:      art.Name(),
		RunID:         runID,
		Entries:       art.Entries(),
	}
	return s.writeFile(s.CurrentPath(namespace, art.Name()), f)
}

// LoadBaseline reads the accepted baseline for an artifact. A missing
// baseline is the expected state for a brand-new artifact, so it is
// reported as found=false rather than an error.
func (s *Store) LoadBaseline(namespace, name string) (*File, bool, error) {
	return s.readFile(s.BaselinePath(namespace, name))
}

// LoadCurrent reads the current file for an artifact, if one exists.
func (s *Store) LoadCurrent(namespace, name string) (*File, bool, error) {
	return s.readFile(s.CurrentPath(namespace, name))
}

// Accept promotes an artifact's current file to become its new baseline.
//
// This is the only path by which a baseline changes; comparison never
// invokes it. Promotion is a same-directory rename, which is atomic, so
// an interrupted accept leaves either the old baseline or the new one,
// never a torn file.
func (s *Store) Accept(namespace, name string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	current := s.CurrentPath(namespace, name)
	if _, err := os.Stat(current); err != nil {
		if os.IsNotExist(err) {
			return &IOError{Op: "accept", Path: current, Err: fmt.Errorf("no current artifact file to promote")}
		}
		return &IOError{Op: "accept", Path: current, Err: err}
	}

	baseline := s.BaselinePath(namespace, name)
	if err := os.Rename(current, baseline); err != nil {
		return &IOError{Op: "accept", Path: baseline, Err: err}
	}
	return nil
}

// ListBaselines returns the sorted artifact names with a baseline file in
// the namespace. A missing namespace directory means no baselines yet.
func (s *Store) ListBaselines(namespace string) ([]string, error) {
	return s.list(namespace, func(file string) (string, bool) {
		if strings.HasSuffix(file, currentExt) || !strings.HasSuffix(file, baselineExt) {
			return "", false
		}
		return strings.TrimSuffix(file, baselineExt), true
	})
}

// ListCurrent returns the sorted artifact names with a current file in
// the namespace.
func (s *Store) ListCurrent(namespace string) ([]string, error) {
	return s.list(namespace, func(file string) (string, bool) {
		if !strings.HasSuffix(file, currentExt) {
			return "", false
		}
		return strings.TrimSuffix(file, currentExt), true
	})
}

// ListNamespaces walks the store root and returns every namespace (in
// sorted slash form) that holds at least one artifact file.
func (s *Store) ListNamespaces() ([]string, error) {
	seen := make(map[string]struct{})
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), baselineExt) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, filepath.Dir(path))
		if err != nil {
			return err
		}
		if rel != "." {
			seen[filepath.ToSlash(rel)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, &IOError{Op: "list", Path: s.dir, Err: err}
	}

	namespaces := make([]string, 0, len(seen))
	for ns := range seen {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

func (s *Store) list(namespace string, match func(string) (string, bool)) ([]string, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.dir, filepath.FromSlash(namespace))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := match(e.Name()); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// writeFile marshals f as indented JSON (HTML escaping disabled, keeping
// files diffable) and atomically replaces path with the result.
func (s *Store) writeFile(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	tmp := path + tmpExt
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &IOError{Op: "save", Path: tmp, Err: err}
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		out.Close()
		os.Remove(tmp)
		return &IOError{Op: "save", Path: tmp, Err: err}
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tmp)
		return &IOError{Op: "save", Path: tmp, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "save", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func (s *Store) readFile(path string) (*File, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &IOError{Op: "load", Path: path, Err: err}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, &IOError{Op: "load", Path: path, Err: err}
	}
	if f.FormatVersion > FormatVersion {
		return nil, false, &IOError{
			Op:   "load",
			Path: path,
			Err:  fmt.Errorf("format_version %d is newer than supported version %d", f.FormatVersion, FormatVersion),
		}
	}
	return &f, true, nil
}
