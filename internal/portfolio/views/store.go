package views

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// viewsFile is the on-disk document wrapping the persisted custom views
// and the flag overrides applied to built-ins.
type viewsFile struct {
	Views    []SavedView             `json:"views"`
	BuiltIns map[string]BuiltInFlags `json:"builtIns,omitempty"`
}

// Store persists custom views for one profile as a YAML snapshot next
// to the profile's configuration.
type Store struct {
	path string
}

// NewStore creates a store rooted at the given directory, typically
// <config-dir>/<profile>.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "views.yaml")}
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted custom views and built-in flag overrides. A
// missing file is an empty set, not an error: first runs have nothing
// saved yet.
func (s *Store) Load() ([]SavedView, map[string]BuiltInFlags, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read views: %w", err)
	}

	var doc viewsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode views from %s: %w", s.path, err)
	}
	return doc.Views, doc.BuiltIns, nil
}

// Save writes the custom views atomically: the snapshot is written to a
// temp file in the same directory and renamed over the target, so a
// crash mid-write never leaves a truncated file.
func (s *Store) Save(custom []SavedView, builtIns map[string]BuiltInFlags) error {
	data, err := yaml.Marshal(viewsFile{Views: custom, BuiltIns: builtIns})
	if err != nil {
		return fmt.Errorf("encode views: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create views directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "views-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp views file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write views: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp views file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("chmod views file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace views file: %w", err)
	}
	return nil
}
