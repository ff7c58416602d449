package testing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akedrou/textdiff"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/standin/pkg/config"
	"github.com/go-drift/standin/pkg/dom"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the markup rendered into the tester's container.
type Snapshot struct {
	Name   string `yaml:"name,omitempty"`
	Markup string `yaml:"markup"`
}

// CaptureSnapshot captures the markup of the current tree, excluding the
// container itself.
func (t *WidgetTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	if container := t.Container(); container != nil {
		snap.Markup = dom.RenderChildren(container)
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When the configured update
// variable (STANDIN_UPDATE_SNAPSHOTS by default) is set, the file is silently
// updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if s.Name == "" {
		s.Name = t.Name()
	}
	env, updating := updateEnv()
	if updating {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, env, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, env, t.Name())
	}
}

// MatchesSnapshot compares this snapshot against the golden file name in
// the module's configured snapshot directory.
func (s *Snapshot) MatchesSnapshot(t TestingT, name string) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to resolve snapshot dir: %v", err)
		return
	}
	resolved, err := config.Resolve(wd)
	if err != nil {
		t.Fatalf("failed to resolve snapshot dir: %v", err)
		return
	}
	s.MatchesFile(t, resolved.SnapshotPath(name))
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff of the markup of other against this snapshot.
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	if s.Markup == other.Markup {
		return ""
	}
	return textdiff.Unified("expected", "actual", withNewline(other.Markup), withNewline(s.Markup))
}

// updateEnv returns the update variable of the enclosing module and whether
// it is set. Outside a module the default variable is used.
func updateEnv() (string, bool) {
	resolved := &config.Resolved{UpdateEnv: config.DefaultUpdateEnv}
	if wd, err := os.Getwd(); err == nil {
		if r, err := config.Resolve(wd); err == nil {
			resolved = r
		}
	}
	return resolved.UpdateEnv, resolved.Updating()
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func withNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
