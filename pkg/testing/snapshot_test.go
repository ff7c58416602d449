package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/standin/pkg/config"
	"github.com/go-drift/standin/pkg/core"
)

func TestCaptureSnapshot_Markup(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(core.Host{Tag: "p", TestID: "para", Children: []core.Widget{core.Text{Content: "a < b"}}})

	snap := tester.CaptureSnapshot()
	want := "<p data-testid=\"para\">\n  a &lt; b\n</p>"
	if snap.Markup != want {
		t.Errorf("Markup = %q, want %q", snap.Markup, want)
	}
}

func TestCaptureSnapshot_Empty(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	if snap := tester.CaptureSnapshot(); snap.Markup != "" {
		t.Errorf("expected empty markup before pumping, got %q", snap.Markup)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	a := &Snapshot{Markup: "<p />"}
	if diff := a.Diff(&Snapshot{Markup: "<p />"}); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
	diff := a.Diff(&Snapshot{Markup: "<b />"})
	if !strings.Contains(diff, "-<b />") || !strings.Contains(diff, "+<p />") {
		t.Errorf("expected unified diff, got:\n%s", diff)
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv(config.DefaultUpdateEnv, "")
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{Initial: 3})

	snap := tester.CaptureSnapshot()
	path := filepath.Join(t.TempDir(), "testdata", "counter.snapshot.yaml")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal("snapshot file should exist after UpdateFile")
	}
	if !strings.Contains(string(data), "markup:") {
		t.Errorf("expected YAML golden file, got:\n%s", data)
	}

	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv(config.DefaultUpdateEnv, "")
	snap := &Snapshot{Markup: "<p />"}

	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	snap.MatchesFile(sub, filepath.Join(t.TempDir(), "missing.snapshot.yaml"))

	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv(config.DefaultUpdateEnv, "")
	tester := NewWidgetTesterWithT(t)

	tester.PumpWidget(counter{Initial: 1})
	first := tester.CaptureSnapshot()
	path := filepath.Join(t.TempDir(), "snap.snapshot.yaml")
	if err := first.UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	tester.PumpWidget(counter{Initial: 2})
	second := tester.CaptureSnapshot()

	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	second.MatchesFile(sub, path)

	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	snap := &Snapshot{Markup: "<p />"}
	path := filepath.Join(t.TempDir(), "update.snapshot.yaml")

	t.Setenv(config.DefaultUpdateEnv, "1")
	snap.MatchesFile(t, path)

	loaded, err := loadSnapshot(path)
	if err != nil {
		t.Fatalf("snapshot file should be created in update mode: %v", err)
	}
	if loaded.Name != t.Name() || loaded.Markup != "<p />" {
		t.Errorf("unexpected golden file contents: %+v", loaded)
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
