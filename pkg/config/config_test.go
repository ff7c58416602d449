package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/standin/pkg/format"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected empty config (-want +got):\n%s", diff)
	}
}

func TestLoadOptional_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "snapshots: [unclosed")
	if _, err := LoadOptional(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestResolve_Defaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widgets/v2\n\ngo 1.24\n")
	nested := filepath.Join(root, "pkg", "button")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	resolved, err := Resolve(nested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := &Resolved{
		Root:        root,
		ModulePath:  "example.com/widgets/v2",
		ModuleName:  "widgets",
		SnapshotDir: filepath.Join(root, DefaultSnapshotDir),
		UpdateEnv:   DefaultUpdateEnv,
		Min:         true,
		MaxDepth:    format.DefaultMaxDepth,
		Plugins:     format.PluginNames(),
	}
	if diff := cmp.Diff(want, resolved); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Overrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	writeFile(t, filepath.Join(root, FileName), `
snapshots:
  dir: golden
  update_env: UPDATE_GOLDEN
format:
  min: false
  max_depth: 5
  plugins: [error, time]
`)

	resolved, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.SnapshotDir != filepath.Join(root, "golden") {
		t.Errorf("SnapshotDir = %q", resolved.SnapshotDir)
	}
	if resolved.UpdateEnv != "UPDATE_GOLDEN" {
		t.Errorf("UpdateEnv = %q", resolved.UpdateEnv)
	}

	opts := resolved.FormatOptions()
	if opts.Min || opts.MaxDepth != 5 || len(opts.Plugins) != 2 {
		t.Errorf("unexpected format options: min=%v depth=%d plugins=%d", opts.Min, opts.MaxDepth, len(opts.Plugins))
	}
	if got := resolved.SnapshotPath("button/default"); got != filepath.Join(root, "golden", "button", "default"+SnapshotExt) {
		t.Errorf("SnapshotPath = %q", got)
	}
}

func TestResolve_EmptyPluginList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
	writeFile(t, filepath.Join(root, FileName), "format:\n  plugins: []\n")

	resolved, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n := len(resolved.FormatOptions().Plugins); n != 0 {
		t.Errorf("expected no plugins, got %d", n)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		target error
	}{
		{"unknown plugin", "format:\n  plugins: [markdown]\n", format.ErrUnknownPlugin},
		{"negative depth", "format:\n  max_depth: -1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n")
			writeFile(t, filepath.Join(root, FileName), tt.config)

			_, err := Resolve(root)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestResolve_MissingModulePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "go 1.24\n")
	if _, err := Resolve(root); err == nil {
		t.Error("expected error for go.mod without module directive")
	}
}

func TestFindModuleRoot_NoModule(t *testing.T) {
	if _, err := FindModuleRoot(string(filepath.Separator)); !errors.Is(err, ErrNoModule) {
		t.Errorf("expected ErrNoModule, got %v", err)
	}
}

func TestUpdating(t *testing.T) {
	r := &Resolved{UpdateEnv: "STANDIN_TEST_UPDATE"}
	t.Setenv("STANDIN_TEST_UPDATE", "")
	if r.Updating() {
		t.Error("expected unset variable not to update")
	}
	t.Setenv("STANDIN_TEST_UPDATE", "1")
	if !r.Updating() {
		t.Error("expected 1 to update")
	}
	t.Setenv("STANDIN_TEST_UPDATE", "true")
	if !r.Updating() {
		t.Error("expected true to update")
	}
}
