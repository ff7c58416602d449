// Package config resolves the optional standin.yaml settings of a module.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/standin/pkg/format"
)

// FileName is the configuration file looked up at the module root.
const FileName = "standin.yaml"

const (
	// DefaultSnapshotDir is where golden files live, relative to the module root.
	DefaultSnapshotDir = "testdata/snapshots"
	// DefaultUpdateEnv names the environment variable that rewrites golden
	// files instead of comparing them.
	DefaultUpdateEnv = "STANDIN_UPDATE_SNAPSHOTS"
	// SnapshotExt is appended to snapshot names to form file names.
	SnapshotExt = ".snapshot.yaml"
)

// ErrNoModule is returned when no go.mod is found above a directory.
var ErrNoModule = errors.New("not in a Go module (no go.mod found)")

// Config represents the optional standin.yaml configuration.
type Config struct {
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Format    FormatConfig    `yaml:"format"`
}

// SnapshotsConfig contains golden file settings.
type SnapshotsConfig struct {
	Dir       string `yaml:"dir,omitempty"`
	UpdateEnv string `yaml:"update_env,omitempty"`
}

// FormatConfig overrides the property formatter. Unset fields keep the
// defaults of format.DefaultOptions.
type FormatConfig struct {
	Min      *bool    `yaml:"min,omitempty"`
	MaxDepth *int     `yaml:"max_depth,omitempty"`
	Plugins  []string `yaml:"plugins,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	ModuleName  string
	SnapshotDir string
	UpdateEnv   string
	Min         bool
	MaxDepth    int
	Plugins     []string
}

// LoadOptional reads standin.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve finds the module containing dir, loads its standin.yaml (if
// present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	root, err := FindModuleRoot(dir)
	if err != nil {
		return nil, err
	}

	modulePath, err := modulePath(root)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(root)
	if err != nil {
		return nil, err
	}

	snapshotDir := strings.TrimSpace(cfg.Snapshots.Dir)
	if snapshotDir == "" {
		snapshotDir = DefaultSnapshotDir
	}
	if !filepath.IsAbs(snapshotDir) {
		snapshotDir = filepath.Join(root, snapshotDir)
	}

	updateEnv := strings.TrimSpace(cfg.Snapshots.UpdateEnv)
	if updateEnv == "" {
		updateEnv = DefaultUpdateEnv
	}

	defaults := format.DefaultOptions()
	resolved := &Resolved{
		Root:        root,
		ModulePath:  modulePath,
		ModuleName:  moduleName(modulePath),
		SnapshotDir: snapshotDir,
		UpdateEnv:   updateEnv,
		Min:         defaults.Min,
		MaxDepth:    defaults.MaxDepth,
		Plugins:     format.PluginNames(),
	}
	if cfg.Format.Min != nil {
		resolved.Min = *cfg.Format.Min
	}
	if cfg.Format.MaxDepth != nil {
		if *cfg.Format.MaxDepth < 0 {
			return nil, fmt.Errorf("invalid format.max_depth %d: must not be negative", *cfg.Format.MaxDepth)
		}
		resolved.MaxDepth = *cfg.Format.MaxDepth
	}
	if cfg.Format.Plugins != nil {
		if _, err := format.PluginsByName(cfg.Format.Plugins...); err != nil {
			return nil, fmt.Errorf("invalid format.plugins: %w", err)
		}
		resolved.Plugins = cfg.Format.Plugins
	}

	return resolved, nil
}

// FormatOptions returns the formatter options described by r.
func (r *Resolved) FormatOptions() format.Options {
	plugins, err := format.PluginsByName(r.Plugins...)
	if err != nil {
		plugins = format.AllPlugins()
	}
	return format.Options{
		Min:      r.Min,
		MaxDepth: r.MaxDepth,
		Plugins:  plugins,
	}
}

// SnapshotPath returns the golden file path for a snapshot name.
func (r *Resolved) SnapshotPath(name string) string {
	return filepath.Join(r.SnapshotDir, filepath.FromSlash(name)+SnapshotExt)
}

// Updating reports whether the update environment variable asks for golden
// files to be rewritten.
func (r *Resolved) Updating() bool {
	update, err := strconv.ParseBool(os.Getenv(r.UpdateEnv))
	return err == nil && update
}

// FindModuleRoot walks up from dir to the nearest directory holding go.mod.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoModule
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

// moduleName returns the last element of the module path without its major
// version suffix.
func moduleName(modulePath string) string {
	prefix, _, ok := module.SplitPathVersion(modulePath)
	if !ok {
		prefix = modulePath
	}
	parts := strings.Split(prefix, "/")
	return parts[len(parts)-1]
}
