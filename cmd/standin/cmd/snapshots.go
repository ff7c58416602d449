package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/standin/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "snapshots",
		Short: "List golden snapshot files",
		Long: `List the golden snapshot files under the module's snapshot directory.

Names are printed relative to the directory and without the .snapshot.yaml
extension, as accepted by Snapshot.MatchesSnapshot.`,
		Usage: "standin snapshots",
		Run:   runSnapshots,
	})
}

func runSnapshots(args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(wd)
	if err != nil {
		return err
	}

	names, err := snapshotNames(cfg.SnapshotDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(stdout, "No snapshots in %s\n", cfg.SnapshotDir)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

// snapshotNames returns the snapshot names under dir in lexical order. A
// missing directory has no snapshots.
func snapshotNames(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, config.SnapshotExt) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, config.SnapshotExt)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return names, nil
}
