package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-drift/standin/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show resolved configuration",
		Long: `Show the configuration standin resolves for the current module.

Values come from standin.yaml at the module root when present, and from
defaults otherwise.`,
		Usage: "standin status",
		Run:   runStatus,
	})
}

func runStatus(args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(wd)
	if err != nil {
		return err
	}

	updating := "off"
	if cfg.Updating() {
		updating = "on"
	}

	fmt.Fprintf(stdout, "Module: %s (%s)\n", cfg.ModuleName, cfg.ModulePath)
	fmt.Fprintf(stdout, "Root:   %s\n", cfg.Root)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Snapshots:")
	fmt.Fprintf(stdout, "  %-10s %s\n", "dir:", cfg.SnapshotDir)
	fmt.Fprintf(stdout, "  %-10s %s (%s)\n", "update:", cfg.UpdateEnv, updating)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Format:")
	fmt.Fprintf(stdout, "  %-10s %t\n", "min:", cfg.Min)
	fmt.Fprintf(stdout, "  %-10s %d\n", "max depth:", cfg.MaxDepth)
	fmt.Fprintf(stdout, "  %-10s %s\n", "plugins:", strings.Join(cfg.Plugins, ", "))
	return nil
}
