package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/standin/pkg/config"
	"github.com/go-drift/standin/pkg/format"
)

func init() {
	RegisterCommand(&Command{
		Name:  "format",
		Short: "Preview the rendering of a property value",
		Long: `Decode a YAML or JSON value and print it the way a stand-in renders a
non-widget property.

The value is read from the named file, or from standard input when no file
is given. Options default to the format section of standin.yaml when run
inside a module.

Flags:
  --depth N   Maximum nesting depth (0 for unlimited)
  --pretty    Multi-line output with type annotations`,
		Usage: "standin format [--depth N] [--pretty] [file]",
		Run:   runFormat,
	})
}

func runFormat(args []string) error {
	opts, err := formatOptions()
	if err != nil {
		return err
	}

	var path string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--pretty":
			opts.Min = false
		case arg == "--depth":
			if i+1 >= len(args) {
				return fmt.Errorf("--depth requires a value")
			}
			i++
			if opts.MaxDepth, err = parseDepth(args[i]); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "--depth="):
			if opts.MaxDepth, err = parseDepth(strings.TrimPrefix(arg, "--depth=")); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag %q", arg)
		case path != "":
			return fmt.Errorf("unexpected argument %q", arg)
		default:
			path = arg
		}
	}

	var data []byte
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}

	fmt.Fprintln(stdout, format.Format(value, opts))
	return nil
}

// formatOptions returns the module's configured options, or the defaults
// outside a module.
func formatOptions() (format.Options, error) {
	wd, err := os.Getwd()
	if err != nil {
		return format.Options{}, err
	}
	resolved, err := config.Resolve(wd)
	if errors.Is(err, config.ErrNoModule) {
		return format.DefaultOptions(), nil
	}
	if err != nil {
		return format.Options{}, err
	}
	return resolved.FormatOptions(), nil
}

func parseDepth(s string) (int, error) {
	depth, err := strconv.Atoi(s)
	if err != nil || depth < 0 {
		return 0, fmt.Errorf("invalid depth %q: must be a non-negative integer", s)
	}
	return depth, nil
}
