// Package format renders arbitrary Go values as bounded-depth text.
//
// Generic values go through go-spew with sorted map keys and without pointer
// addresses, so output is stable across runs. Plugins give readable forms to
// values a structural dump handles poorly, such as errors, times and
// functions.
package format

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// DefaultMaxDepth is the nesting level past which values are elided.
const DefaultMaxDepth = 3

// Truncated is the marker spew writes in place of elided levels in
// single-line output.
const Truncated = "<max>"

// Options controls Format.
type Options struct {
	// Min selects single-line output. When false, values are dumped one
	// field per line with type annotations.
	Min bool
	// MaxDepth bounds recursion into nested values. Zero or less means
	// unlimited.
	MaxDepth int
	// Plugins are tried in order against each value, at every level, before
	// the generic printer runs.
	Plugins []Plugin
}

// DefaultOptions returns single-line output bounded to DefaultMaxDepth with
// every built-in plugin enabled.
func DefaultOptions() Options {
	return Options{
		Min:      true,
		MaxDepth: DefaultMaxDepth,
		Plugins:  AllPlugins(),
	}
}

// Format renders v according to opts. Plugins and string quoting apply at
// every level the depth bound reaches, so nested callbacks and strings render
// the same way top-level ones do. Output is deterministic except for values
// that own a String or Error method with unstable output.
func Format(v any, opts Options) string {
	p := printer(opts)
	if s, ok := p.serialize(v); ok {
		return s
	}
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	if v == nil {
		return "nil"
	}
	return p.generic(p.prepare(reflect.ValueOf(v), 0, make(map[visit]bool)))
}

type printer Options

func (p printer) serialize(v any) (string, bool) {
	for _, plugin := range p.Plugins {
		if plugin != nil && plugin.Test(v) {
			return plugin.Serialize(v, Options(p)), true
		}
	}
	return "", false
}

func (p printer) config() *spew.ConfigState {
	depth := p.MaxDepth
	if depth < 0 {
		depth = 0
	}
	return &spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                depth,
		SortKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
}

func (p printer) generic(v any) string {
	cs := p.config()
	if p.Min {
		return cs.Sprintf("%v", v)
	}
	return strings.TrimSuffix(cs.Sdump(v), "\n")
}
