package format

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-drift/standin/pkg/core"
	"github.com/go-drift/standin/pkg/dom"
)

// ErrUnknownPlugin is returned by PluginsByName for a name with no built-in
// plugin.
var ErrUnknownPlugin = errors.New("format: unknown plugin")

// Plugin gives a readable form to values it recognizes.
type Plugin interface {
	// Test reports whether the plugin handles v.
	Test(v any) bool
	// Serialize renders v. It is only called after Test returned true.
	Serialize(v any, opts Options) string
}

// PluginFunc adapts a pair of functions to the Plugin interface.
type PluginFunc struct {
	TestFunc      func(v any) bool
	SerializeFunc func(v any, opts Options) string
}

func (p PluginFunc) Test(v any) bool { return p.TestFunc(v) }

func (p PluginFunc) Serialize(v any, opts Options) string { return p.SerializeFunc(v, opts) }

var (
	// ErrorPlugin renders errors as [Error: message].
	ErrorPlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			_, ok := v.(error)
			return ok && !isNil(v)
		},
		SerializeFunc: func(v any, _ Options) string {
			return "[Error: " + v.(error).Error() + "]"
		},
	}

	// TimePlugin renders time.Time in RFC 3339 with nanoseconds.
	TimePlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			_, ok := v.(time.Time)
			return ok
		},
		SerializeFunc: func(v any, _ Options) string {
			return v.(time.Time).Format(time.RFC3339Nano)
		},
	}

	// DurationPlugin renders time.Duration with its String method.
	DurationPlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			_, ok := v.(time.Duration)
			return ok
		},
		SerializeFunc: func(v any, _ Options) string { return v.(time.Duration).String() },
	}

	// FloatPlugin renders NaN, infinities and negative zero.
	FloatPlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			f, ok := asFloat(v)
			return ok && (math.IsNaN(f) || math.IsInf(f, 0) || (f == 0 && math.Signbit(f)))
		},
		SerializeFunc: func(v any, _ Options) string {
			f, _ := asFloat(v)
			switch {
			case math.IsNaN(f):
				return "NaN"
			case math.IsInf(f, 1):
				return "Infinity"
			case math.IsInf(f, -1):
				return "-Infinity"
			}
			return "-0"
		},
	}

	// FunctionPlugin renders functions by signature instead of address.
	FunctionPlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
		},
		SerializeFunc: func(v any, _ Options) string {
			return "[Function " + reflect.TypeOf(v).String() + "]"
		},
	}

	// WidgetPlugin renders widgets as an empty tag named after their type.
	WidgetPlugin Plugin = PluginFunc{
		TestFunc: core.IsWidget,
		SerializeFunc: func(v any, _ Options) string {
			return "<" + typeName(reflect.TypeOf(v)) + " />"
		},
	}

	// NodePlugin renders DOM nodes as markup.
	NodePlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			n, ok := v.(*dom.Node)
			return ok && n != nil
		},
		SerializeFunc: func(v any, opts Options) string {
			markup := v.(*dom.Node).String()
			if opts.Min {
				return strings.Join(strings.Fields(markup), " ")
			}
			return markup
		},
	}

	// TypePlugin renders reflect.Type values.
	TypePlugin Plugin = PluginFunc{
		TestFunc: func(v any) bool {
			t, ok := v.(reflect.Type)
			return ok && t != nil
		},
		SerializeFunc: func(v any, _ Options) string {
			return "[Type " + v.(reflect.Type).String() + "]"
		},
	}
)

type registered struct {
	name   string
	plugin Plugin
}

var registry = []registered{
	{"error", ErrorPlugin},
	{"time", TimePlugin},
	{"duration", DurationPlugin},
	{"float", FloatPlugin},
	{"function", FunctionPlugin},
	{"widget", WidgetPlugin},
	{"node", NodePlugin},
	{"type", TypePlugin},
}

// AllPlugins returns every built-in plugin in priority order.
func AllPlugins() []Plugin {
	plugins := make([]Plugin, len(registry))
	for i, entry := range registry {
		plugins[i] = entry.plugin
	}
	return plugins
}

// PluginNames returns the names accepted by PluginsByName.
func PluginNames() []string {
	names := make([]string, len(registry))
	for i, entry := range registry {
		names[i] = entry.name
	}
	return names
}

// PluginsByName resolves built-in plugins by name, in the order given.
func PluginsByName(names ...string) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		i := slices.IndexFunc(registry, func(e registered) bool { return e.name == key })
		if i < 0 {
			return nil, fmt.Errorf("%w %q", ErrUnknownPlugin, name)
		}
		plugins = append(plugins, registry[i].plugin)
	}
	return plugins, nil
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	return 0, false
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
