package mock

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/go-drift/standin/pkg/core"
)

// TestIDProp is reserved for internal use and never reaches the rendered
// output or the recorded properties.
const TestIDProp = "_testId"

// structTag renames or skips fields read by Unit.From.
const structTag = "standin"

// Props maps property names to the values a stand-in received.
type Props map[string]any

// Unit is a stand-in component. Widgets created from the same unit share its
// identifier and handle factory.
type Unit struct {
	id     string
	handle func() any
}

// Component returns a stand-in unit addressable as id. If handle is non-nil,
// widgets of this unit forward an attached ref to handle's result. The
// factory runs once per mount, after the first commit.
func Component(id string, handle func() any) *Unit {
	return &Unit{id: id, handle: handle}
}

// ID returns the identifier the unit was created with.
func (u *Unit) ID() string { return u.id }

func (u *Unit) String() string { return u.id }

// With returns a stand-in widget receiving props. The map is copied.
func (u *Unit) With(props Props) Widget {
	names := make([]string, 0, len(props))
	for name := range props {
		if name != TestIDProp {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	entries := make([]entry, len(names))
	for i, name := range names {
		entries[i] = entry{name: name, value: props[name]}
	}
	return Widget{unit: u, entries: entries}
}

// From returns a stand-in widget whose properties are read from v.
//
// Structs contribute their exported, non-embedded fields in declaration
// order. The field tag `standin:"name"` renames a property and `standin:"-"`
// skips it. Maps with string keys contribute their entries in key order. A
// nil pointer gives no properties. Any other value panics.
func (u *Unit) From(v any) Widget {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Widget{unit: u}
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		var entries []entry
		rt := rv.Type()
		for i := range rt.NumField() {
			field := rt.Field(i)
			if !field.IsExported() || field.Anonymous {
				continue
			}
			name := field.Name
			if tag, ok := field.Tag.Lookup(structTag); ok {
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			if name == TestIDProp {
				continue
			}
			entries = setEntry(entries, name, rv.Field(i).Interface())
		}
		return Widget{unit: u, entries: entries}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		props := make(Props, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			props[iter.Key().String()] = iter.Value().Interface()
		}
		return u.With(props)
	}
	panic(fmt.Sprintf("mock: From expects a struct or a string-keyed map, got %T", v))
}

// Widget is a stand-in placed in a widget tree.
type Widget struct {
	unit    *Unit
	entries []entry
	ref     *core.Ref[any]
	key     any
}

type entry struct {
	name  string
	value any
}

func setEntry(entries []entry, name string, value any) []entry {
	if i := slices.IndexFunc(entries, func(e entry) bool { return e.name == name }); i >= 0 {
		entries[i].value = value
		return entries
	}
	return append(entries, entry{name: name, value: value})
}

func (w Widget) CreateElement() core.Element { return core.NewStatefulElement() }

func (w Widget) Key() any { return w.key }

func (w Widget) CreateState() core.State { return &standInState{} }

// Unit returns the unit the widget was created from.
func (w Widget) Unit() *Unit { return w.unit }

// Props returns a copy of the properties the widget passes on.
func (w Widget) Props() Props {
	props := make(Props, len(w.entries))
	for _, e := range w.entries {
		props[e.name] = e.value
	}
	return props
}

// WithRef returns a copy of w whose mounted instance publishes the unit's
// handle through ref.
func (w Widget) WithRef(ref *core.Ref[any]) Widget {
	w.ref = ref
	return w
}

// WithKey returns a copy of w identified by key among its siblings.
func (w Widget) WithKey(key any) Widget {
	w.key = key
	return w
}

func (w Widget) String() string {
	if w.unit == nil {
		return ""
	}
	return w.unit.id
}

type standInState struct {
	core.StateBase
}

func (s *standInState) InitState() {
	core.UseImperativeHandle(s,
		func() *core.Ref[any] { return s.widget().ref },
		func() any {
			if unit := s.widget().unit; unit != nil && unit.handle != nil {
				return unit.handle()
			}
			return nil
		},
		func() []any { return []any{s.widget().unit} },
	)
}

func (s *standInState) widget() Widget {
	return s.Element().Widget().(Widget)
}

func (s *standInState) Build(ctx core.BuildContext) core.Widget {
	w := s.widget()
	return snapshotRenderer{id: w.String(), entries: w.entries}
}
