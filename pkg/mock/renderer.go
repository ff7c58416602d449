package mock

import (
	"reflect"

	"github.com/go-drift/standin/pkg/core"
	"github.com/go-drift/standin/pkg/dom"
	"github.com/go-drift/standin/pkg/format"
)

// ChildrenProp is flattened one level before its items are rendered.
const ChildrenProp = "children"

const (
	containerTag = "div"
	propTag      = "div"
)

// PropTestID returns the test id of the node holding property name of the
// stand-in addressed by id.
func PropTestID(id, name string) string {
	return id + "_prop_" + name
}

// snapshotRenderer renders a property set as markup and records it against
// the container node once the frame commits.
type snapshotRenderer struct {
	core.StatefulBase
	id      string
	entries []entry
}

func (r snapshotRenderer) CreateState() core.State { return &rendererState{} }

type rendererState struct {
	core.StateBase
	node *core.Ref[*dom.Node]
}

func (s *rendererState) InitState() {
	s.node = core.NewRef[*dom.Node]()
	core.UseEffect(s, func() func() {
		if node := s.node.Current; node != nil {
			records.store(node, s.renderer().props())
		}
		return nil
	}, nil)
}

func (s *rendererState) renderer() snapshotRenderer {
	return s.Element().Widget().(snapshotRenderer)
}

func (s *rendererState) Build(ctx core.BuildContext) core.Widget {
	r := s.renderer()
	children := make([]core.Widget, 0, len(r.entries))
	for _, e := range r.entries {
		prop := core.Host{
			Tag:       propTag,
			TestID:    PropTestID(r.id, e.name),
			WidgetKey: e.name,
		}
		value := formatProp(e.name, e.value)
		switch value.kind {
		case formattedText:
			prop.InnerHTML = value.text
		case formattedElement:
			prop.Children = []core.Widget{value.widget}
		case formattedSequence:
			prop.Children = make([]core.Widget, len(value.items))
			for i, item := range value.items {
				prop.Children[i] = item.child(i)
			}
		}
		children = append(children, prop)
	}
	return core.Host{
		Tag:      containerTag,
		TestID:   r.id,
		NodeRef:  s.node,
		Children: children,
	}
}

func (r snapshotRenderer) props() Props {
	props := make(Props, len(r.entries))
	for _, e := range r.entries {
		props[e.name] = e.value
	}
	return props
}

type formattedKind int

const (
	formattedText formattedKind = iota
	formattedElement
	formattedSequence
)

// formatted is a property value ready to render: a widget kept as is, its
// bounded-depth text, or a sequence of either.
type formatted struct {
	kind   formattedKind
	widget core.Widget
	text   string
	items  []formatted
}

func formatProp(name string, value any) formatted {
	items, ok := sequence(value)
	if !ok {
		return formatItem(value)
	}
	if name == ChildrenProp {
		items = flatten(items)
	}
	out := make([]formatted, len(items))
	for i, item := range items {
		out[i] = formatItem(item)
	}
	return formatted{kind: formattedSequence, items: out}
}

func formatItem(value any) formatted {
	if core.IsWidget(value) {
		return formatted{kind: formattedElement, widget: value.(core.Widget)}
	}
	return formatted{kind: formattedText, text: format.Format(value, format.DefaultOptions())}
}

// child returns the widget for a sequence item at index, keyed by position.
func (f formatted) child(index int) core.Widget {
	if f.kind == formattedElement {
		return core.WithKey(f.widget, index)
	}
	return core.Text{Content: f.text, WidgetKey: index}
}

// sequence returns the items of a slice or array. Byte slices are scalars.
func sequence(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func flatten(items []any) []any {
	flat := make([]any, 0, len(items))
	for _, item := range items {
		if nested, ok := sequence(item); ok {
			flat = append(flat, nested...)
			continue
		}
		flat = append(flat, item)
	}
	return flat
}
