package core

import (
	"testing"

	"github.com/go-drift/standin/pkg/dom"
	"github.com/go-drift/standin/pkg/errors"
)

// testStatelessWidget is a simple stateless widget for testing.
type testStatelessWidget struct {
	buildFn func(BuildContext) Widget
}

func (w testStatelessWidget) CreateElement() Element {
	return NewStatelessElement()
}

func (w testStatelessWidget) Key() any {
	return nil
}

func (w testStatelessWidget) Build(ctx BuildContext) Widget {
	if w.buildFn != nil {
		return w.buildFn(ctx)
	}
	return nil
}

// testStatefulWidget is a simple stateful widget for testing.
type testStatefulWidget struct {
	createStateFn func() State
}

func (w testStatefulWidget) CreateElement() Element {
	return NewStatefulElement()
}

func (w testStatefulWidget) Key() any {
	return nil
}

func (w testStatefulWidget) CreateState() State {
	if w.createStateFn != nil {
		return w.createStateFn()
	}
	return &testState{}
}

type testState struct {
	StateBase
	buildFn func(BuildContext) Widget
}

func (s *testState) Build(ctx BuildContext) Widget {
	if s.buildFn != nil {
		return s.buildFn(ctx)
	}
	return nil
}

// sliceKeyWidget is a host widget with a non-comparable key (slice).
type sliceKeyWidget struct {
	key []int
	id  string
}

func (w sliceKeyWidget) CreateElement() Element { return NewHostElement() }

func (w sliceKeyWidget) Key() any { return w.key }

func (w sliceKeyWidget) CreateNode() *dom.Node {
	n := dom.NewElement("i")
	w.UpdateNode(n)
	return n
}

func (w sliceKeyWidget) UpdateNode(n *dom.Node) { n.SetAttr("id", w.id) }

func (w sliceKeyWidget) ChildWidgets() []Widget { return nil }

type captureHandler struct {
	build []*errors.BuildError
	host  []*errors.HostError
}

func (h *captureHandler) HandleError(err *errors.HostError)        { h.host = append(h.host, err) }
func (h *captureHandler) HandlePanic(*errors.PanicError)           {}
func (h *captureHandler) HandleBuildError(err *errors.BuildError) { h.build = append(h.build, err) }

func installHandler(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	prev := errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(prev) })
	return h
}

func leaf(id string, key any) Host {
	return Host{Tag: "i", Attrs: map[string]string{"id": id}, WidgetKey: key}
}

func mountHostParent(t *testing.T, children ...Widget) (*HostElement, *BuildOwner) {
	t.Helper()
	owner := NewBuildOwner()
	root := MountRoot(Host{Tag: "div", Children: children}, owner)
	return root.(*HostElement), owner
}

func TestStatelessElement_BuildPanic_ReportsError(t *testing.T) {
	h := installHandler(t)
	owner := NewBuildOwner()
	MountRoot(testStatelessWidget{buildFn: func(BuildContext) Widget {
		panic("boom")
	}}, owner)

	if len(h.build) != 1 {
		t.Fatalf("expected 1 build error, got %d", len(h.build))
	}
	if h.build[0].Recovered != "boom" {
		t.Errorf("Recovered = %v, want boom", h.build[0].Recovered)
	}
	if h.build[0].Element != "*core.StatelessElement" {
		t.Errorf("Element = %q", h.build[0].Element)
	}
}

func TestStatefulElement_BuildPanic_ReportsError(t *testing.T) {
	h := installHandler(t)
	owner := NewBuildOwner()
	MountRoot(testStatefulWidget{createStateFn: func() State {
		return &testState{buildFn: func(BuildContext) Widget { panic("state boom") }}
	}}, owner)

	if len(h.build) != 1 || h.build[0].Recovered != "state boom" {
		t.Fatalf("expected recovered build error, got %+v", h.build)
	}
}

func TestMountRoot_BuildsHostTree(t *testing.T) {
	owner := NewBuildOwner()
	root := MountRoot(testStatelessWidget{buildFn: func(BuildContext) Widget {
		return Host{Tag: "div", TestID: "root", Children: []Widget{
			Text{Content: "hello"},
			Host{Tag: "span", InnerHTML: "<b>raw</b>"},
		}}
	}}, owner)

	node := NodeOf(root)
	if node == nil {
		t.Fatal("expected a host node")
	}
	want := `<div data-testid="root">
  hello
  <span>
    <b>raw</b>
  </span>
</div>`
	if got := node.String(); got != want {
		t.Errorf("tree =\n%s\nwant\n%s", got, want)
	}
}

func TestMountRoot_NilWidget(t *testing.T) {
	if MountRoot(nil, NewBuildOwner()) != nil {
		t.Error("expected nil element for nil widget")
	}
}

func TestUpdateChildren_TopSync(t *testing.T) {
	parent, owner := mountHostParent(t, leaf("a", nil), leaf("b", nil), leaf("c", nil))
	old := append([]Element(nil), parent.children...)

	updated := updateChildren(parent, old, []Widget{leaf("a", nil), leaf("b", nil), leaf("c", nil)}, owner)

	if len(updated) != 3 {
		t.Fatalf("expected 3 children, got %d", len(updated))
	}
	for i := range updated {
		if updated[i] != old[i] {
			t.Errorf("expected child %d to be reused", i)
		}
	}
}

func TestUpdateChildren_KeyedReorder(t *testing.T) {
	parent, owner := mountHostParent(t, leaf("a", "a"), leaf("b", "b"), leaf("c", "c"))
	old := append([]Element(nil), parent.children...)
	elementA, elementB, elementC := old[0], old[1], old[2]

	updated := updateChildren(parent, old, []Widget{leaf("c", "c"), leaf("a", "a"), leaf("b", "b")}, owner)

	if len(updated) != 3 {
		t.Fatalf("expected 3 children, got %d", len(updated))
	}
	if updated[0] != elementC || updated[1] != elementA || updated[2] != elementB {
		t.Error("expected keyed elements to move with their keys")
	}
	for i, child := range updated {
		if slot, ok := child.Slot().(IndexedSlot); !ok || slot.Index != i {
			t.Errorf("expected slot index %d, got %v", i, child.Slot())
		}
	}
}

func TestUpdateChildren_KeyRemoved_Unmounts(t *testing.T) {
	parent, owner := mountHostParent(t, leaf("a", "a"), leaf("b", "b"))
	old := append([]Element(nil), parent.children...)

	updated := updateChildren(parent, old, []Widget{leaf("b", "b")}, owner)

	if len(updated) != 1 || updated[0] != old[1] {
		t.Fatalf("expected only b to survive, got %v", updated)
	}
	if old[0].(*HostElement).isMounted() {
		t.Error("expected removed keyed child to be unmounted")
	}
}

func TestUpdateChildren_NonComparableKey_TreatedAsNonKeyed(t *testing.T) {
	parent, owner := mountHostParent(t,
		sliceKeyWidget{key: []int{1}, id: "a"},
		sliceKeyWidget{key: []int{2}, id: "b"},
	)
	old := append([]Element(nil), parent.children...)

	// Keys differ by DeepEqual, so neither old element can be updated in place.
	updated := updateChildren(parent, old, []Widget{
		sliceKeyWidget{key: []int{2}, id: "b"},
		sliceKeyWidget{key: []int{1}, id: "a"},
	}, owner)

	if len(updated) != 2 {
		t.Fatalf("expected 2 children, got %d", len(updated))
	}
}

func TestUpdateChildren_DuplicateKey_Reports(t *testing.T) {
	h := installHandler(t)
	parent, _ := mountHostParent(t, leaf("a", 1), leaf("b", 1))

	if len(parent.children) != 2 {
		t.Fatalf("expected both children mounted, got %d", len(parent.children))
	}
	if len(h.host) != 1 || h.host[0].Kind != errors.KindKey {
		t.Fatalf("expected one key error, got %+v", h.host)
	}
	if _, ok := h.host[0].Err.(*DuplicateKeyError); !ok {
		t.Errorf("expected DuplicateKeyError, got %T", h.host[0].Err)
	}
}

func TestHostElement_NodeStableAcrossRebuilds(t *testing.T) {
	owner := NewBuildOwner()
	var bump func(func(int) int)
	root := MountRoot(Stateful(
		func() int { return 0 },
		func(n int, _ BuildContext, setState func(func(int) int)) Widget {
			bump = setState
			return Host{Tag: "div", TestID: "counter", Attrs: map[string]string{"data-count": string(rune('0' + n))}}
		},
	), owner)

	first := NodeOf(root)
	bump(func(n int) int { return n + 1 })
	owner.FlushBuild()

	if NodeOf(root) != first {
		t.Error("expected host node identity to survive a rebuild")
	}
	if v, _ := first.Attr("data-count"); v != "1" {
		t.Errorf("data-count = %q, want 1", v)
	}
}

func TestHostElement_ResyncsAfterNestedRebuild(t *testing.T) {
	owner := NewBuildOwner()
	var toggle func(func(bool) bool)
	root := MountRoot(Host{Tag: "div", Children: []Widget{
		Text{Content: "before"},
		Stateful(
			func() bool { return false },
			func(on bool, _ BuildContext, setState func(func(bool) bool)) Widget {
				toggle = setState
				if on {
					return Host{Tag: "b"}
				}
				return Text{Content: "off"}
			},
		),
	}}, owner)

	node := NodeOf(root)
	toggle(func(bool) bool { return true })
	owner.FlushBuild()

	if got, want := node.String(), "<div>\n  before\n  <b />\n</div>"; got != want {
		t.Errorf("tree = %q, want %q", got, want)
	}
}

func TestHost_NodeRef(t *testing.T) {
	ref := NewRef[*dom.Node]()
	owner := NewBuildOwner()
	root := MountRoot(Host{Tag: "div", NodeRef: ref}, owner)

	if ref.Current == nil || ref.Current != NodeOf(root) {
		t.Fatal("expected ref to hold the mounted node")
	}
	root.Unmount()
	if ref.Current != nil {
		t.Error("expected ref to be cleared on unmount")
	}
}

func TestCanUpdateWidget(t *testing.T) {
	if !canUpdateWidget(leaf("a", "k"), leaf("b", "k")) {
		t.Error("same type and key should update")
	}
	if canUpdateWidget(leaf("a", "k"), leaf("a", "j")) {
		t.Error("different keys should not update")
	}
	if canUpdateWidget(leaf("a", nil), Text{}) {
		t.Error("different types should not update")
	}
	if canUpdateWidget(nil, leaf("a", nil)) {
		t.Error("nil widgets should not update")
	}
}

func TestIsComparable(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil", nil, true},
		{"string", "hello", true},
		{"int", 42, true},
		{"struct", struct{ x int }{1}, true},
		{"slice", []int{1, 2, 3}, false},
		{"map", map[string]int{"a": 1}, false},
		{"func", func() {}, false},
		{"pointer", new(int), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isComparable(tt.value); got != tt.expected {
				t.Errorf("isComparable(%v) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}
