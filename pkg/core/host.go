package core

import "github.com/go-drift/standin/pkg/dom"

// HostWidget creates a dom.Node directly.
type HostWidget interface {
	Widget
	CreateNode() *dom.Node
	UpdateNode(node *dom.Node)
	ChildWidgets() []Widget
}

// Host is an element node in the output tree.
//
// When InnerHTML is set it is emitted verbatim and Children are ignored.
type Host struct {
	Tag       string
	TestID    string
	Attrs     map[string]string
	InnerHTML string
	Children  []Widget
	// NodeRef, if set, receives the node while the widget is mounted.
	NodeRef   *Ref[*dom.Node]
	WidgetKey any
}

func (h Host) CreateElement() Element { return NewHostElement() }

func (h Host) Key() any { return h.WidgetKey }

func (h Host) CreateNode() *dom.Node {
	node := dom.NewElement(h.Tag)
	h.UpdateNode(node)
	return node
}

func (h Host) UpdateNode(node *dom.Node) {
	node.Tag = h.Tag
	node.ReplaceAttrs(h.Attrs)
	if h.TestID != "" {
		node.SetAttr(dom.TestIDAttr, h.TestID)
	}
	node.InnerHTML = h.InnerHTML
}

func (h Host) ChildWidgets() []Widget {
	if h.InnerHTML != "" {
		return nil
	}
	return h.Children
}

func (h Host) nodeRef() *Ref[*dom.Node] { return h.NodeRef }

// Text is a text node in the output tree. Its content is escaped when
// serialized.
type Text struct {
	Content   string
	WidgetKey any
}

func (t Text) CreateElement() Element { return NewHostElement() }

func (t Text) Key() any { return t.WidgetKey }

func (t Text) CreateNode() *dom.Node { return dom.NewText(t.Content) }

func (t Text) UpdateNode(node *dom.Node) { node.Text = t.Content }

func (t Text) ChildWidgets() []Widget { return nil }

// HostElement hosts a HostWidget and owns its node.
type HostElement struct {
	elementBase
	node     *dom.Node
	children []Element
	building bool
}

// NewHostElement returns an unmounted element for a host widget.
func NewHostElement() *HostElement {
	element := &HostElement{}
	element.setSelf(element)
	return element
}

// Node returns the node owned by this element.
func (e *HostElement) Node() *dom.Node {
	return e.node
}

func (e *HostElement) Mount(parent Element, slot any) {
	e.attach(parent, slot)
	widget := e.widget.(HostWidget)
	e.node = widget.CreateNode()
	attachRef(widget, e.node)

	e.dirty = true
	e.RebuildIfNeeded()
	e.notifyRenderParent()
}

func (e *HostElement) Update(newWidget Widget) {
	oldRef := refOf(e.widget)
	e.widget = newWidget
	if newRef := refOf(newWidget); newRef != oldRef {
		detachRef(oldRef, e.node)
		attachRef(newWidget, e.node)
	}
	e.MarkNeedsBuild()
}

func (e *HostElement) Unmount() {
	e.mounted = false
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil
	detachRef(refOf(e.widget), e.node)
	e.notifyRenderParent()
}

func (e *HostElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false

	widget := e.widget.(HostWidget)
	widget.UpdateNode(e.node)

	e.building = true
	e.children = updateChildren(e, e.children, widget.ChildWidgets(), e.buildOwner)
	e.building = false
	e.syncNodes()
}

func (e *HostElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

// notifyRenderParent asks the nearest host ancestor to resync its node
// children once the current build pass finishes. Ancestors that are in the
// middle of reconciling resync on their own.
func (e *HostElement) notifyRenderParent() {
	parent := e.renderParent
	if parent == nil || !parent.mounted || parent.building {
		return
	}
	if e.buildOwner != nil {
		e.buildOwner.scheduleNodeSync(parent)
	} else {
		parent.syncNodes()
	}
}

// syncNodes rebuilds the node's children from the element subtree, skipping
// through non-host elements to the first host descendants.
func (e *HostElement) syncNodes() {
	if !e.mounted {
		return
	}
	nodes := make([]*dom.Node, 0, len(e.children))
	for _, child := range e.children {
		nodes = collectNodes(child, nodes)
	}
	e.node.SetChildren(nodes)
}

func collectNodes(element Element, nodes []*dom.Node) []*dom.Node {
	if m, ok := element.(interface{ isMounted() bool }); ok && !m.isMounted() {
		return nodes
	}
	if host, ok := element.(*HostElement); ok {
		return append(nodes, host.node)
	}
	element.VisitChildren(func(child Element) bool {
		nodes = collectNodes(child, nodes)
		return true
	})
	return nodes
}

// NodeOf returns the first host node at or below element, or nil.
func NodeOf(element Element) *dom.Node {
	if element == nil {
		return nil
	}
	nodes := collectNodes(element, nil)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func refOf(widget Widget) *Ref[*dom.Node] {
	if w, ok := widget.(interface{ nodeRef() *Ref[*dom.Node] }); ok {
		return w.nodeRef()
	}
	return nil
}

func attachRef(widget Widget, node *dom.Node) {
	if ref := refOf(widget); ref != nil {
		ref.Current = node
	}
}

func detachRef(ref *Ref[*dom.Node], node *dom.Node) {
	if ref != nil && ref.Current == node {
		ref.Current = nil
	}
}
