package core

// Widget is an immutable description of part of the UI.
type Widget interface {
	// CreateElement returns the element that hosts this widget in the tree.
	CreateElement() Element
	// Key identifies the widget among its siblings. Nil means unkeyed.
	Key() any
}

// StatelessWidget builds its subtree from its own configuration.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget creates a State that persists across rebuilds of the same
// mount.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// State is the mutable part of a StatefulWidget.
type State interface {
	InitState()
	Build(ctx BuildContext) Widget
	SetState(fn func())
	Dispose()
	DidUpdateWidget(oldWidget StatefulWidget)
}

// BuildContext is the handle a widget receives while building.
type BuildContext interface {
	Widget() Widget
	FindAncestor(predicate func(Element) bool) Element
	Owner() *BuildOwner
}

// Element is the instantiation of a Widget at a particular location in the tree.
type Element interface {
	BuildContext
	Mount(parent Element, slot any)
	Update(newWidget Widget)
	Unmount()
	RebuildIfNeeded()
	MarkNeedsBuild()
	VisitChildren(visitor func(Element) bool)
	Depth() int
	Slot() any
}

// IndexedSlot records a child's position among its siblings.
type IndexedSlot struct {
	Index int
}
