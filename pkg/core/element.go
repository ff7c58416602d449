package core

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-drift/standin/pkg/errors"
)

type elementBase struct {
	widget       Widget
	parent       Element
	depth        int
	slot         any
	buildOwner   *BuildOwner
	dirty        bool
	self         Element
	mounted      bool
	renderParent *HostElement // nearest ancestor that owns a host node
}

func (e *elementBase) Widget() Widget {
	return e.widget
}

func (e *elementBase) Depth() int {
	return e.depth
}

func (e *elementBase) Slot() any {
	return e.slot
}

func (e *elementBase) Owner() *BuildOwner {
	return e.buildOwner
}

func (e *elementBase) MarkNeedsBuild() {
	if e.dirty {
		return
	}
	e.dirty = true
	if e.buildOwner != nil && e.self != nil {
		e.buildOwner.ScheduleBuild(e.self)
	}
}

func (e *elementBase) FindAncestor(predicate func(Element) bool) Element {
	current := e.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		base, ok := current.(interface{ parentElement() Element })
		if !ok {
			break
		}
		current = base.parentElement()
	}
	return nil
}

func (e *elementBase) parentElement() Element {
	return e.parent
}

func (e *elementBase) setSelf(self Element) {
	e.self = self
}

func (e *elementBase) setWidget(widget Widget) {
	e.widget = widget
}

func (e *elementBase) setBuildOwner(owner *BuildOwner) {
	e.buildOwner = owner
}

func (e *elementBase) setSlot(slot any) {
	e.slot = slot
}

func (e *elementBase) isMounted() bool {
	return e.mounted
}

func (e *elementBase) attach(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
		if e.buildOwner == nil {
			e.buildOwner = parent.Owner()
		}
	}
	e.renderParent = e.findRenderParent()
	e.mounted = true
}

// findRenderParent walks up the element tree to find the nearest HostElement.
func (e *elementBase) findRenderParent() *HostElement {
	found := e.FindAncestor(func(el Element) bool {
		_, ok := el.(*HostElement)
		return ok
	})
	if found == nil {
		return nil
	}
	return found.(*HostElement)
}

// safeBuild executes a build function with panic recovery.
// If the build panics, it reports the error and builds nothing.
func (e *elementBase) safeBuild(buildFn func() Widget) Widget {
	var built Widget
	var buildErr *errors.BuildError

	func() {
		defer func() {
			if r := recover(); r != nil {
				buildErr = &errors.BuildError{
					Widget:     reflect.TypeOf(e.widget).String(),
					Element:    reflect.TypeOf(e.self).String(),
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
			}
		}()
		built = buildFn()
	}()

	if buildErr != nil {
		errors.ReportBuildError(buildErr)
		return nil
	}
	return built
}

// StatelessElement hosts a StatelessWidget.
type StatelessElement struct {
	elementBase
	child Element
}

// NewStatelessElement returns an unmounted element for a stateless widget.
func NewStatelessElement() *StatelessElement {
	element := &StatelessElement{}
	element.setSelf(element)
	return element
}

func (e *StatelessElement) Mount(parent Element, slot any) {
	e.attach(parent, slot)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *StatelessElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
}

func (e *StatelessElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	widget := e.widget.(StatelessWidget)
	built := e.safeBuild(func() Widget {
		return widget.Build(e)
	})
	e.child = updateChild(e.child, built, e, e.buildOwner, nil)
}

func (e *StatelessElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// StatefulElement hosts a StatefulWidget and its State.
type StatefulElement struct {
	elementBase
	child Element
	state State
}

// NewStatefulElement returns an unmounted element for a stateful widget.
func NewStatefulElement() *StatefulElement {
	element := &StatefulElement{}
	element.setSelf(element)
	return element
}

// State returns the element's state.
func (e *StatefulElement) State() State {
	return e.state
}

func (e *StatefulElement) Mount(parent Element, slot any) {
	e.attach(parent, slot)
	widget := e.widget.(StatefulWidget)
	e.state = widget.CreateState()
	if setter, ok := e.state.(interface{ SetElement(*StatefulElement) }); ok {
		setter.SetElement(e)
	}
	e.state.InitState()
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatefulElement) Update(newWidget Widget) {
	oldWidget := e.widget.(StatefulWidget)
	e.widget = newWidget
	e.state.DidUpdateWidget(oldWidget)
	e.MarkNeedsBuild()
}

func (e *StatefulElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	if e.state != nil {
		e.state.Dispose()
	}
}

func (e *StatefulElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeBuild(func() Widget {
		return e.state.Build(e)
	})
	e.child = updateChild(e.child, built, e, e.buildOwner, nil)

	// Effects are queued after the subtree is built, so descendants commit
	// before their ancestors.
	if base, ok := e.state.(stateBase); ok && e.buildOwner != nil && base.state().hasEffects() {
		e.buildOwner.scheduleEffects(base.state())
	}
}

func (e *StatefulElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// MountRoot inflates widget and mounts it as the root of a new tree owned by
// owner. Effects of the initial build are queued; call owner.FlushEffects to
// commit them.
func MountRoot(widget Widget, owner *BuildOwner) Element {
	element := inflateWidget(widget, owner)
	if element == nil {
		return nil
	}
	element.Mount(nil, nil)
	owner.flushNodeSyncs()
	return element
}

func updateChild(existing Element, widget Widget, parent Element, owner *BuildOwner, slot any) Element {
	if widget == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdateWidget(existing.Widget(), widget) {
		if setter, ok := existing.(interface{ setSlot(any) }); ok {
			setter.setSlot(slot)
		}
		existing.Update(widget)
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	element := inflateWidget(widget, owner)
	element.Mount(parent, slot)
	return element
}

// updateChildren reconciles a list of child elements against new widgets.
// Keyed children are matched by key regardless of position; unkeyed children
// are matched in order. Children that are not reused are unmounted.
func updateChildren(parent Element, oldChildren []Element, newWidgets []Widget, owner *BuildOwner) []Element {
	oldByKey := make(map[any]Element)
	var oldUnkeyed []Element
	for _, child := range oldChildren {
		key := child.Widget().Key()
		if key != nil && isComparable(key) {
			oldByKey[key] = child
		} else {
			oldUnkeyed = append(oldUnkeyed, child)
		}
	}

	reused := make(map[Element]bool, len(oldChildren))
	seenKeys := make(map[any]bool)
	updated := make([]Element, 0, len(newWidgets))
	for _, widget := range newWidgets {
		if widget == nil {
			continue
		}
		slot := IndexedSlot{Index: len(updated)}
		var existing Element
		key := widget.Key()
		switch {
		case key != nil && isComparable(key):
			if seenKeys[key] {
				errors.Report(&errors.HostError{
					Op:     "core.updateChildren",
					Kind:   errors.KindKey,
					Widget: reflect.TypeOf(widget).String(),
					Err:    &DuplicateKeyError{Key: key},
				})
				break
			}
			seenKeys[key] = true
			existing = oldByKey[key]
			delete(oldByKey, key)
		case len(oldUnkeyed) > 0:
			existing = oldUnkeyed[0]
			oldUnkeyed = oldUnkeyed[1:]
		}

		child := updateChild(existing, widget, parent, owner, slot)
		if child == existing {
			reused[existing] = true
		}
		if child != nil {
			updated = append(updated, child)
		}
	}

	for _, child := range oldChildren {
		if reused[child] {
			continue
		}
		if m, ok := child.(interface{ isMounted() bool }); ok && !m.isMounted() {
			continue
		}
		child.Unmount()
	}
	return updated
}

// DuplicateKeyError reports two siblings sharing a key. The second sibling is
// mounted as if it were unkeyed.
type DuplicateKeyError struct {
	Key any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %v among siblings", e.Key)
}

func canUpdateWidget(existing Widget, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

// isComparable reports whether v can be used as a map key without panicking.
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

func inflateWidget(widget Widget, owner *BuildOwner) Element {
	if widget == nil {
		return nil
	}
	element := widget.CreateElement()
	if setter, ok := element.(interface{ setWidget(Widget) }); ok {
		setter.setWidget(widget)
	}
	if setter, ok := element.(interface{ setBuildOwner(*BuildOwner) }); ok {
		setter.setBuildOwner(owner)
	}
	if setter, ok := element.(interface{ setSelf(Element) }); ok {
		setter.setSelf(element)
	}
	return element
}
