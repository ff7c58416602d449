package core

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/standin/pkg/errors"
)

// stateBase is satisfied by any struct that embeds StateBase.
// Hooks and NewManaged accept stateBase so callers can pass s directly.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase provides common functionality for stateful widget states.
// Embed this struct in your state to eliminate boilerplate.
//
// Example:
//
//	type myState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *myState) InitState() {
//	    // No need to implement SetElement, SetState, Dispose, etc.
//	}
type StateBase struct {
	element   *StatefulElement
	disposers []func()
	effects   []*effect
	disposed  bool
	mu        sync.Mutex
}

// SetElement stores the element reference for triggering rebuilds.
// This method is called automatically by the framework.
func (s *StateBase) SetElement(element *StatefulElement) {
	s.element = element
}

// Element returns the element associated with this state.
// Returns nil if the state has not been mounted.
func (s *StateBase) Element() *StatefulElement {
	return s.element
}

// SetState executes the given function and schedules a rebuild.
// Safe to call even after disposal (becomes a no-op).
//
// SetState is NOT thread-safe. It must only be called from the UI goroutine.
func (s *StateBase) SetState(fn func()) {
	if s.IsDisposed() {
		return
	}
	if fn != nil {
		fn()
	}
	if s.element != nil {
		s.element.MarkNeedsBuild()
	}
}

// OnDispose registers a cleanup function to be called when the state is disposed.
// Returns an unregister function that can be called to remove the disposer.
// The cleanup function will only be called once.
func (s *StateBase) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		// Already disposed, run cleanup immediately
		cleanup()
		return func() {}
	}
	index := len(s.disposers)
	s.disposers = append(s.disposers, cleanup)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.disposers) {
			s.disposers[index] = nil
		}
	}
}

// RunDisposers executes all registered disposers in reverse order.
// This is called automatically by Dispose().
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	// Run disposers in reverse order (LIFO)
	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}
}

// Dispose cleans up resources. Override this method if you need custom cleanup,
// but always call s.RunDisposers() or s.StateBase.Dispose() in your override.
func (s *StateBase) Dispose() {
	s.RunDisposers()
}

// InitState is a no-op default implementation.
// Override this method to initialize your state.
func (s *StateBase) InitState() {}

// Build is a no-op default implementation that returns nil.
// Override this method to build your widget tree.
func (s *StateBase) Build(ctx BuildContext) Widget {
	return nil
}

// DidUpdateWidget is a no-op default implementation.
// Override this method to respond to widget configuration changes.
func (s *StateBase) DidUpdateWidget(oldWidget StatefulWidget) {}

// IsDisposed returns true if this state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// effect is a post-commit callback registered with UseEffect.
type effect struct {
	run     func() func()
	deps    func() []any
	prev    []any
	ran     bool
	cleanup func()
}

func (s *StateBase) addEffect(e *effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, e)
}

func (s *StateBase) hasEffects() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.effects) > 0
}

// runEffects runs every effect whose dependencies changed since it last ran.
func (s *StateBase) runEffects() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	effects := slices.Clone(s.effects)
	s.mu.Unlock()

	for _, e := range effects {
		var deps []any
		if e.deps != nil {
			deps = e.deps()
		}
		if e.ran && e.deps != nil && !depsChanged(e.prev, deps) {
			continue
		}
		if e.cleanup != nil {
			e.cleanup()
			e.cleanup = nil
		}
		e.cleanup = s.safeRun(e.run)
		e.prev = deps
		e.ran = true
	}
}

// safeRun runs an effect, reporting a panic instead of aborting the commit.
// A panicking effect has no cleanup.
func (s *StateBase) safeRun(run func() func()) (cleanup func()) {
	defer func() {
		if r := recover(); r != nil {
			cleanup = nil
			widget := ""
			if s.element != nil {
				widget = reflect.TypeOf(s.element.Widget()).String()
			}
			errors.Report(&errors.HostError{
				Op:     "core.BuildOwner.FlushEffects",
				Kind:   errors.KindEffect,
				Widget: widget,
				Err: &errors.PanicError{
					Op:         "effect",
					Value:      r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				},
			})
		}
	}()
	return run()
}

func depsChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !depEqual(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// depEqual compares dependencies by identity. Values that cannot be compared
// with == always count as changed.
func depEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}
