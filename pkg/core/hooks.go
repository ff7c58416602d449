package core

// UseEffect registers an effect that runs after each commit of the state's
// build, never during the build itself. Call it once in InitState.
//
// deps is evaluated after every commit; the effect re-runs only when a
// dependency differs from the previous run (compared with ==). A nil deps
// function re-runs the effect after every commit. An effect may return a
// cleanup, which runs before the effect re-runs and when the state is
// disposed.
//
// Example:
//
//	func (s *myState) InitState() {
//	    core.UseEffect(s, func() func() {
//	        sub := s.feed.Subscribe()
//	        return sub.Close
//	    }, func() []any { return []any{s.feed} })
//	}
func UseEffect(s stateBase, run func() func(), deps func() []any) {
	base := s.state()
	e := &effect{run: run, deps: deps}
	base.addEffect(e)
	base.OnDispose(func() {
		if e.cleanup != nil {
			e.cleanup()
			e.cleanup = nil
		}
	})
}

// UseImperativeHandle exposes a handle through an externally attached ref.
// After the first commit, ref().Current is set to create(); create runs
// again only when the ref or one of deps changes, and the ref is cleared when
// the state is disposed or the ref is replaced. A nil create exposes a zero
// handle.
func UseImperativeHandle[T any](s stateBase, ref func() *Ref[T], create func() T, deps func() []any) {
	UseEffect(s, func() func() {
		r := ref()
		if r == nil {
			return nil
		}
		var handle T
		if create != nil {
			handle = create()
		}
		r.Current = handle
		return func() {
			var zero T
			r.Current = zero
		}
	}, func() []any {
		all := []any{ref()}
		if deps != nil {
			all = append(all, deps()...)
		}
		return all
	})
}

// Managed holds a value and triggers rebuilds when it changes.
// Unlike a plain field, it is tied to a specific StateBase.
//
// Managed is NOT thread-safe. It must only be accessed from the UI goroutine.
type Managed[T any] struct {
	base  *StateBase
	value T
}

// NewManaged creates a new managed state value.
// Changes to this value will automatically trigger a rebuild.
func NewManaged[T any](s stateBase, initial T) *Managed[T] {
	return &Managed[T]{
		base:  s.state(),
		value: initial,
	}
}

// Value returns the current value.
func (m *Managed[T]) Value() T {
	return m.value
}

// Set updates the value and triggers a rebuild.
func (m *Managed[T]) Set(value T) {
	m.value = value
	m.base.SetState(nil)
}

// Update applies a transformation to the current value and triggers a rebuild.
func (m *Managed[T]) Update(transform func(T) T) {
	m.value = transform(m.value)
	m.base.SetState(nil)
}
