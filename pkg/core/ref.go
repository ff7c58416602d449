package core

// Ref is a mutable box that outlives rebuilds. The framework fills refs
// attached to widgets; user code reads Current.
type Ref[T any] struct {
	Current T
}

// NewRef returns an empty ref.
func NewRef[T any]() *Ref[T] {
	return &Ref[T]{}
}
