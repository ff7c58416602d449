// Package core provides the widget and element framework that stand-in
// widgets are built by.
//
// Widgets are immutable descriptions; elements are their mounted instances.
// Host widgets ([Host], [Text]) own a [dom.Node] that is created on mount and
// updated in place on rebuild, so a node's identity is stable for the life
// of its mount. Every other widget composes host widgets.
//
// # Frames
//
// A frame has two phases driven by [BuildOwner]:
//
//	owner.FlushBuild()   // rebuild dirty elements, reconcile host nodes
//	owner.FlushEffects() // commit: run effects of everything just built
//
// Effects registered with [UseEffect] never run during a build. They run in
// FlushEffects after the build that scheduled them, descendants first.
//
// # Refs
//
// [Ref] is a mutable box attached to a widget. [Host.NodeRef] receives the
// host node; [UseImperativeHandle] forwards a handle of the state's choosing
// through a ref supplied by the parent.
//
// # Keys
//
// Siblings with comparable keys are matched by key when their parent
// reconciles; unkeyed siblings are matched in order. [WithKey] attaches a key
// to any widget.
package core
