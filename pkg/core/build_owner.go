package core

import (
	"slices"
	"sync"
)

// BuildOwner tracks dirty elements that need rebuilding and states whose
// effects wait for the current build to commit.
type BuildOwner struct {
	dirty      []Element
	dirtySet   map[Element]bool
	pending    []*StateBase
	pendingSet map[*StateBase]bool
	syncs      []*HostElement
	mu         sync.Mutex

	// OnNeedsFrame is called when a new element is scheduled for rebuild,
	// signalling that a frame should be pumped.
	OnNeedsFrame func()
}

// NewBuildOwner creates a new BuildOwner.
func NewBuildOwner() *BuildOwner {
	return &BuildOwner{}
}

// ScheduleBuild marks an element as needing rebuild.
func (b *BuildOwner) ScheduleBuild(element Element) {
	added := func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.dirtySet[element] {
			return false
		}
		if b.dirtySet == nil {
			b.dirtySet = make(map[Element]bool)
		}
		b.dirtySet[element] = true
		b.dirty = append(b.dirty, element)
		return true
	}()

	if added && b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// NeedsWork returns true if there are dirty elements or uncommitted effects.
func (b *BuildOwner) NeedsWork() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.dirty) > 0 || len(b.pending) > 0
}

// FlushBuild rebuilds all dirty elements in depth order.
func (b *BuildOwner) FlushBuild() {
	for {
		b.mu.Lock()
		if len(b.dirty) == 0 {
			b.mu.Unlock()
			b.flushNodeSyncs()
			return
		}

		slices.SortFunc(b.dirty, func(a, b Element) int {
			return a.Depth() - b.Depth()
		})

		dirty := b.dirty
		b.dirty = nil
		clear(b.dirtySet)
		b.mu.Unlock()

		for _, element := range dirty {
			if mountable, ok := element.(interface{ isMounted() bool }); ok && !mountable.isMounted() {
				continue
			}
			element.RebuildIfNeeded()
		}
	}
}

// FlushEffects runs the effects of every state built since the last flush,
// in the order their builds completed. It is the commit point: call it only
// after FlushBuild has produced the tree the effects should observe.
func (b *BuildOwner) FlushEffects() {
	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.mu.Unlock()
			return
		}
		pending := b.pending
		b.pending = nil
		clear(b.pendingSet)
		b.mu.Unlock()

		for _, state := range pending {
			state.runEffects()
		}
	}
}

func (b *BuildOwner) scheduleEffects(state *StateBase) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pendingSet[state] {
		return
	}
	if b.pendingSet == nil {
		b.pendingSet = make(map[*StateBase]bool)
	}
	b.pendingSet[state] = true
	b.pending = append(b.pending, state)
}

func (b *BuildOwner) scheduleNodeSync(element *HostElement) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slices.Contains(b.syncs, element) {
		return
	}
	b.syncs = append(b.syncs, element)
}

func (b *BuildOwner) flushNodeSyncs() {
	b.mu.Lock()
	syncs := b.syncs
	b.syncs = nil
	b.mu.Unlock()
	for _, element := range syncs {
		element.syncNodes()
	}
}
