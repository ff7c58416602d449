package mock

import (
	"maps"
	"runtime"
	"sync"
	"weak"

	"github.com/go-drift/standin/pkg/dom"
)

// records holds the latest committed properties of every live stand-in.
var records = newPropertyCache()

// propertyCache associates container nodes with properties without keeping
// the nodes alive. An entry is dropped once its node is collected.
//
// A value that references its own node keeps that node reachable, so the
// entry lives as long as the cache does.
type propertyCache struct {
	mu      sync.Mutex
	entries map[weak.Pointer[dom.Node]]Props
}

func newPropertyCache() *propertyCache {
	return &propertyCache{entries: make(map[weak.Pointer[dom.Node]]Props)}
}

// store replaces the properties recorded for node.
func (c *propertyCache) store(node *dom.Node, props Props) {
	key := weak.Make(node)
	c.mu.Lock()
	_, known := c.entries[key]
	c.entries[key] = props
	c.mu.Unlock()
	if !known {
		runtime.AddCleanup(node, c.evict, key)
	}
}

func (c *propertyCache) load(node *dom.Node) (Props, bool) {
	if node == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	props, ok := c.entries[weak.Make(node)]
	return props, ok
}

// evict runs on the runtime's cleanup goroutine.
func (c *propertyCache) evict(key weak.Pointer[dom.Node]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *propertyCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// PropsOf returns the properties most recently committed by the stand-in
// whose container is node. The result is a copy and is empty, never nil, for
// a nil node, a node no stand-in rendered, or one whose first frame has not
// committed yet.
func PropsOf(node *dom.Node) Props {
	props, ok := records.load(node)
	if !ok {
		return Props{}
	}
	return maps.Clone(props)
}

// Prop returns the property name as a T. It reports false when the property
// is missing or holds another type.
func Prop[T any](props Props, name string) (T, bool) {
	value, ok := props[name].(T)
	return value, ok
}
