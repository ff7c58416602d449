package testing

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-drift/standin/pkg/core"
	"github.com/go-drift/standin/pkg/dom"
)

// Finder locates elements in the widget tree.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root core.Element) []core.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []core.Element
	finder   Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Element {
	if len(r.elements) == 0 {
		panic("finder matched nothing: " + r.describe())
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("finder index %d out of range (matched %d): %s", index, len(r.elements), r.describe()))
	}
	return r.elements[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// Widget returns the widget of the first matched element. Panics if no matches.
func (r FinderResult) Widget() core.Widget {
	return r.First().Widget()
}

// Node returns the host node of the first matched element, or of the first
// host element beneath it. Panics if no matches.
func (r FinderResult) Node() *dom.Node {
	return core.NodeOf(r.First())
}

// matcher tests each element of the tree on its own.
type matcher struct {
	desc  string
	match func(core.Element) bool
}

func (m matcher) Evaluate(root core.Element) []core.Element {
	var results []core.Element
	walkTree(root, func(e core.Element) bool {
		if m.match(e) {
			results = append(results, e)
		}
		return true
	})
	return results
}

func (m matcher) Description() string {
	return m.desc
}

// ByType returns a finder that matches elements whose widget is type T.
func ByType[T core.Widget]() Finder {
	t := reflect.TypeFor[T]()
	return matcher{
		desc: fmt.Sprintf("ByType(%s)", t),
		match: func(e core.Element) bool {
			return reflect.TypeOf(e.Widget()) == t
		},
	}
}

// ByKey returns a finder that matches elements whose widget key equals key.
// Keys that cannot be compared with == are compared deeply.
func ByKey(key any) Finder {
	return matcher{
		desc: fmt.Sprintf("ByKey(%v)", key),
		match: func(e core.Element) bool {
			return keysEqual(e.Widget().Key(), key)
		},
	}
}

func keysEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// ByText returns a finder that matches [core.Text] with exact content. Raw
// inner HTML is not text and never matches.
func ByText(text string) Finder {
	return textMatcher(fmt.Sprintf("ByText(%q)", text), func(content string) bool {
		return content == text
	})
}

// ByTextContaining returns a finder that matches [core.Text] containing the
// given substring.
func ByTextContaining(substring string) Finder {
	return textMatcher(fmt.Sprintf("ByTextContaining(%q)", substring), func(content string) bool {
		return strings.Contains(content, substring)
	})
}

func textMatcher(desc string, accept func(string) bool) Finder {
	return matcher{
		desc: desc,
		match: func(e core.Element) bool {
			t, ok := e.Widget().(core.Text)
			return ok && accept(t.Content)
		},
	}
}

// ByTestID returns a finder that matches host elements whose node has
// data-testid equal to id.
func ByTestID(id string) Finder {
	return matcher{
		desc: fmt.Sprintf("ByTestID(%q)", id),
		match: func(e core.Element) bool {
			host, ok := e.(*core.HostElement)
			return ok && host.Node() != nil && host.Node().TestID() == id
		},
	}
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(core.Element) bool) Finder {
	return matcher{desc: "ByPredicate(...)", match: fn}
}

// relation matches elements found by matching that stand in a tree relation
// to at least one element found by of.
type relation struct {
	name     string
	of       Finder
	matching Finder
	related  func(candidate, anchor core.Element) bool
}

func (f relation) Evaluate(root core.Element) []core.Element {
	anchors := f.of.Evaluate(root)
	if len(anchors) == 0 {
		return nil
	}
	var results []core.Element
	for _, candidate := range f.matching.Evaluate(root) {
		if slices.ContainsFunc(anchors, func(anchor core.Element) bool {
			return f.related(candidate, anchor)
		}) {
			results = append(results, candidate)
		}
	}
	return results
}

func (f relation) Description() string {
	return fmt.Sprintf("%s(of: %s, matching: %s)", f.name, f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying matching
// that are strict descendants of elements matching of.
func Descendant(of, matching Finder) Finder {
	return relation{
		name:     "Descendant",
		of:       of,
		matching: matching,
		related: func(candidate, anchor core.Element) bool {
			return candidate != anchor && contains(anchor, candidate)
		},
	}
}

// Ancestor returns a finder that matches elements satisfying matching that
// are strict ancestors of elements matching of.
func Ancestor(of, matching Finder) Finder {
	return relation{
		name:     "Ancestor",
		of:       of,
		matching: matching,
		related: func(candidate, anchor core.Element) bool {
			return candidate != anchor && contains(candidate, anchor)
		},
	}
}

// contains reports whether target is root or lies beneath it.
func contains(root, target core.Element) bool {
	found := false
	walkTree(root, func(e core.Element) bool {
		found = e == target
		return !found
	})
	return found
}

// walkTree performs a depth-first pre-order traversal of the element tree.
// The visitor returns false to stop traversal.
func walkTree(root core.Element, visitor func(core.Element) bool) bool {
	if !visitor(root) {
		return false
	}
	keepGoing := true
	root.VisitChildren(func(child core.Element) bool {
		keepGoing = walkTree(child, visitor)
		return keepGoing
	})
	return keepGoing
}
