// Package dom provides the DOM-like node tree that host widgets build into.
//
// A Node is either an element (non-empty Tag) or a text node. Elements carry
// attributes, ordered children and, optionally, raw inner HTML that replaces
// their children when serialized. Nodes are owned by the host framework:
// it creates them on mount and mutates them in place on rebuild, so a node's
// identity is stable for the lifetime of the mount.
package dom

import "strings"

// TestIDAttr is the attribute used to address nodes from tests.
const TestIDAttr = "data-testid"

// Node is an element or text node.
type Node struct {
	// Tag is the element name. Empty for text nodes.
	Tag string
	// Attrs holds element attributes.
	Attrs map[string]string
	// Text is the content of a text node.
	Text string
	// InnerHTML is raw markup emitted verbatim in place of Children.
	InnerHTML string
	// Children are the child nodes in document order.
	Children []*Node

	parent *Node
}

// NewElement returns an element node with the given tag.
func NewElement(tag string) *Node {
	return &Node{Tag: tag}
}

// NewText returns a text node.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttr sets an attribute. An empty value removes it.
func (n *Node) SetAttr(name, value string) {
	if value == "" {
		delete(n.Attrs, name)
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// ReplaceAttrs replaces every attribute with attrs.
func (n *Node) ReplaceAttrs(attrs map[string]string) {
	clear(n.Attrs)
	for k, v := range attrs {
		n.SetAttr(k, v)
	}
}

// TestID returns the node's data-testid attribute.
func (n *Node) TestID() string {
	return n.Attrs[TestIDAttr]
}

// SetChildren replaces the children of n, updating parent links.
func (n *Node) SetChildren(children []*Node) {
	for _, old := range n.Children {
		if old.parent == n {
			old.parent = nil
		}
	}
	n.Children = children
	for _, child := range children {
		child.parent = n
	}
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// TextContent returns the concatenated text of n and its descendants.
// Raw inner HTML counts as text.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	if n.InnerHTML != "" {
		sb.WriteString(n.InnerHTML)
		return
	}
	for _, child := range n.Children {
		child.writeText(sb)
	}
}

// Walk visits n and its descendants in depth-first pre-order.
// The visitor returns false to stop traversal.
func (n *Node) Walk(visitor func(*Node) bool) bool {
	if !visitor(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(visitor) {
			return false
		}
	}
	return true
}

// Find returns the first node under root (inclusive) whose data-testid equals
// id, or nil.
func Find(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	var found *Node
	root.Walk(func(n *Node) bool {
		if !n.IsText() && n.TestID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node under root (inclusive) whose data-testid equals id.
func FindAll(root *Node, id string) []*Node {
	if root == nil {
		return nil
	}
	var found []*Node
	root.Walk(func(n *Node) bool {
		if !n.IsText() && n.TestID() == id {
			found = append(found, n)
		}
		return true
	})
	return found
}
