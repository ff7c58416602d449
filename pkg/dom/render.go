package dom

import (
	"html"
	"io"
	"slices"
	"strings"
)

// textEscaper escapes text content the way an HTML serializer does: quotes
// are only significant inside attribute values.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Render writes the markup of n to w, one node per line, indenting children
// by two spaces. Attributes are sorted by name. Text and attribute values are
// escaped; InnerHTML is written verbatim.
func Render(w io.Writer, n *Node) error {
	var sb strings.Builder
	render(&sb, n, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// String returns the rendered markup of n without a trailing newline.
func (n *Node) String() string {
	var sb strings.Builder
	render(&sb, n, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

// RenderChildren returns the markup of the children of n, as Render would
// write them at depth zero.
func RenderChildren(n *Node) string {
	var sb strings.Builder
	for _, child := range n.Children {
		render(&sb, child, 0)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func render(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsText() {
		sb.WriteString(indent)
		textEscaper.WriteString(sb, n.Text)
		sb.WriteByte('\n')
		return
	}

	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	writeAttrs(sb, n.Attrs)

	if n.InnerHTML == "" && len(n.Children) == 0 {
		sb.WriteString(" />\n")
		return
	}
	sb.WriteString(">\n")
	if n.InnerHTML != "" {
		sb.WriteString(indent)
		sb.WriteString("  ")
		sb.WriteString(n.InnerHTML)
		sb.WriteByte('\n')
	} else {
		for _, child := range n.Children {
			render(sb, child, depth+1)
		}
	}
	sb.WriteString(indent)
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">\n")
}

func writeAttrs(sb *strings.Builder, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(attrs[name]))
		sb.WriteByte('"')
	}
}
