package testing

import (
	"testing"

	"github.com/go-drift/standin/pkg/core"
)

func list() core.Widget {
	return core.Host{Tag: "ul", TestID: "list", Children: []core.Widget{
		core.Host{Tag: "li", TestID: "first", WidgetKey: "a", Children: []core.Widget{core.Text{Content: "alpha"}}},
		core.Host{Tag: "li", TestID: "second", WidgetKey: "b", Children: []core.Widget{counter{Initial: 7}}},
	}}
}

func TestByType(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{Initial: 0})

	result := tester.Find(ByType[core.Text]())
	if !result.Exists() {
		t.Fatal("expected to find Text widget")
	}
	text := result.Widget().(core.Text)
	if text.Content != "0" {
		t.Errorf("expected text '0', got %q", text.Content)
	}
}

func TestByText(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{Initial: 42})

	if !tester.Find(ByText("42")).Exists() {
		t.Error("expected to find text '42'")
	}
	if tester.Find(ByText("99")).Exists() {
		t.Error("should not find text '99'")
	}
}

func TestByText_IgnoresInnerHTML(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(core.Host{Tag: "div", InnerHTML: "raw"})

	if tester.Find(ByText("raw")).Exists() {
		t.Error("inner HTML should not match ByText")
	}
}

func TestByTextContaining(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{Initial: 123})

	if !tester.Find(ByTextContaining("12")).Exists() {
		t.Error("expected to find text containing '12'")
	}
	if tester.Find(ByTextContaining("99")).Exists() {
		t.Error("should not find text containing '99'")
	}
}

func TestByKey(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	result := tester.Find(ByKey("b"))
	if result.Count() != 1 {
		t.Fatalf("expected 1 match, got %d", result.Count())
	}
	if got := result.Node().TestID(); got != "second" {
		t.Errorf("expected node second, got %q", got)
	}
}

func TestByTestID(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	result := tester.Find(ByTestID("first"))
	if !result.Exists() {
		t.Fatal("expected to find node first")
	}
	if result.Node() != tester.Node("first") {
		t.Error("expected finder node to match tester node")
	}
	if tester.Find(ByTestID("third")).Exists() {
		t.Error("should not find node third")
	}
}

func TestFinderResult_Count(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	if got := tester.Find(ByType[core.Text]()).Count(); got != 2 {
		t.Errorf("expected 2 Text widgets, got %d", got)
	}
}

func TestFinderResult_FirstOrNil(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(core.Text{Content: "hello"})

	if tester.Find(ByText("hello")).FirstOrNil() == nil {
		t.Error("FirstOrNil should return element for existing text")
	}
	if tester.Find(ByText("missing")).FirstOrNil() != nil {
		t.Error("FirstOrNil should return nil for missing text")
	}
}

func TestFinderResult_First_PanicsOnEmpty(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(core.Text{Content: "hello"})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected First() to panic on empty result")
		}
	}()
	tester.Find(ByText("missing")).First()
}

func TestFinderResult_At_PanicsOutOfRange(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected At() to panic out of range")
		}
	}()
	tester.Find(ByType[core.Text]()).At(5)
}

func TestByPredicate(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{Initial: 7})

	result := tester.Find(ByPredicate(func(e core.Element) bool {
		if tw, ok := e.Widget().(core.Text); ok {
			return tw.Content == "7"
		}
		return false
	}))
	if !result.Exists() {
		t.Error("expected predicate to find text '7'")
	}
}

func TestDescendant(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	result := tester.Find(Descendant(ByTestID("second"), ByType[core.Text]()))
	if result.Count() != 1 {
		t.Fatalf("expected 1 Text under second, got %d", result.Count())
	}
	if got := result.Widget().(core.Text).Content; got != "7" {
		t.Errorf("expected counter text, got %q", got)
	}
}

func TestAncestor(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	result := tester.Find(Ancestor(ByText("alpha"), ByTestID("first")))
	if !result.Exists() {
		t.Error("expected first to be an ancestor of alpha")
	}
	if tester.Find(Ancestor(ByText("alpha"), ByTestID("second"))).Exists() {
		t.Error("second is not an ancestor of alpha")
	}
}

func TestRelations_ExcludeSelf(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(list())

	if tester.Find(Descendant(ByTestID("list"), ByTestID("list"))).Exists() {
		t.Error("an element is not its own descendant")
	}
	if tester.Find(Ancestor(ByTestID("list"), ByTestID("list"))).Exists() {
		t.Error("an element is not its own ancestor")
	}
	if got := tester.Find(Descendant(ByTestID("list"), ByTestID("first"))).Count(); got != 1 {
		t.Errorf("expected 1 match, got %d", got)
	}
}
