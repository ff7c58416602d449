package testing

import (
	"errors"
	"testing"

	"github.com/go-drift/standin/pkg/core"
	"github.com/go-drift/standin/pkg/dom"
	standinerrors "github.com/go-drift/standin/pkg/errors"
)

// DefaultMaxFrames bounds PumpAndSettle.
const DefaultMaxFrames = 100

// ErrSettleTimeout is returned when PumpAndSettle exceeds its frame budget.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: framework did not settle")

// WidgetTester provides isolated widget testing against an in-memory node
// tree. It drives the same build and commit phases as a host would.
type WidgetTester struct {
	buildOwner *core.BuildOwner
	root       core.Element
	swap       func(func(core.Widget) core.Widget)
	container  *core.Ref[*dom.Node]
	collector  *standinerrors.Collector
	prev       standinerrors.ErrorHandler
}

// NewWidgetTester creates a tester and routes framework errors to it.
// Call Cleanup() when done, or use NewWidgetTesterWithT() instead.
func NewWidgetTester() *WidgetTester {
	collector := &standinerrors.Collector{}
	return &WidgetTester{
		buildOwner: core.NewBuildOwner(),
		container:  core.NewRef[*dom.Node](),
		collector:  collector,
		prev:       standinerrors.SetHandler(collector),
	}
}

// NewWidgetTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewWidgetTesterWithT(t *testing.T) *WidgetTester {
	tester := NewWidgetTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and restores the previous error handler. Must be
// called if not using NewWidgetTesterWithT.
func (t *WidgetTester) Cleanup() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
		t.swap = nil
	}
	if t.collector != nil {
		standinerrors.SetHandler(t.prev)
		t.collector = nil
	}
}

// PumpWidget mounts (or remounts) a widget inside a div container and runs
// one full frame.
func (t *WidgetTester) PumpWidget(widget core.Widget) error {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
		t.swap = nil
	}

	t.root = core.MountRoot(t.harness(widget), t.buildOwner)
	return t.Pump()
}

// UpdateWidget replaces the widget under the container without remounting,
// so elements whose widgets can be updated keep their state and nodes. It
// mounts the widget if nothing is mounted yet.
func (t *WidgetTester) UpdateWidget(widget core.Widget) error {
	if t.swap == nil {
		return t.PumpWidget(widget)
	}
	t.swap(func(core.Widget) core.Widget { return widget })
	return t.Pump()
}

// Pump runs a single frame: build, then commit effects. It returns the
// errors reported to the framework during the frame.
func (t *WidgetTester) Pump() error {
	t.buildOwner.FlushBuild()
	t.buildOwner.FlushEffects()
	return t.collector.Drain()
}

// PumpAndSettle runs frames until the framework is idle. It returns
// ErrSettleTimeout if work remains after DefaultMaxFrames frames.
func (t *WidgetTester) PumpAndSettle() error {
	var errs []error
	for range DefaultMaxFrames {
		if err := t.Pump(); err != nil {
			errs = append(errs, err)
		}
		if !t.buildOwner.NeedsWork() {
			return errors.Join(errs...)
		}
	}
	return errors.Join(append(errs, ErrSettleTimeout)...)
}

// RootElement returns the root element of the mounted tree.
func (t *WidgetTester) RootElement() core.Element {
	return t.root
}

// Container returns the div node the pumped widget renders into.
func (t *WidgetTester) Container() *dom.Node {
	return t.container.Current
}

// Node returns the first node with data-testid id. Panics if none exists.
func (t *WidgetTester) Node(id string) *dom.Node {
	node := dom.Find(t.Container(), id)
	if node == nil {
		panic("no node with " + dom.TestIDAttr + "=" + id)
	}
	return node
}

// Find evaluates a finder against the current element tree.
func (t *WidgetTester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		elements: finder.Evaluate(t.root),
		finder:   finder,
	}
}

// harness hosts the pumped widget in the container so it can be swapped in
// place.
func (t *WidgetTester) harness(widget core.Widget) core.Widget {
	return core.Stateful(
		func() core.Widget { return widget },
		func(child core.Widget, _ core.BuildContext, setState func(func(core.Widget) core.Widget)) core.Widget {
			t.swap = setState
			return core.Host{
				Tag:      "div",
				NodeRef:  t.container,
				Children: []core.Widget{child},
			}
		},
	)
}
