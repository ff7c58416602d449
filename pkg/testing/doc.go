// Package testing provides a widget testing framework for standin.
//
// # Quick Start
//
// Create a tester, pump a widget, and make assertions:
//
//	func TestToolbar(t *testing.T) {
//	    button := mock.Component("Button", nil)
//	    tester := standintest.NewWidgetTesterWithT(t)
//	    if err := tester.PumpWidget(Toolbar{Button: button}); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    // Find nodes and elements
//	    props := mock.PropsOf(tester.Node("Button"))
//	    if !tester.Find(standintest.ByTestID("Button_prop_label")).Exists() {
//	        t.Error("expected a label property")
//	    }
//	}
//
// Pump runs one frame: the build, then the post-commit effects. Errors the
// framework reports during the frame, such as recovered build panics and
// duplicate keys, are returned from Pump. UpdateWidget swaps the pumped
// widget in place so mounted state and nodes survive.
//
// # Snapshot Testing
//
// Capture and compare the rendered markup against golden files:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/toolbar.snapshot.yaml")
//
// MatchesSnapshot resolves the file from the snapshot directory configured
// in standin.yaml. Update snapshots with:
//
//	STANDIN_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import standintest "github.com/go-drift/standin/pkg/testing"
package testing
