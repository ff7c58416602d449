// Package mock builds stand-in widgets for tests.
//
// A stand-in replaces a real component in the tree under test. When built it
// renders the properties it was given as inspectable markup and records them
// against its container node, so a test can assert on what a child received
// or invoke a callback it was handed:
//
//	button := mock.Component("Button", nil)
//	tester.PumpWidget(button.With(mock.Props{
//	    "label":   "Save",
//	    "onPress": func() { saved = true },
//	}))
//	props := mock.PropsOf(tester.Node("Button"))
//	onPress, _ := mock.Prop[func()](props, "onPress")
//	onPress()
//
// The container carries data-testid set to the component identifier; each
// property gets a child with data-testid "<id>_prop_<name>". Widget-valued
// properties are rendered as real subtrees. Everything else is formatted with
// format.DefaultOptions and injected as raw inner HTML.
//
// Properties are recorded after the frame commits, never during the build.
// A node queried before its first commit reports no properties.
package mock
