// Command standin previews how stand-in widgets format property values and
// inspects the snapshot configuration of a module.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/standin/cmd/standin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
