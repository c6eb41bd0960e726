// The main package for the catalogctl executable.
package main

import (
	"github.com/JakeFAU/catalog-console/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
