// Chromquant assigns chromatographic peaks to species and derives
// concentration time courses from them.
package main

import (
	"fmt"
	"os"

	"github.com/kinetechlab/chromquant/cmd/chromquant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
