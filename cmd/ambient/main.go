// Command ambient runs the ambient animation engine in a window, a terminal,
// or headless with Prometheus metrics.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
