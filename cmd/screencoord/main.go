// Command screencoord captures screen coordinates and measurements.
package main

import (
	"os"
	"runtime"

	"github.com/Iron-Ham/screencoord/internal/cmd"
)

func init() {
	// The overlay window must be driven from the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
