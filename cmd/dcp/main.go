// Command dcp computes dynamical Casimir quantities from the command line.
//
// Usage:
//
//	dcp reflect --law sinusoidal --e 0.1 --q 2 --z 3.2
//	dcp spectrum --law sinusoidal --e 0.1 --q 2 --t 4 --nmax 10 --mmax 30
//	dcp about
package main

import (
	"fmt"
	"os"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := newCLIApp()
	if err := app.Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
