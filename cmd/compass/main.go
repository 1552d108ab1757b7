// Command compass recommends management frameworks for a company context
// and plans a phased adoption journey.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "compass:", err)
		os.Exit(exitCode(err))
	}
}
