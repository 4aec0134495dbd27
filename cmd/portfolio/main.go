// Command portfolio serves the portfolio site and its admin panel, and
// provides maintenance commands for the stored content document.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
