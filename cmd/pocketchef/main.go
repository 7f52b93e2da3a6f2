// Pocket Chef: share recipes from your terminal.
//
// Usage:
//
//	pocketchef [--config FILE] [--api-url URL] [--plain]
//	pocketchef recipes [--search TEXT]
//	pocketchef login USERNAME PASSWORD
//	pocketchef logout
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
