// Package main provides recipehubctl, the operator CLI for a RecipeHub data
// directory. Commands open the database directly, so the server must be
// stopped first.
package main

import (
	"fmt"
	"os"
)

// version is stamped into backup manifests. Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
