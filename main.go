// ABOUTME: Entry point for the gitpush CLI application.
// ABOUTME: Delegates execution to the cli package.
package main

import (
	"os"

	"github.com/harper/gitpush/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
