// Command tsx lexes, parses, type-checks, and runs the TypeScript subset
// pkg/engine implements.
package main

import (
	"fmt"
	"os"

	"github.com/mvendel/go-tsx/cmd/tsx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
