// Command bloch runs the Bloch language interpreter.
package main

import (
	"os"

	"github.com/bloch-lang/bloch/cmd/bloch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
