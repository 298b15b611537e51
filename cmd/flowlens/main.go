// main is the entry point for the flowlens CLI.
package main

import (
	"os"

	"github.com/flowlens/flowlens/cmd"
	"github.com/flowlens/flowlens/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
