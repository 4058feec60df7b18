package main

import (
	"fmt"
	"os"

	"podscribe/cmd/podscribe/cmd"
	"podscribe/internal/config"
)

func main() {
	// Load .env early so every command sees the same environment. Missing
	// credentials are reported by the commands that need them.
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cmd.Execute()
}
