package main

import (
	"context"
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	err := realMain()
	if err != nil {
		os.Exit(1)
	}
}

func realMain() error {
	ctx := context.Background()

	rootCmd := newRootCmd(fmt.Sprintf("%s (commit: %s)", version, commit))
	return rootCmd.ExecuteContext(ctx)
}
