package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"foodreel/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode separates setup and input problems (2) from run failures (1).
func exitCode(err error) int {
	if services.IsFatal(err) {
		return 2
	}
	return 1
}
