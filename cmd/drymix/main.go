// Package main provides the command line interface for drymix.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	derrors "github.com/five82/drymix/internal/errors"
)

const (
	appName    = "drymix"
	appVersion = "0.1.0"
)

func main() {
	// Tool path overrides may live in a local .env file.
	_ = godotenv.Load()

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !isCancellation(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// isCancellation reports whether err only records that the user stopped the run.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || derrors.IsCancelled(err)
}
