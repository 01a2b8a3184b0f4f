// Package main is the entry point for the shelf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/five82/shelf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		os.Exit(1)
	}
}
