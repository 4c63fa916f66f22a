// Package main is the entry point for the jj-analyze CLI tool.
package main

import (
	"os"

	"github.com/scott2000/jj-analyze/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
