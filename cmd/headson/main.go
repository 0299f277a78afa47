// Package main is the entry point for the headson CLI tool.
package main

import (
	"os"

	"github.com/headson/headson/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
