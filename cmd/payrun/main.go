// Package main is the entry point for the Payrun CLI.
package main

import (
	"os"

	"github.com/payrun/payrun/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
