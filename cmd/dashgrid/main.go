// Package main is the entry point for the dashgrid CLI.
package main

import (
	"os"

	"github.com/nodeset-analytics/dashgrid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
