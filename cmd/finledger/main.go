// Package main is the entry point for the finledger CLI.
package main

import (
	"os"

	"finledger/cmd/finledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
