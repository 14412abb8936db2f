// Package main is the entry point for the arbitrage service.
package main

import (
	"os"

	"github.com/CloudDevelopmentGroup/arbitrage/cmd/arbitrage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
