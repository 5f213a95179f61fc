package main

import (
	"os"

	"github.com/ShrayBagga/StockAnalysis/cmd/stockanalysis/commands"
)

// main is the entry point for the StockAnalysis CLI
// ⭐ Unified CLI entry point: go run ./cmd/stockanalysis [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
