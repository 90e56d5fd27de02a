package main

import (
	"os"

	"github.com/wonny/alpha/cmd/alpha/commands"
)

// main is the entry point for the alpha CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/alpha [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
