// Package main is the entry point for the htmlscrub CLI.
package main

import (
	"os"

	"github.com/jmylchreest/htmlscrub/cmd/htmlscrub/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
