// main is the entry point for the pypinfo CLI.
package main

import (
	"github.com/pipstats/pypinfo/cmd"
	"github.com/pipstats/pypinfo/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
