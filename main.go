// Package main is the entry point for the opsreport CLI.
package main

import (
	"github.com/huangsam/opsreport/cmd"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/internal/history"
)

func main() {
	err := cmd.Execute()

	// Release resources before LogFatal exits
	history.CloseHistory()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}

	if err != nil {
		contract.LogFatal("Error executing command", err)
	}
}
