// Package main provides the terminal driver for the DataHire job-matching
// workspace.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workspace",
	Short: "DataHire job-matching workspace",
	Long:  "Browse job listings with AI match scores, inspect match analyses, optimize, apply, and chat with the assistant. All scoring and reasoning happens on the remote DataHire API; this tool drives the workspace state from a terminal.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
