// Package main is the entry point for the scoreboard CLI.
//
// The scoreboard can be used either as a library (SDK) or through this binary,
// which replays a YAML script of match events and prints the resulting summary.
//
// Usage:
//
//	scoreboard play -c script.yaml     # Replay a script and print the summary
//	scoreboard validate -c script.yaml # Validate a script
//	scoreboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "A live football scoreboard",
	Long: `Scoreboard keeps track of live football matches and their scores.

Matches are started, updated and finished by a YAML script. The summary
lists matches in progress by total score, most recently started first
among equal totals.

Quick start:
  1. Create a script (worldcup.yaml)
  2. Run: scoreboard play -c worldcup.yaml

Example script:
  title: World Cup
  rounds:
    - events:
        - start: Mexico vs Canada
        - update: Mexico vs Canada
          score: 0-5`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this scoreboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scoreboard %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
