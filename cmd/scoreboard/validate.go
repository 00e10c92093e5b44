package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/scoreboard/config"
)

// validateCmd validates a script without replaying it.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a scoreboard script without replaying it.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI pipelines or checking a script before a run.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  scoreboard validate -c worldcup.yaml
  scoreboard validate --config ./scripts/worldcup.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	total := 0
	for _, r := range cfg.Rounds {
		total += len(r.Events)
	}
	counts := config.CountActions(cfg)

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Title:  %s\n", cfg.Title)
	fmt.Printf("  Rounds: %d\n", len(cfg.Rounds))
	fmt.Printf("  Events: %d (%d start, %d update, %d finish)\n",
		total, counts[config.ActionStart], counts[config.ActionUpdate], counts[config.ActionFinish])

	return nil
}
