package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/scoreboard"
	"github.com/jpalmerr/scoreboard/config"
)

// newLogger creates a logger for CLI use, writing to stderr.
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// playCmd replays a script against a fresh scoreboard.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Replay a script and print the summary",
	Long: `Replay a scoreboard script and print the summary of matches in progress.

The command will:
  - Load the script from the specified YAML file
  - Apply every round in order, concurrent rounds in parallel per fixture
  - Print the summary, ordered by total score

Replay stops at the first event whose outcome does not match the script,
or when interrupted (Ctrl+C) or sent SIGTERM.

Example:
  scoreboard play -c worldcup.yaml
  scoreboard play -c worldcup.yaml --json
  scoreboard play -c worldcup.yaml --watch`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	playCmd.Flags().Bool("json", false, "print the summary as JSON")
	playCmd.Flags().Bool("watch", false, "print every accepted event as it happens")
	_ = playCmd.MarkFlagRequired("config")
}

// playResult is the JSON form of a finished replay.
type playResult struct {
	Title    string                   `json:"title"`
	Applied  int                      `json:"applied"`
	Rejected int                      `json:"rejected"`
	Summary  []scoreboard.MatchRecord `json:"summary"`
}

func runPlay(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	asJSON, _ := cmd.Flags().GetBool("json")
	watch, _ := cmd.Flags().GetBool("watch")

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Log).With("run_id", uuid.NewString())
	logger.Info("config loaded",
		"title", cfg.Title,
		"rounds", len(cfg.Rounds),
	)

	opts := config.BuildOptions(cfg, logger)
	if watch {
		opts = append(opts, scoreboard.WithEventCallback(func(ev scoreboard.Event) {
			fmt.Printf("%-8s %s\n", ev.Kind, ev.Match.Record())
		}))
	}

	sb, err := scoreboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create scoreboard: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := config.Replay(ctx, sb, cfg)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	logger.Info("replay complete",
		"applied", report.Applied,
		"rejected", report.Rejected,
		"in_progress", sb.Len(),
	)

	summary := sb.Summary()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(playResult{
			Title:    sb.Title(),
			Applied:  report.Applied,
			Rejected: report.Rejected,
			Summary:  summary,
		})
	}

	fmt.Printf("%s\n", sb.Title())
	if len(summary) == 0 {
		fmt.Printf("  no matches in progress\n")
		return nil
	}
	for i, r := range summary {
		fmt.Printf("%d. %s\n", i+1, r)
	}
	return nil
}
