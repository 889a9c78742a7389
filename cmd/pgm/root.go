package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/evograph"
	"github.com/funkwit/pokemon-go-manager/internal/gamedata"
)

var (
	// Global flags
	dryRun  bool
	verbose bool
	output  string
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pgm",
	Short: "Inventory manager for a creature-collection game account",
	Long: `pgm keeps a game account's inventory in shape. Each cycle it fetches the
inventory, decides which creatures to evolve (and favorites them), which
duplicates to release and which items to discard to stay under the storage
cap, then issues those actions at a measured pace.

Commands:
  run      Poll the account and manage it until interrupted
  plan     Show the plan for the current inventory or a snapshot file
  replay   Plan many snapshot files offline
  history  Show recent cycles
  species  Look up a species, its evolution chain and candy costs
  config   Show the effective configuration
  version  Show version information`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		syncConfigFlagToEnv()
		setupLogging(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Plan and log actions without sending them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json, yaml, csv, markdown, jsonl)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./.pgm/config.yaml)")
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(cfgFile)
	if path == "" {
		return
	}
	_ = os.Setenv("PGM_CONFIG", path)
}

// setupLogging sends structured logs to stderr so command output on stdout
// stays machine readable.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig resolves the layered configuration and applies the global
// flags that were set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("dry-run") {
		cfg.Actions.DryRun = dryRun
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	setupLogging(cfg.Verbose)
	return cfg, nil
}

// loadGame loads and validates the game tables and builds the evolution graph.
func loadGame(cfg *config.Config) (*gamedata.Tables, *evograph.Graph, error) {
	tables, err := gamedata.Load(cfg.GameData)
	if err != nil {
		return nil, nil, fmt.Errorf("load game data: %w", err)
	}
	if err := tables.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid game data: %w", err)
	}
	graph, err := evograph.New(tables.Evolutions, tables.CandyCosts)
	if err != nil {
		return nil, nil, fmt.Errorf("build evolution graph: %w", err)
	}
	return tables, graph, nil
}
