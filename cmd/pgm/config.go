package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/formatter"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration pgm would run with.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (PGM_*)
  3. Project config (.pgm/config.yaml, or PGM_CONFIG)
  4. Home config (~/.pgm/config.yaml)
  5. Defaults

Environment variables:
  PGM_CONFIG           - Explicit project config file path
  PGM_OUTPUT           - Default output format
  PGM_VERBOSE          - Enable debug logging (true/1)
  PGM_GAME_DATA        - Species tables file (default: embedded)
  PGM_CLIENT_MODE      - Client mode (http|file)
  PGM_ENDPOINT         - HTTP bridge base URL
  PGM_SNAPSHOT_FILE    - Snapshot read by the file client
  PGM_USERNAME / PGM_PASSWORD / PGM_PROVIDER - Login credentials
  PGM_POLL_INTERVAL / PGM_POLL_JITTER / PGM_ACTION_DELAY - Loop timing (e.g. 10m)
  PGM_DRY_RUN          - Log actions without sending them
  PGM_ENABLE_DISCARD / PGM_ENABLE_RELEASE / PGM_ENABLE_FAVORITE - Action toggles
  PGM_STORE_PATH       - History database (empty disables history)

Examples:
  pgm config
  pgm config -o yaml > .pgm/config.yaml`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	switch cfg.Output {
	case formatter.FormatJSON:
		return formatter.WriteJSON(os.Stdout, cfg)
	case formatter.FormatYAML:
		shown := *cfg
		if shown.Client.Password != "" {
			shown.Client.Password = "****"
		}
		return formatter.WriteYAML(os.Stdout, &shown)
	}

	fmt.Println("pgm configuration")
	fmt.Println("=================")
	fmt.Println()

	fmt.Println("Config files:")
	origins := config.Origins()
	for _, src := range []config.Source{config.SourceHome, config.SourceProject} {
		if path, ok := origins[src]; ok {
			fmt.Printf("  ✓ %s\n", path)
		} else {
			fmt.Printf("  ✗ %s (not found)\n", src)
		}
	}

	fmt.Println()
	fmt.Println("Resolved values:")
	t := formatter.NewTable(os.Stdout, "KEY", "VALUE")
	t.AddRow("client.mode", cfg.Client.Mode)
	t.AddRow("client.endpoint", cfg.Client.Endpoint)
	t.AddRow("client.username", cfg.Client.Username)
	t.AddRow("client.provider", cfg.Client.Provider)
	t.AddRow("loop.poll_interval", cfg.Loop.PollInterval)
	t.AddRow("loop.poll_jitter", cfg.Loop.PollJitter)
	t.AddRow("loop.action_delay", cfg.Loop.ActionDelay)
	t.AddRow("planner.cp_threshold_factor", cfg.Planner.CPThresholdFactor)
	t.AddRow("planner.similar", fmt.Sprintf("%d..%d", cfg.Planner.MinSimilar, cfg.Planner.MaxSimilar))
	t.AddRow("planner.easy_evolutions", cfg.Planner.EasyEvolutions)
	t.AddRow("items.buffer", cfg.Items.Buffer)
	t.AddRow("items.targets", cfg.Items.Targets())
	t.AddRow("actions", actionSummary(cfg.Actions))
	t.AddRow("store.path", cfg.Store.Path)
	if err := t.Render(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Environment variables (if set):")
	var set []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PGM_") {
			if strings.HasPrefix(kv, "PGM_PASSWORD=") {
				kv = "PGM_PASSWORD=****"
			}
			set = append(set, kv)
		}
	}
	slices.Sort(set)
	if len(set) == 0 {
		fmt.Println("  (none set)")
	}
	for _, kv := range set {
		fmt.Printf("  %s\n", kv)
	}
	return nil
}

func actionSummary(a config.ActionsConfig) string {
	var on []string
	if a.Discard {
		on = append(on, "discard")
	}
	if a.Favorite {
		on = append(on, "favorite")
	}
	if a.Release {
		on = append(on, "release")
	}
	if len(on) == 0 {
		on = append(on, "none")
	}
	s := strings.Join(on, ",")
	if a.DryRun {
		s += " (dry run)"
	}
	return s
}
