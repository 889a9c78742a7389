package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/formatter"
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/planner"
	"github.com/funkwit/pokemon-go-manager/internal/types"
	"github.com/funkwit/pokemon-go-manager/internal/worker"
)

var replayConcurrency int

var replayCmd = &cobra.Command{
	Use:   "replay <snapshot.json>...",
	Short: "Plan many snapshot files offline",
	Long: `Plan each snapshot file with the current configuration and summarize the
results, one line per file. Files are processed concurrently; a file that
cannot be read or references unknown species is reported, not fatal.

Examples:
  pgm replay snapshots/*.json
  pgm replay -o jsonl --concurrency 8 snapshots/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().IntVar(&replayConcurrency, "concurrency", runtime.NumCPU(), "Number of snapshots planned in parallel")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tables, graph, err := loadGame(cfg)
	if err != nil {
		return err
	}
	p := planner.New(cfg, graph)

	pool := worker.NewPool[formatter.ReplayResult](replayConcurrency)
	results := pool.Process(cmd.Context(), args, func(_ context.Context, path string) (formatter.ReplayResult, error) {
		res := formatter.ReplayResult{File: path}
		snap, err := inventory.ReadSnapshot(path)
		if err != nil {
			return res, err
		}
		if res.Digest, err = snap.Digest(); err != nil {
			return res, err
		}
		inv := inventory.Parse(snap.Records)
		res.Creatures = inv.CreatureCount()
		if err := inv.Validate(tables); err != nil {
			return res, err
		}
		plan := p.Plan(inv, types.PlayerLimits{MaxItemStorage: snap.MaxItemStorage})
		res.Evolve = len(plan.Evolve)
		res.Favorites = len(plan.Favorites)
		res.Release = len(plan.Release)
		res.Discard = plan.DiscardTotal()
		return res, nil
	})

	out := make([]formatter.ReplayResult, len(results))
	failed := 0
	for i, r := range results {
		out[i] = r.Value
		out[i].File = r.Item
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed++
		}
	}
	if err := formatter.WriteReplay(os.Stdout, cfg.Output, out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snapshots failed", failed, len(args))
	}
	return nil
}
