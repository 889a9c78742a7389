package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/client"
	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/formatter"
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/planner"
)

var (
	planSnapshot string
	planArchived string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the plan for the current inventory or a snapshot",
	Long: `Compute the evolve, favorite, release and discard plan without acting on it.

By default the inventory is fetched from the configured client. A snapshot
file or an archived snapshot digest (see 'pgm history -o json') can be
planned instead.

Examples:
  pgm plan
  pgm plan --snapshot inventory.json -o markdown
  pgm plan --archived 3f1c... -o csv`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planSnapshot, "snapshot", "", "Plan a snapshot file instead of the live inventory")
	planCmd.Flags().StringVar(&planArchived, "archived", "", "Plan an archived snapshot by digest")
	planCmd.MarkFlagsMutuallyExclusive("snapshot", "archived")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tables, graph, err := loadGame(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var c client.Client
	switch {
	case planSnapshot != "":
		c = client.NewFile(planSnapshot)
	case planArchived != "":
		snap, err := archivedSnapshot(ctx, cfg, planArchived)
		if err != nil {
			return err
		}
		c = client.NewStatic(snap)
	default:
		if c, err = client.New(cfg.Client); err != nil {
			return err
		}
		if err := c.Login(ctx); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	limits, err := c.FetchPlayerLimits(ctx)
	if err != nil {
		return fmt.Errorf("fetch player limits: %w", err)
	}
	records, err := c.FetchInventorySnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch inventory: %w", err)
	}

	inv := inventory.Parse(records)
	if err := inv.Validate(tables); err != nil {
		return err
	}
	plan := planner.New(cfg, graph).Plan(inv, limits)
	return formatter.WritePlan(os.Stdout, cfg.Output, plan, tables)
}

func archivedSnapshot(ctx context.Context, cfg *config.Config, digest string) (*inventory.Snapshot, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errHistoryDisabled
	}
	defer func() { _ = store.Close() }()

	snap, ok, err := store.GetSnapshot(ctx, digest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no archived snapshot %q", digest)
	}
	return snap, nil
}
