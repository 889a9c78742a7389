package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/client"
	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/formatter"
	"github.com/funkwit/pokemon-go-manager/internal/manager"
	"github.com/funkwit/pokemon-go-manager/internal/storage"
)

var runOnce bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the account and manage it until interrupted",
	Long: `Log in, then repeatedly fetch the inventory, plan and issue actions.

Cycles are separated by the poll interval plus a random jitter. Login is
retried until it succeeds; an expired session triggers a new login. Each
cycle is recorded in the history database.

Examples:
  pgm run                  # Manage the account until Ctrl-C
  pgm run --dry-run        # Log what would be done without doing it
  pgm run --once -o json   # Run a single cycle and print its plan`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single cycle and exit")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tables, graph, err := loadGame(cfg)
	if err != nil {
		return err
	}

	c, err := client.New(cfg.Client)
	if err != nil {
		return err
	}

	opts := []manager.Option{manager.WithLogger(slog.Default())}
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		opts = append(opts, manager.WithStore(store))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := manager.New(c, cfg, tables, graph, opts...)
	if !runOnce {
		return m.Run(ctx)
	}

	if err := c.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	res, err := m.RunCycle(ctx)
	if err != nil {
		return err
	}
	return formatter.WritePlan(os.Stdout, cfg.Output, res.Plan, tables)
}

var errHistoryDisabled = errors.New("history is disabled (store.path is empty)")

// openStore opens the history database, or returns nil when history is
// disabled by an empty store path.
func openStore(ctx context.Context, cfg *config.Config) (*storage.SQLiteStore, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	store := storage.NewSQLiteStore(storage.WithPath(cfg.Store.Path))
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}
