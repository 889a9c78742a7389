package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/formatter"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent cycles",
	Long: `List recorded cycles, newest first, with their action counts and errors.

Examples:
  pgm history
  pgm history --limit 0 -o csv > cycles.csv`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum cycles to show (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errHistoryDisabled
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListCycles(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return formatter.WriteHistory(os.Stdout, cfg.Output, records, time.Now())
}
