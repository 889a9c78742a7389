package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/funkwit/pokemon-go-manager/internal/gamedata"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the version, the bundled game data and runtime details.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pgm version %s\n", version)
		if tables, err := gamedata.Load(""); err == nil {
			fmt.Printf("  Bundled species: %d\n", len(tables.Names))
		}
		fmt.Printf("  Go version: %s\n", runtime.Version())
		fmt.Printf("  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
