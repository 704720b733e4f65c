// Command shazoom is the thin CLI surface over internal/pipeline that
// spec.md §1 describes: ingest reference tracks, then recognize a clip
// recorded from the microphone or read from a file against them. It holds
// no recognition logic itself — every operation here is a few lines of
// flag parsing around a Pipeline call.
//
// Grounded on the teacher's main/main.go switch-on-os.Args dispatch,
// restructured onto github.com/spf13/cobra the way zfogg-sidechain's
// cli/internal/cmd package is laid out: one file per command group, a
// shared root command carrying persistent flags, and an init() that wires
// subcommands together.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shazoom/internal/config"
	"shazoom/internal/index"
)

var (
	dbDriver string
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:   "shazoom",
	Short: "Audio fingerprinting and recognition",
	Long: `shazoom fingerprints reference audio tracks and recognizes short
clips against them, Shazam-style: spectrogram peaks, anchor/target hash
pairs, and offset-histogram voting.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db", "", "index backend: postgres (default) or sqlite")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "shazoom.db", "sqlite database file, when --db sqlite")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(recogniseCmd)
	rootCmd.AddCommand(randomTestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// openIndex resolves the configured backend and opens a connection,
// creating the schema on first use. The driver is chosen by --db, falling
// back to SHAZOOM_DB_DRIVER, falling back to postgres.
func openIndex(ctx context.Context, cfg config.Config) (index.Index, error) {
	driver := dbDriver
	if driver == "" {
		driver = config.GetEnv("SHAZOOM_DB_DRIVER", "postgres")
	}

	switch driver {
	case "sqlite":
		return index.NewSQLiteIndex(ctx, dbPath)
	case "postgres":
		return index.NewPostgresIndex(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown --db backend %q (want postgres or sqlite)", driver)
	}
}

// asAdmin narrows idx to the operator-command surface; both shipped
// backends implement it, so this only fails for a future Index
// implementation that doesn't.
func asAdmin(idx index.Index) (index.Admin, error) {
	admin, ok := idx.(index.Admin)
	if !ok {
		return nil, fmt.Errorf("backend does not support admin operations")
	}
	return admin, nil
}
