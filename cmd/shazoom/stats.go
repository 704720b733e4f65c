package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shazoom/internal/config"
)

// statsCmd prints database-wide counts, grounded on the teacher's main.go
// "stats" case.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()
		idx, err := openIndex(ctx, cfg)
		if err != nil {
			return err
		}
		defer idx.Close()

		admin, err := asAdmin(idx)
		if err != nil {
			return err
		}

		stats, err := admin.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("songs: %d\nfingerprints: %d\n", stats.TotalSongs, stats.TotalFingerprints)
		return nil
	},
}
