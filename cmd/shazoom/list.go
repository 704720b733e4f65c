package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shazoom/internal/config"
)

// listCmd lists every ingested song, grounded on the teacher's main.go
// "list" case.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all songs in the index",
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

		songs, err := admin.ListSongs(ctx)
		if err != nil {
			return err
		}

		if len(songs) == 0 {
			fmt.Println("no songs in index")
			return nil
		}

		for _, s := range songs {
			fmt.Printf("[%d] %s (added %s)\n", s.ID, s.Title, s.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
