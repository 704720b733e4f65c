package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shazoom/internal/config"
)

var cleanYes bool

// cleanCmd deletes every song and its fingerprints, grounded on the
// teacher's main.go "clean" case including its interactive confirmation
// prompt (--yes skips it for scripted use).
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all songs and fingerprints from the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cleanYes {
			fmt.Print("this will delete ALL songs and fingerprints. Are you sure? (yes/no): ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			if strings.TrimSpace(response) != "yes" {
				fmt.Println("cancelled")
				return nil
			}
		}

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

		for i, s := range songs {
			if err := admin.DeleteSong(ctx, s.ID); err != nil {
				fmt.Fprintln(os.Stderr, color.RedString("  [%d/%d] deleting %q: %v", i+1, len(songs), s.Title, err))
				continue
			}
			fmt.Printf("  [%d/%d] deleted %q\n", i+1, len(songs), s.Title)
		}
		fmt.Println(color.GreenString("index cleaned"))
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanYes, "yes", false, "skip the confirmation prompt")
}
