package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shazoom/internal/config"
	"shazoom/internal/pipeline"
)

var matchFile string

// matchCmd queries the index with a file on disk instead of a live
// recording — the "record" command's query half, applied to an already-
// captured clip, per spec.md §6.3's match operation.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Recognize an audio file against the stored index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if matchFile == "" {
			return fmt.Errorf("--file is required")
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

		p := pipeline.New(idx, cfg.Tunables)
		results, stats, err := p.QueryFile(ctx, matchFile, cfg.Tunables.TopK)
		if err != nil {
			return err
		}

		printResults(results, stats)
		return nil
	},
}

// printResults renders a recognition result the way the teacher's
// main.go "record" case does: processing stats first, then the winning
// match or a clear "no match" line.
func printResults(results []pipeline.MatchResult, stats pipeline.QueryStats) {
	fmt.Printf("peaks extracted: %d | hashes generated: %d | database matches: %d | candidates: %d | processing time: %v\n",
		stats.TotalPeaks, stats.TotalHashes, stats.DatabaseMatches, stats.CandidateCount, stats.ProcessingTime)

	if len(results) == 0 {
		fmt.Println(color.YellowString("no match found"))
		return
	}

	best := results[0]
	fmt.Printf("%s %s (song #%d)\n", color.GreenString("match:"), best.Title, best.SongID)
	fmt.Printf("  score: %d | time offset: %.1fs\n", best.Score, best.TimeOffsetSec)

	if len(results) > 1 {
		fmt.Println("runners-up:")
		for _, r := range results[1:] {
			fmt.Printf("  %s (song #%d) score %d\n", r.Title, r.SongID, r.Score)
		}
	}
}

func init() {
	matchCmd.Flags().StringVar(&matchFile, "file", "", "path to the audio clip to recognize")
}
