package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shazoom/internal/config"
	"shazoom/internal/decode"
	"shazoom/internal/pipeline"
)

var randomTestDir string

// randomTestCmd is spec.md §6.3's "random_test" mode, grounded directly on
// original_source/src/tester.rs's run_random_snippet_test: for every
// already-ingested song in a directory, take snippetsPerSong random
// windows and query each one against the index, tallying how many land on
// the song's own title. Songs too short for even one safe snippet are
// skipped, the same min-length guard tester.rs applies before slicing.
// The final aggregate accuracy line is the whole point of the command —
// a single random file/clip wouldn't say anything about the index as a
// whole, only about one lucky or unlucky draw.
var randomTestCmd = &cobra.Command{
	Use:   "random-test",
	Short: "Query random snippets from every song in a directory and report aggregate accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if randomTestDir == "" {
			return fmt.Errorf("--dir is required")
		}

		paths, err := audioFilesIn(randomTestDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no audio files found in %q", randomTestDir)
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

		var correct, total int
		for _, path := range paths {
			expectedTitle := titleFromPath(path)

			decoded, err := decode.File(path)
			if err != nil {
				fmt.Println(color.YellowString("  skip %s: %v", path, err))
				continue
			}

			minLen := (snippetDurationSeconds + snippetSafetyMarginSeconds) * decoded.SampleRate
			if len(decoded.Samples) < minLen {
				fmt.Printf("  skip %s: too short for a %ds snippet\n", path, snippetDurationSeconds)
				continue
			}

			for i := 0; i < snippetsPerSong; i++ {
				clipSamples, clipRate := randomSnippet(decoded.Samples, decoded.SampleRate)

				results, _, err := p.Query(ctx, clipSamples, clipRate, 1)
				if err != nil {
					return err
				}

				total++
				if len(results) > 0 && results[0].Title == expectedTitle {
					correct++
					fmt.Println(color.GreenString("  PASS %s [snippet %d]: %s", path, i+1, results[0].Title))
				} else {
					got := "no match"
					if len(results) > 0 {
						got = results[0].Title
					}
					fmt.Println(color.RedString("  FAIL %s [snippet %d]: expected %q, got %q", path, i+1, expectedTitle, got))
				}
			}
		}

		if total == 0 {
			return fmt.Errorf("no snippets were tested (every song too short)")
		}

		accuracy := float64(correct) / float64(total) * 100.0
		fmt.Printf("\naccuracy: %d/%d (%.1f%%)\n", correct, total, accuracy)
		return nil
	},
}

// Matching original_source/src/tester.rs's SNIPPETS_PER_SONG and
// SNIPPET_DURATION_SECS constants, plus its 5-second safety margin before
// a song is considered long enough to slice at all.
const (
	snippetsPerSong            = 3
	snippetDurationSeconds     = 10
	snippetSafetyMarginSeconds = 5
)

// randomSnippet picks a random snippetDurationSeconds window from samples.
func randomSnippet(samples []float64, sampleRateHz int) ([]float64, int) {
	windowLen := snippetDurationSeconds * sampleRateHz
	if windowLen >= len(samples) {
		return samples, sampleRateHz
	}

	start := rand.Intn(len(samples) - windowLen)
	return samples[start : start+windowLen], sampleRateHz
}

func init() {
	randomTestCmd.Flags().StringVar(&randomTestDir, "dir", "", "directory of already-ingested audio files")
}
