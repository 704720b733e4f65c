package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shazoom/internal/capture"
	"shazoom/internal/config"
	"shazoom/internal/pipeline"
)

// recogniseCmd records 5-12 seconds from the default input device and
// queries the index with it, grounded on the teacher's main.go "record"
// case and main/recording.go Recording. Duration is fixed per spec.md
// §6.3; capture.Record clamps anything passed to it regardless.
var recogniseCmd = &cobra.Command{
	Use:   "recognise",
	Short: "Record from the microphone and recognize the clip",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("listening...")
		rec := capture.Record(8 * time.Second)
		if rec.Err != nil {
			return rec.Err
		}
		fmt.Printf("captured %.1fs at %d Hz\n", float64(len(rec.Samples))/float64(rec.SampleRate), rec.SampleRate)

		if len(rec.Samples) < rec.SampleRate*minQualitySeconds {
			fmt.Println(color.YellowString("warning: short recording, recognition may be unreliable"))
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
		results, stats, err := p.Query(ctx, rec.Samples, rec.SampleRate, cfg.Tunables.TopK)
		if err != nil {
			return err
		}

		printResults(results, stats)
		return nil
	},
}

const minQualitySeconds = 3
