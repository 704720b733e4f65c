package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"shazoom/internal/errs"
)

// FLAC decodes a FLAC file to mono PCM samples using mewkiz/flac — a
// decoder format the teacher's go.mod carried as an indirect dependency
// (via DanielCarmel-media-luna's flac/bitio stack) without any file
// actually reaching it.
func FLAC(path string) (Result, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return Result{}, errs.New(errs.Input, "decode.FLAC", fmt.Errorf("opening %q: %w", path, err))
	}
	defer stream.Close()

	info := stream.Info
	scale := float64(int64(1) << (info.BitsPerSample - 1))

	var interleaved []float64
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Result{}, errs.New(errs.Input, "decode.FLAC", fmt.Errorf("reading frame: %w", err))
		}

		numSamples := len(frame.Subframes[0].Samples)
		for i := 0; i < numSamples; i++ {
			if len(frame.Subframes) == 1 {
				interleaved = append(interleaved, float64(frame.Subframes[0].Samples[i])/scale)
				continue
			}
			left := float64(frame.Subframes[0].Samples[i]) / scale
			right := float64(frame.Subframes[1].Samples[i]) / scale
			interleaved = append(interleaved, left, right)
		}
	}

	samples := interleaved
	if info.NChannels == 2 {
		samples = stereoToMono(interleaved)
	}

	return Result{Samples: samples, SampleRate: int(info.SampleRate)}, nil
}
