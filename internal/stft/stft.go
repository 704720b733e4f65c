package stft

import (
	"fmt"

	"shazoom/internal/errs"
)

// FrameDistribution is one frame's peak list with its timestamp, per
// spec.md §3.
type FrameDistribution struct {
	TimeSeconds float64
	Peaks       []Peak
}

// Engine iterates overlapping Hann-windowed frames over a sample buffer and
// reduces each to a peak list, per spec.md §4.2. Grounded on the teacher's
// core/spectrogram.go and main/pipeline/spectogram.go Spectrogram
// functions, split out so frame iteration, windowing, FFT, and peak
// extraction are independently testable units.
type Engine struct {
	ChunkSize    int
	OverlapSize  int
	SampleRateHz int

	window []float64
}

// NewEngine validates chunkSize is a power of two and overlap < chunk,
// per spec.md §3's invariant, rejecting otherwise with a programming-error
// signal (spec.md §8 scenario S6).
func NewEngine(chunkSize, overlapSize, sampleRateHz int) (*Engine, error) {
	if chunkSize <= 0 || chunkSize&(chunkSize-1) != 0 {
		return nil, errs.New(errs.Programming, "stft.NewEngine",
			fmt.Errorf("chunk size %d is not a power of two", chunkSize))
	}
	if overlapSize < 0 || overlapSize >= chunkSize {
		return nil, errs.New(errs.Programming, "stft.NewEngine",
			fmt.Errorf("overlap size %d must be in [0, chunk size %d)", overlapSize, chunkSize))
	}
	return &Engine{
		ChunkSize:    chunkSize,
		OverlapSize:  overlapSize,
		SampleRateHz: sampleRateHz,
		window:       HannWindow(chunkSize),
	}, nil
}

// Process runs the frame iteration -> window -> FFT -> peak extraction
// pipeline over samples and returns one FrameDistribution per frame, in
// ascending frame-index (hence ascending time) order, per spec.md §5's
// ordering guarantee.
func (e *Engine) Process(samples []float64) ([]FrameDistribution, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	hop := e.ChunkSize - e.OverlapSize
	var frames []FrameDistribution

	for start := 0; start+e.ChunkSize <= len(samples); start += hop {
		frame := make([]float64, e.ChunkSize)
		copy(frame, samples[start:start+e.ChunkSize])
		applyWindow(frame, e.window)

		spectrum, err := FFT(frame)
		if err != nil {
			return nil, err
		}

		peaks := ExtractPeaks(spectrum, e.SampleRateHz)
		frames = append(frames, FrameDistribution{
			TimeSeconds: float64(start) / float64(e.SampleRateHz),
			Peaks:       peaks,
		})
	}

	return frames, nil
}
