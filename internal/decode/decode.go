// Package decode is the "Decoder (external)" collaborator of spec.md §2:
// it turns a container/codec file into mono PCM samples at the file's
// native sample rate. This is explicitly out of scope for the core per
// spec.md §1 ("container demuxing and codec decoding... supplied by a
// media-decode library"); this package is that supplied library boundary,
// grounded on the teacher's main/upload.go LoadWAVFile/LoadMP3File/
// StereoToMono, generalized with a FLAC path the teacher's go.mod carried
// as an indirect dependency (github.com/mewkiz/flac, via
// DanielCarmel-media-luna) but never reached.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"shazoom/internal/errs"
)

// Result is the decoder's output: mono samples in [-1.0, 1.0] plus the
// file's native sample rate, matching spec.md §2 stage 1's contract.
type Result struct {
	Samples    []float64
	SampleRate int
}

// File dispatches to the decoder matching path's extension.
func File(path string) (Result, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return WAV(path)
	case ".mp3":
		return MP3(path)
	case ".flac":
		return FLAC(path)
	default:
		return Result{}, errs.New(errs.Input, "decode.File", fmt.Errorf("unsupported file extension %q", ext))
	}
}

// int16ToFloat64 converts signed 16-bit PCM samples to the engine's
// [-1.0, 1.0] floating-point convention (spec.md §3's Sample range).
func int16ToFloat64(samples []int) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(int16(s)) / 32768.0
	}
	return out
}

// stereoToMono averages left/right channels, grounded on the teacher's
// main/upload.go StereoToMono.
func stereoToMono(interleaved []float64) []float64 {
	n := len(interleaved) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = (interleaved[2*i] + interleaved[2*i+1]) / 2
	}
	return out
}
