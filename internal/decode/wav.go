package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"shazoom/internal/errs"
)

// WAV decodes a WAV file to mono PCM samples, grounded on the teacher's
// main/upload.go LoadWAVFile.
func WAV(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, errs.New(errs.Input, "decode.WAV", fmt.Errorf("opening %q: %w", path, err))
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Result{}, errs.New(errs.Input, "decode.WAV", fmt.Errorf("%q is not a valid WAV file", path))
	}

	format := decoder.Format()
	const bufferSize = 8192
	buffer := &audio.IntBuffer{Data: make([]int, bufferSize), Format: format}

	var interleaved []float64
	for {
		n, err := decoder.PCMBuffer(buffer)
		if err != nil {
			if err == io.EOF {
				break
			}
			return Result{}, errs.New(errs.Input, "decode.WAV", fmt.Errorf("reading PCM data: %w", err))
		}
		if n == 0 {
			break
		}
		interleaved = append(interleaved, int16ToFloat64(buffer.Data[:n])...)
		if n < bufferSize {
			break
		}
	}

	samples := interleaved
	if format.NumChannels == 2 {
		samples = stereoToMono(interleaved)
	}

	return Result{Samples: samples, SampleRate: int(format.SampleRate)}, nil
}
