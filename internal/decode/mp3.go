package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"shazoom/internal/errs"
)

// MP3 decodes an MP3 file to mono PCM samples, grounded on the teacher's
// main/upload.go LoadMP3File. go-mp3 always decodes to 16-bit stereo PCM.
func MP3(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, errs.New(errs.Input, "decode.MP3", fmt.Errorf("opening %q: %w", path, err))
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return Result{}, errs.New(errs.Input, "decode.MP3", fmt.Errorf("decoding %q: %w", path, err))
	}

	const bufferSize = 8192
	buffer := make([]byte, bufferSize)
	var interleaved []float64

	for {
		n, err := decoder.Read(buffer)
		for i := 0; i+1 < n; i += 2 {
			sample := int16(binary.LittleEndian.Uint16(buffer[i : i+2]))
			interleaved = append(interleaved, float64(sample)/32768.0)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return Result{}, errs.New(errs.Input, "decode.MP3", fmt.Errorf("reading MP3 data: %w", err))
		}
	}

	return Result{Samples: stereoToMono(interleaved), SampleRate: decoder.SampleRate()}, nil
}
