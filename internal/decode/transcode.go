package decode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shazoom/internal/errs"
)

// ViaFFmpeg normalizes any ffmpeg-readable input to 16-bit PCM mono at
// targetSampleRateHz, decodes the result, and unlinks the temporary WAV on
// every exit path, per spec.md §6.4. Grounded on the teacher's
// fileformat/convert.go ConvertToWAV/ReformatWav. This is the optional
// external-transcoder path that replaces the in-process low-pass+resample
// stage when used, for container formats decode.File doesn't natively
// understand.
func ViaFFmpeg(inputPath string, targetSampleRateHz int) (Result, error) {
	tempPath := tempWAVPath(inputPath)

	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", inputPath,
		"-c", "pcm_s16le",
		"-ar", fmt.Sprint(targetSampleRateHz),
		"-ac", "1",
		tempPath,
	)

	defer os.Remove(tempPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, errs.New(errs.Input, "decode.ViaFFmpeg",
			fmt.Errorf("transcoding %q: %w: %s", inputPath, err, string(output)))
	}

	return WAV(tempPath)
}

func tempWAVPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(os.TempDir(), fmt.Sprintf("shazoom_%s_%d.wav", base, os.Getpid()))
}
