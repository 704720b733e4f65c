// Package capture implements the microphone collaborator of spec.md §5
// over github.com/gordonklaus/portaudio. Record opens a blocking input
// stream and reads it from the calling goroutine until the requested
// duration has elapsed, appending each PCM frame into a mutex-guarded
// buffer; it then stops the stream and takes ownership of the accumulated
// samples. No device callback or background thread is used: Record itself
// is the only writer, so after Stop there are no further writers.
// Grounded on the teacher's main/recording.go Recording/RecordingWithInfo.
package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"shazoom/internal/errs"
)

const (
	minRecordDuration = 5 * time.Second
	maxRecordDuration = 12 * time.Second
	minQualitySampleHz = 22050
	defaultSampleHz    = 44100
)

// Result is a completed recording: mono samples, the device's actual
// sample rate, and any device error observed during capture. A non-nil Err
// reports a degraded result based on whatever was captured before the
// error, per spec.md §7's device-error policy — it is not returned as a Go
// error so the caller can still inspect partial samples.
type Result struct {
	Samples    []float64
	SampleRate int
	Err        error
}

// Record opens the default input device and records for duration, clamped
// to [5s, 12s] per spec.md §6.3's "recognise" mode. It returns once the
// stream is stopped and the capture buffer's exclusive owner.
func Record(duration time.Duration) Result {
	if duration < minRecordDuration {
		duration = minRecordDuration
	}
	if duration > maxRecordDuration {
		duration = maxRecordDuration
	}

	if err := portaudio.Initialize(); err != nil {
		return Result{Err: errs.New(errs.Device, "capture.Record", fmt.Errorf("initializing portaudio: %w", err))}
	}
	defer portaudio.Terminate()

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return Result{Err: errs.New(errs.Device, "capture.Record", fmt.Errorf("no default input device: %w", err))}
	}

	sampleRate := device.DefaultSampleRate
	if sampleRate < minQualitySampleHz {
		sampleRate = defaultSampleHz
	}

	params := portaudio.HighLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = sampleRate
	params.FramesPerBuffer = 2048

	var (
		mu     sync.Mutex
		buffer []int16
	)
	frame := make([]int16, 2048)

	stream, err := portaudio.OpenStream(params, frame)
	if err != nil {
		return Result{Err: errs.New(errs.Device, "capture.Record", fmt.Errorf("opening stream: %w", err))}
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return Result{Err: errs.New(errs.Device, "capture.Record", fmt.Errorf("starting stream: %w", err))}
	}

	var captureErr error
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if err := stream.Read(); err != nil {
			captureErr = errs.New(errs.Device, "capture.Record", fmt.Errorf("reading stream: %w", err))
			break
		}
		mu.Lock()
		buffer = append(buffer, frame...)
		mu.Unlock()
	}

	if err := stream.Stop(); err != nil && captureErr == nil {
		captureErr = errs.New(errs.Device, "capture.Record", fmt.Errorf("stopping stream: %w", err))
	}

	// The read loop above was the only writer and has ended: this read
	// needs no lock, but taking it anyway documents the hand-off boundary.
	mu.Lock()
	owned := buffer
	mu.Unlock()

	samples := make([]float64, len(owned))
	for i, s := range owned {
		samples[i] = float64(s) / 32768.0
	}

	return Result{
		Samples:    samples,
		SampleRate: int(stream.Info().SampleRate),
		Err:        captureErr,
	}
}
