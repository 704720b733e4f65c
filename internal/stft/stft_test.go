package stft

import (
	"math"
	"testing"

	"shazoom/internal/errs"
)

func TestNewEngine_RejectsNonPowerOfTwoChunkSize(t *testing.T) {
	_, err := NewEngine(100, 50, 11025)
	if !errs.Is(err, errs.Programming) {
		t.Fatalf("expected a programming error, got %v", err)
	}
}

func TestNewEngine_RejectsOverlapAtOrAboveChunkSize(t *testing.T) {
	_, err := NewEngine(1024, 1024, 11025)
	if !errs.Is(err, errs.Programming) {
		t.Fatalf("expected a programming error, got %v", err)
	}
}

func TestEngine_Process_FramesInAscendingTimeOrder(t *testing.T) {
	engine, err := NewEngine(1024, 512, 11025)
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	samples := make([]float64, 11025*2)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 11025)
	}

	frames, err := engine.Process(samples)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("expected at least one frame")
	}

	for i := 1; i < len(frames); i++ {
		if frames[i].TimeSeconds <= frames[i-1].TimeSeconds {
			t.Errorf("frame %d time %v not strictly after frame %d time %v",
				i, frames[i].TimeSeconds, i-1, frames[i-1].TimeSeconds)
		}
	}
}

func TestEngine_Process_EmptyInputYieldsNoFrames(t *testing.T) {
	engine, err := NewEngine(1024, 512, 11025)
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	frames, err := engine.Process(nil)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("expected no frames for empty input, got %d", len(frames))
	}
}
