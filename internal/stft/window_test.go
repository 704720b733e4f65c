package stft

import (
	"math"
	"testing"
)

func TestHannWindow_Endpoints(t *testing.T) {
	w := HannWindow(16)
	if w[0] != 0 {
		t.Errorf("expected w[0] == 0, got %v", w[0])
	}
	if math.Abs(w[len(w)-1]) > 1e-9 {
		t.Errorf("expected w[N-1] ~= 0, got %v", w[len(w)-1])
	}
}

func TestHannWindow_PeakAtCenter(t *testing.T) {
	w := HannWindow(17)
	center := len(w) / 2
	if math.Abs(w[center]-1.0) > 1e-9 {
		t.Errorf("expected peak 1.0 at center, got %v", w[center])
	}
	for i, v := range w {
		if v > 1.0+1e-9 || v < 0 {
			t.Errorf("w[%d] = %v out of [0,1] range", i, v)
		}
	}
}

func TestApplyWindow_MultipliesElementwise(t *testing.T) {
	frame := []float64{1, 2, 3, 4}
	window := []float64{0, 0.5, 1, 2}
	applyWindow(frame, window)

	want := []float64{0, 1, 3, 8}
	for i := range want {
		if frame[i] != want[i] {
			t.Errorf("frame[%d] = %v, want %v", i, frame[i], want[i])
		}
	}
}
