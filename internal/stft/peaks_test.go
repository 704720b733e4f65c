package stft

import (
	"math"
	"testing"
)

func TestExtractPeaks_FindsDominantTone(t *testing.T) {
	const sampleRate = 11025
	const n = 1024

	samples := make([]float64, n)
	freq := 440.0
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	spectrum, err := FFT(samples)
	if err != nil {
		t.Fatalf("FFT returned error: %v", err)
	}

	peaks := ExtractPeaks(spectrum, sampleRate)
	if len(peaks) == 0 {
		t.Fatal("expected at least one peak for a pure tone")
	}

	found := false
	for _, p := range peaks {
		if abs(p.FreqHz-freq) < float64(sampleRate)/n*2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a peak near %.0f Hz, got %v", freq, peaks)
	}
}

func TestExtractPeaks_CapsPerBand(t *testing.T) {
	const sampleRate = 11025
	const n = 2048

	// A broadband noise-like signal should never exceed maxPeaksPerBand
	// peaks in any one band, regardless of how many local maxima exist.
	samples := make([]float64, n)
	seed := uint32(12345)
	for i := range samples {
		seed = seed*1664525 + 1013904223
		samples[i] = float64(int32(seed))/float64(1<<31) - 0.5
	}

	spectrum, err := FFT(samples)
	if err != nil {
		t.Fatalf("FFT returned error: %v", err)
	}

	peaks := ExtractPeaks(spectrum, sampleRate)
	counts := map[Band]int{}
	for _, p := range peaks {
		counts[p.Band]++
	}
	for band, count := range counts {
		if count > maxPeaksPerBand {
			t.Errorf("band %v has %d peaks, want <= %d", band, count, maxPeaksPerBand)
		}
	}
}

func TestExtractPeaks_EmptySpectrumYieldsNoPeaks(t *testing.T) {
	spectrum, err := FFT(make([]float64, 8))
	if err != nil {
		t.Fatalf("FFT returned error: %v", err)
	}
	// All-zero input: no local maxima should pass the frequency filter.
	peaks := ExtractPeaks(spectrum, 11025)
	if len(peaks) != 0 {
		t.Errorf("expected no peaks from a silent frame, got %d", len(peaks))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
