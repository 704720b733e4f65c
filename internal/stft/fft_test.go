package stft

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFT_BasicSignal(t *testing.T) {
	sampleRate := 1000.0
	frequency := 10.0
	numSamples := 64

	signal := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		signal[i] = math.Sin(2 * math.Pi * frequency * float64(i) / sampleRate)
	}

	result, err := FFT(signal)
	if err != nil {
		t.Fatalf("FFT returned error: %v", err)
	}
	if len(result) != numSamples {
		t.Fatalf("expected output length %d, got %d", numSamples, len(result))
	}

	expectedBin := int(frequency * float64(numSamples) / sampleRate)
	peakBin, maxMag := 0, 0.0
	for i := 0; i < numSamples/2; i++ {
		if mag := cmplx.Abs(result[i]); mag > maxMag {
			maxMag, peakBin = mag, i
		}
	}

	if math.Abs(float64(peakBin-expectedBin)) > 2 {
		t.Errorf("expected peak near bin %d, got bin %d", expectedBin, peakBin)
	}
}

func TestFFT_DCSignal(t *testing.T) {
	signal := make([]float64, 8)
	for i := range signal {
		signal[i] = 5.0
	}

	result, err := FFT(signal)
	if err != nil {
		t.Fatalf("FFT returned error: %v", err)
	}

	expectedDC := 5.0 * float64(len(signal))
	if dc := cmplx.Abs(result[0]); math.Abs(dc-expectedDC) > 0.01 {
		t.Errorf("expected DC component %.2f, got %.2f", expectedDC, dc)
	}
	for i := 1; i < len(result); i++ {
		if mag := cmplx.Abs(result[i]); mag > 0.01 {
			t.Errorf("expected near-zero magnitude at bin %d, got %.4f", i, mag)
		}
	}
}

func TestFFT_NonPowerOfTwoIsProgrammingError(t *testing.T) {
	_, err := FFT(make([]float64, 100))
	if err == nil {
		t.Fatal("expected an error for a non-power-of-two input length")
	}
}

func TestFFT_Symmetry(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 4, 3, 2, 1}
	result, err := FFT(signal)
	if err != nil {
		t.Fatalf("FFT returned error: %v", err)
	}

	n := len(result)
	for k := 1; k < n/2; k++ {
		expected := cmplx.Conj(result[n-k])
		if cmplx.Abs(result[k]-expected) > 1e-10 {
			t.Errorf("conjugate symmetry violated at bin %d", k)
		}
	}
}

// TestComplexMul_MatchesGoComplexMultiplication cross-checks complexMul
// against Go's native complex128 multiplication: spec.md §9 flags a
// bc+bc bug in original_source/src/fft/complex.rs's version of this
// routine, and this is the
// regression guard for it.
func TestComplexMul_MatchesGoComplexMultiplication(t *testing.T) {
	cases := []struct{ x, y complex128 }{
		{complex(1, 0), complex(0, 1)},
		{complex(2, 3), complex(4, -5)},
		{complex(-1, -1), complex(-1, 1)},
	}
	for _, c := range cases {
		got := complexMul(c.x, c.y)
		want := c.x * c.y
		if cmplx.Abs(got-want) > 1e-9 {
			t.Errorf("complexMul(%v, %v) = %v, want %v", c.x, c.y, got, want)
		}
	}
}

func BenchmarkFFT_1024(b *testing.B) {
	signal := make([]float64, 1024)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 1024)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FFT(signal)
	}
}
