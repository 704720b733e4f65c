package stft

import "math"

// HannWindow returns the N-point Hann window w[i] = 0.5*(1-cos(2*pi*i/(N-1))).
//
// spec.md §9 flags that original_source/src/fft/fft.rs computes this as
// `0.5*cos(1-2*pi*i/(N-1))`, which is nearly a constant multiplier and
// destroys the windowing effect; this is the corrected formula.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// applyWindow multiplies frame by window in place and returns frame.
func applyWindow(frame, window []float64) []float64 {
	for i := range frame {
		frame[i] *= window[i]
	}
	return frame
}
