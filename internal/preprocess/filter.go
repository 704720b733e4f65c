// Package preprocess implements the pre-stage spec.md §4.1 describes: a
// single-pole low-pass filter followed by linear resampling to the engine's
// internal sample rate. It is grounded on the teacher's core/spectrogram.go
// LowPassFilter and Downsample, generalized to match spec.md's exact
// formulas (the teacher's downsampler only supported integer ratios; the
// spec requires arbitrary from/to rates via linear interpolation).
package preprocess

import "math"

// LowPassFilter applies a single-pole IIR low-pass filter, per spec.md §4.1:
//
//	RC = 1/(2*pi*fc), dt = 1/fs, alpha = dt/(RC+dt)
//	y[0] = x[0]; y[i] = y[i-1] + alpha*(x[i]-y[i-1])
func LowPassFilter(cutoffHz, sampleRateHz float64, input []float64) []float64 {
	if len(input) == 0 {
		return []float64{}
	}

	rc := 1.0 / (2.0 * math.Pi * cutoffHz)
	dt := 1.0 / sampleRateHz
	alpha := dt / (rc + dt)

	output := make([]float64, len(input))
	output[0] = input[0]
	for i := 1; i < len(input); i++ {
		output[i] = output[i-1] + alpha*(input[i]-output[i-1])
	}
	return output
}
