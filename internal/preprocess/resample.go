package preprocess

import "math"

// Resample performs linear-interpolation resampling from fromRate to
// toRate, per spec.md §4.1:
//
//	r = from/to, newLen = floor(len/r)
//	p = i*r, k = floor(p), f = p-k
//	emit x[k] + f*(x[k+1]-x[k]) when k+1 < len, else x[k] when k < len
//
// When fromRate == toRate the resampler is an identity (spec.md §9, open
// question on whether to resample inputs already at the target rate — left
// to the caller; this function makes the caller's "skip it" choice free).
func Resample(input []float64, fromRate, toRate float64) []float64 {
	if fromRate == toRate {
		return input
	}
	if len(input) == 0 {
		return []float64{}
	}

	r := fromRate / toRate
	newLen := int(math.Floor(float64(len(input)) / r))
	output := make([]float64, 0, newLen)

	for i := 0; i < newLen; i++ {
		p := float64(i) * r
		k := int(math.Floor(p))
		f := p - float64(k)

		switch {
		case k+1 < len(input):
			output = append(output, input[k]+f*(input[k+1]-input[k]))
		case k < len(input):
			output = append(output, input[k])
		default:
			return output
		}
	}

	return output
}
