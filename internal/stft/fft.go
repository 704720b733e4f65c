// Package stft implements the short-time Fourier transform engine:
// windowed frame iteration, a radix-2 Cooley-Tukey FFT, and banded peak
// extraction, per spec.md §4.2. The recursive even/odd split is grounded
// on the teacher's core/FFT.go and main/pipeline/FFT.go. The
// complex-multiplication bug spec.md §9 flags (`(ac-bd) + i(bc+bc)`
// instead of `(ac-bd) + i(ad+bc)`) belongs to neither teacher file —
// core/FFT.go multiplies with Go's native complex128 arithmetic and
// main/FFT.go delegates entirely to github.com/mjibson/go-dsp/fft. The
// bug is original_source/src/fft/complex.rs's, the pre-distillation Rust
// source spec.md §9 is quoting. This implementation uses the correct
// formula throughout.
package stft

import (
	"fmt"
	"math"
	"math/cmplx"

	"shazoom/internal/errs"
)

// FFT computes the discrete Fourier transform of a real-valued input using
// a recursive radix-2 Cooley-Tukey split. len(input) must be a power of
// two; anything else is a programming error per spec.md §8 scenario S6.
func FFT(input []float64) ([]complex128, error) {
	n := len(input)
	if n == 0 || n&(n-1) != 0 {
		return nil, errs.New(errs.Programming, "stft.FFT",
			fmt.Errorf("input length %d is not a power of two", n))
	}

	complexInput := make([]complex128, n)
	for i, v := range input {
		complexInput[i] = complex(v, 0)
	}
	return recursiveFFT(complexInput), nil
}

func recursiveFFT(input []complex128) []complex128 {
	n := len(input)
	if n <= 1 {
		return input
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = input[2*i]
		odd[i] = input[2*i+1]
	}

	even = recursiveFFT(even)
	odd = recursiveFFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		angle := -2 * math.Pi * float64(k) / float64(n)
		twiddle := complex(math.Cos(angle), math.Sin(angle))
		rotated := complexMul(twiddle, odd[k])
		result[k] = even[k] + rotated
		result[k+n/2] = even[k] - rotated
	}
	return result
}

// complexMul implements (a+bi)(c+di) = (ac-bd) + i(ad+bc).
// original_source/src/fft/complex.rs implements the imaginary term as
// bc+bc, which silently collapses every butterfly's phase; spec.md §9
// requires the correct formula here.
func complexMul(x, y complex128) complex128 {
	a, b := real(x), imag(x)
	c, d := real(y), imag(y)
	return complex(a*c-b*d, a*d+b*c)
}

// magnitudes returns |X[k]| for k in [0, N/2), the non-redundant half of a
// real-input FFT's spectrum (Nyquist limit).
func magnitudes(spectrum []complex128) []float64 {
	half := len(spectrum) / 2
	out := make([]float64, half)
	for i := 0; i < half; i++ {
		out[i] = cmplx.Abs(spectrum[i])
	}
	return out
}
