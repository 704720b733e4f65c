package stft

import "sort"

// Band classifies a Peak's frequency range, per spec.md §4.2.
type Band int

const (
	Low Band = iota
	Mid
	High
)

// Peak is a salient (frequency, magnitude) point within one frame, per
// spec.md §3.
type Peak struct {
	FreqHz    float64
	Magnitude float64
	Band      Band
}

const (
	minPeakFreqHz = 20.0
	maxPeakFreqHz = 5000.0
	midFreqHz     = 300.0
	highFreqHz    = 2000.0

	bandThresholdMultiplier = 1.75
	maxPeaksPerBand         = 5
)

// ExtractPeaks finds local frequency-domain maxima in one frame's spectrum,
// normalizes by the frame's maximum magnitude, restricts to (20Hz, 5000Hz),
// partitions into low/mid/high bands, keeps peaks above 1.75x the band
// mean, and caps each band at 5 peaks — grounded on the teacher's
// core/spectrogram.go ExtractPeaks, generalized from its fixed six-band
// split to spec.md's exact three-band, threshold-based rule.
func ExtractPeaks(spectrum []complex128, sampleRateHz int) []Peak {
	mags := magnitudes(spectrum)
	n := len(spectrum)

	maxMag := 0.0
	for _, m := range mags {
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag > 0 {
		for i := range mags {
			mags[i] /= maxMag
		}
	}

	type candidate struct {
		freqHz    float64
		magnitude float64
	}
	var candidates []candidate

	for k := 1; k < len(mags)-1; k++ {
		if !(mags[k-1] < mags[k] && mags[k] > mags[k+1]) {
			continue
		}
		freqHz := float64(k) * float64(sampleRateHz) / float64(n)
		if freqHz <= minPeakFreqHz || freqHz >= maxPeakFreqHz {
			continue
		}
		candidates = append(candidates, candidate{freqHz, mags[k]})
	}

	banded := map[Band][]candidate{Low: nil, Mid: nil, High: nil}
	for _, c := range candidates {
		switch {
		case c.freqHz < midFreqHz:
			banded[Low] = append(banded[Low], c)
		case c.freqHz < highFreqHz:
			banded[Mid] = append(banded[Mid], c)
		default:
			banded[High] = append(banded[High], c)
		}
	}

	var peaks []Peak
	for _, band := range []Band{Low, Mid, High} {
		items := banded[band]
		if len(items) == 0 {
			continue
		}

		var sum float64
		for _, c := range items {
			sum += c.magnitude
		}
		threshold := bandThresholdMultiplier * (sum / float64(len(items)))

		var kept []candidate
		for _, c := range items {
			if c.magnitude > threshold {
				kept = append(kept, c)
			}
		}

		sort.Slice(kept, func(i, j int) bool { return kept[i].magnitude > kept[j].magnitude })
		if len(kept) > maxPeaksPerBand {
			kept = kept[:maxPeaksPerBand]
		}

		for _, c := range kept {
			peaks = append(peaks, Peak{FreqHz: c.freqHz, Magnitude: c.magnitude, Band: band})
		}
	}

	return peaks
}
