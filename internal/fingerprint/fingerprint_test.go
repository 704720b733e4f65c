package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shazoom/internal/stft"
)

func TestHash_RoundTripsThroughUnpack(t *testing.T) {
	h := Hash(1200, 3400, 0.37)
	anchorBin, targetBin, deltaBin := Unpack(h)

	assert.Equal(t, uint64(24), anchorBin) // 1200/50
	assert.Equal(t, uint64(68), targetBin) // 3400/50
	assert.Equal(t, uint64(4), deltaBin)   // round(0.37/0.1)
}

func TestHash_IsDeterministic(t *testing.T) {
	a := Hash(500, 1000, 0.2)
	b := Hash(500, 1000, 0.2)
	assert.Equal(t, a, b)
}

func TestHash_SaturatesDeltaBinAt14Bits(t *testing.T) {
	h := Hash(0, 0, 10000) // far beyond the 14-bit range
	_, _, deltaBin := Unpack(h)
	assert.Equal(t, uint64(maxDeltaBin), deltaBin)
}

func TestHash_OccupiesDocumentedBitRanges(t *testing.T) {
	// anchor_freq_bin must not bleed below bit 30, per spec.md §6.1/§9's
	// widening from the teacher's 32-bit layout.
	h := Hash(50*(1<<20), 0, 0) // anchor bin = 2^20, needs bit 30+ to survive
	anchorBin, _, _ := Unpack(h)
	assert.Equal(t, uint64(1<<20), anchorBin)
}

func TestGenerate_PairsOnlyForwardWithinTargetZone(t *testing.T) {
	frames := []stft.FrameDistribution{
		{TimeSeconds: 0.0, Peaks: []stft.Peak{{FreqHz: 100}}},
		{TimeSeconds: 0.1, Peaks: []stft.Peak{{FreqHz: 200}}},
		{TimeSeconds: 0.2, Peaks: []stft.Peak{{FreqHz: 300}}},
	}

	fps := Generate(frames)
	assert.NotEmpty(t, fps)

	for _, fp := range fps {
		assert.GreaterOrEqual(t, fp.AnchorTimeSeconds, 0.0)
	}
}

func TestGenerate_NoPeaksYieldsNoFingerprints(t *testing.T) {
	frames := []stft.FrameDistribution{
		{TimeSeconds: 0.0, Peaks: nil},
		{TimeSeconds: 0.1, Peaks: nil},
	}
	assert.Empty(t, Generate(frames))
}

func TestGenerate_RespectsMaxTargetZone(t *testing.T) {
	frames := make([]stft.FrameDistribution, MaxTargetZone+5)
	for i := range frames {
		frames[i] = stft.FrameDistribution{
			TimeSeconds: float64(i) * 0.1,
			Peaks:       []stft.Peak{{FreqHz: 100}},
		}
	}

	fps := Generate(frames)

	// Every hash's delta_bin must correspond to at most MaxTargetZone
	// frames of 0.1s spacing, i.e. <= MaxTargetZone*0.1s = 6s.
	for _, fp := range fps {
		_, _, deltaBin := Unpack(fp.Hash)
		deltaSeconds := float64(deltaBin) * DeltaStepSec
		assert.LessOrEqual(t, deltaSeconds, float64(MaxTargetZone)*0.1+1e-9)
	}
}
