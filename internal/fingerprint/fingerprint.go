// Package fingerprint implements the combinatorial hash generator of
// spec.md §4.3 and the wire layout of spec.md §6.1: pairing each anchor
// peak with the target peaks inside a forward time window and packing
// (anchor_freq_bin, target_freq_bin, delta_bin) into a 64-bit hash.
//
// Grounded on the teacher's core/fingerprinting.go createAddress, which
// packs the same three fields into a 32-bit address; spec.md §9 requires
// widening this to 64 bits (anchor_freq_bin needs bits 63..30, not 31..23)
// so the packing doesn't truncate.
package fingerprint

import (
	"math"

	"shazoom/internal/stft"
)

const (
	// Per spec.md §4.3's "recommended constants".
	MinTargetZoneDist = 1
	MaxTargetZone      = 60
	FreqStepHz         = 50.0
	DeltaStepSec       = 0.1

	maxDeltaBin = 16383 // 14-bit saturation, spec.md §4.3.
)

// Fingerprint is one hash emitted from an (anchor, target) pair, per
// spec.md §3. SongID is left at zero at generation time and assigned by
// the ingest caller.
type Fingerprint struct {
	Hash              uint64
	AnchorTimeSeconds float64
	SongID            uint32
}

// Generate walks frames in ascending index order, and within each frame's
// peaks in their enumeration order (spec.md §5's ordering guarantee),
// pairing every anchor peak with every target peak inside
// [i+MinTargetZoneDist, min(i+MaxTargetZone, L)) whose target frame time is
// strictly after the anchor's.
func Generate(frames []stft.FrameDistribution) []Fingerprint {
	var out []Fingerprint
	l := len(frames)

	for i := range frames {
		anchorFrame := frames[i]
		end := i + MaxTargetZone
		if end > l {
			end = l
		}

		for _, anchor := range anchorFrame.Peaks {
			for j := i + MinTargetZoneDist; j < end; j++ {
				targetFrame := frames[j]
				dt := targetFrame.TimeSeconds - anchorFrame.TimeSeconds
				if dt <= 0 {
					continue
				}

				for _, target := range targetFrame.Peaks {
					out = append(out, Fingerprint{
						Hash:              Hash(anchor.FreqHz, target.FreqHz, dt),
						AnchorTimeSeconds: anchorFrame.TimeSeconds,
					})
				}
			}
		}
	}

	return out
}

// Hash packs (anchor_freq_bin, target_freq_bin, delta_bin) into the 64-bit
// layout of spec.md §6.1:
//
//	bits 63..30  anchor_freq_bin = round(anchorFreqHz / 50)
//	bits 29..14  target_freq_bin = round(targetFreqHz / 50)
//	bits 13..0   delta_bin       = min(round(deltaSeconds / 0.1), 16383)
func Hash(anchorFreqHz, targetFreqHz, deltaSeconds float64) uint64 {
	anchorBin := uint64(math.Round(anchorFreqHz / FreqStepHz))
	targetBin := uint64(math.Round(targetFreqHz / FreqStepHz))

	deltaBin := uint64(math.Round(deltaSeconds / DeltaStepSec))
	if deltaBin > maxDeltaBin {
		deltaBin = maxDeltaBin
	}

	return (anchorBin << 30) | (targetBin << 14) | deltaBin
}

// Unpack recovers (anchor_freq_bin, target_freq_bin, delta_bin) from a
// hash, the inverse of Hash — used by property tests for spec.md §8's
// "hash layout" invariant.
func Unpack(hash uint64) (anchorBin, targetBin, deltaBin uint64) {
	return hash >> 30, (hash >> 14) & 0xFFFF, hash & 0x3FFF
}
