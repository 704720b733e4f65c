// Package voter implements the offset-histogram voting algorithm of
// spec.md §4.5: turning raw hash collisions into a ranked, time-aligned
// match. It is pure — it cannot fail (spec.md §7) — grounded on the
// teacher's db.QueryFingerprints offset-map accumulation and
// core/shazoom.go's FindMatches, generalized into a standalone function
// over the index lookup result rather than one that queries a live
// connection itself.
package voter

import "sort"

// Match is one (song, db_anchor_time) pair the index returned for a query
// hash, per spec.md §4.6's lookup_by_hashes result shape.
type Match struct {
	SongID     uint32
	DBTimeSec  float64
}

// QueryFingerprint is the minimal shape the voter needs from a query
// fingerprint: its hash and anchor time.
type QueryFingerprint struct {
	Hash         uint64
	AnchorTimeSec float64
}

// Result is one row of recognition output, per spec.md §3's VoteResult.
type Result struct {
	SongID         uint32
	Score          int
	TimeOffsetSec  float64
}

const offsetBinSeconds = 0.020

// Vote builds per-song offset histograms from query fingerprints and a
// hash->matches lookup, and returns the top K songs by peak-bin vote
// count, per spec.md §4.5. Empty query fingerprints or no hash collisions
// both yield an empty result, never an error.
func Vote(queryFingerprints []QueryFingerprint, matches map[uint64][]Match, topK int) []Result {
	if len(queryFingerprints) == 0 {
		return nil
	}

	// songID -> offsetBin -> count
	histograms := make(map[uint32]map[int64]int)

	for _, q := range queryFingerprints {
		for _, m := range matches[q.Hash] {
			offset := m.DBTimeSec - q.AnchorTimeSec
			bin := quantizeOffset(offset)

			hist, ok := histograms[m.SongID]
			if !ok {
				hist = make(map[int64]int)
				histograms[m.SongID] = hist
			}
			hist[bin]++
		}
	}

	if len(histograms) == 0 {
		return nil
	}

	results := make([]Result, 0, len(histograms))
	for songID, hist := range histograms {
		bestBin, bestCount := int64(0), -1
		for bin, count := range hist {
			if count > bestCount || (count == bestCount && bin < bestBin) {
				bestBin, bestCount = bin, count
			}
		}
		results = append(results, Result{
			SongID:        songID,
			Score:         bestCount,
			TimeOffsetSec: float64(bestBin) * offsetBinSeconds,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].SongID < results[j].SongID // deterministic tiebreak
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

func quantizeOffset(offsetSeconds float64) int64 {
	if offsetSeconds >= 0 {
		return int64(offsetSeconds/offsetBinSeconds + 0.5)
	}
	return -int64(-offsetSeconds/offsetBinSeconds + 0.5)
}
