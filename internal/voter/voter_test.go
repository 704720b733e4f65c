package voter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVote_EmptyQueryYieldsNoResults(t *testing.T) {
	assert.Empty(t, Vote(nil, map[uint64][]Match{}, 5))
}

func TestVote_NoMatchesYieldsNoResults(t *testing.T) {
	query := []QueryFingerprint{{Hash: 1, AnchorTimeSec: 0}}
	assert.Empty(t, Vote(query, map[uint64][]Match{}, 5))
}

func TestVote_PicksConsistentOffsetOverScattered(t *testing.T) {
	// Song 1 has three hash collisions that all agree on a +2.0s offset;
	// song 2 has three that scatter across different offsets. Song 1
	// should win even though both have the same raw collision count.
	query := []QueryFingerprint{
		{Hash: 1, AnchorTimeSec: 0.0},
		{Hash: 2, AnchorTimeSec: 1.0},
		{Hash: 3, AnchorTimeSec: 2.0},
	}
	matches := map[uint64][]Match{
		1: {{SongID: 1, DBTimeSec: 2.0}, {SongID: 2, DBTimeSec: 5.0}},
		2: {{SongID: 1, DBTimeSec: 3.0}, {SongID: 2, DBTimeSec: 9.0}},
		3: {{SongID: 1, DBTimeSec: 4.0}, {SongID: 2, DBTimeSec: 2.5}},
	}

	results := Vote(query, matches, 5)
	if assert.NotEmpty(t, results) {
		assert.Equal(t, uint32(1), results[0].SongID)
		assert.Equal(t, 3, results[0].Score)
		assert.InDelta(t, 2.0, results[0].TimeOffsetSec, 0.02)
	}
}

func TestVote_TruncatesToTopK(t *testing.T) {
	query := []QueryFingerprint{{Hash: 1, AnchorTimeSec: 0}}
	matches := map[uint64][]Match{
		1: {
			{SongID: 1, DBTimeSec: 1.0},
			{SongID: 2, DBTimeSec: 1.0},
			{SongID: 3, DBTimeSec: 1.0},
		},
	}

	results := Vote(query, matches, 2)
	assert.Len(t, results, 2)
}

func TestVote_ResultsSortedByScoreDescending(t *testing.T) {
	query := []QueryFingerprint{
		{Hash: 1, AnchorTimeSec: 0},
		{Hash: 2, AnchorTimeSec: 0},
	}
	matches := map[uint64][]Match{
		1: {{SongID: 10, DBTimeSec: 1.0}, {SongID: 20, DBTimeSec: 1.0}},
		2: {{SongID: 20, DBTimeSec: 1.0}},
	}

	results := Vote(query, matches, 5)
	if assert.Len(t, results, 2) {
		assert.Equal(t, uint32(20), results[0].SongID) // score 2
		assert.Equal(t, uint32(10), results[1].SongID) // score 1
	}
}

func TestVote_NegativeOffsetQuantizesCorrectly(t *testing.T) {
	query := []QueryFingerprint{{Hash: 1, AnchorTimeSec: 5.0}}
	matches := map[uint64][]Match{
		1: {{SongID: 1, DBTimeSec: 2.0}}, // offset -3.0s
	}

	results := Vote(query, matches, 5)
	if assert.Len(t, results, 1) {
		assert.InDelta(t, -3.0, results[0].TimeOffsetSec, 0.02)
	}
}
