package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedup_RemovesExactDuplicates(t *testing.T) {
	fps := []Fingerprint{
		{Hash: 1, AnchorTimeSeconds: 0.500},
		{Hash: 1, AnchorTimeSeconds: 0.500},
		{Hash: 2, AnchorTimeSeconds: 0.500},
	}

	out := Dedup(fps)
	assert.Len(t, out, 2)
}

func TestDedup_KeepsDistinctHashesAtSameTime(t *testing.T) {
	fps := []Fingerprint{
		{Hash: 1, AnchorTimeSeconds: 0.1},
		{Hash: 2, AnchorTimeSeconds: 0.1},
	}
	assert.Len(t, Dedup(fps), 2)
}

func TestDedup_CollapsesWithin10msBucket(t *testing.T) {
	fps := []Fingerprint{
		{Hash: 7, AnchorTimeSeconds: 1.001},
		{Hash: 7, AnchorTimeSeconds: 1.004}, // same 10ms bucket as above
		{Hash: 7, AnchorTimeSeconds: 1.020}, // distinct bucket
	}

	out := Dedup(fps)
	assert.Len(t, out, 2)
}

func TestDedup_EmptyInputYieldsEmptyOutput(t *testing.T) {
	assert.Empty(t, Dedup(nil))
}
