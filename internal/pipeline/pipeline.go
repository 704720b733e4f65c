// Package pipeline wires the recognition chain together: decode (external)
// -> preprocess -> stft -> fingerprint -> index -> voter, the
// single-threaded cooperative chain spec.md §5 describes. It is the
// pipeline driver spec.md §7 says per-stage errors bubble to; it aborts
// the current ingest/query and reports, never recovering mid-pipeline.
//
// Grounded on the teacher's core/shazoom.go FindMatches and
// core/fingerprinting.go GenerateFingerprints, which both thread the same
// decode -> spectrogram -> peaks -> fingerprint steps inline; here they're
// composed from the independently-testable internal/* stages instead.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"shazoom/internal/config"
	"shazoom/internal/decode"
	"shazoom/internal/errs"
	"shazoom/internal/fingerprint"
	"shazoom/internal/index"
	"shazoom/internal/preprocess"
	"shazoom/internal/stft"
	"shazoom/internal/voter"
)

// Pipeline holds the tunables and the Index connection shared by every
// ingest and query this process runs.
type Pipeline struct {
	Index    index.Index
	Tunables config.Tunables
}

// New builds a Pipeline over an already-open Index.
func New(idx index.Index, tunables config.Tunables) *Pipeline {
	return &Pipeline{Index: idx, Tunables: tunables}
}

// IngestStats reports what one ingest run did, for CLI/operator feedback —
// grounded on the teacher's main/commands.go upload() printing peak/hash
// counts and duration.
type IngestStats struct {
	FramesProcessed       int
	PeaksExtracted        int
	FingerprintsGenerated int
	FingerprintsInserted  int
	ProcessingTime        time.Duration
}

// QueryStats reports what one query run did — grounded on the teacher's
// main/main.go "record" case, which prints peaks extracted, hashes
// generated, database matches, processing time, and candidates evaluated.
type QueryStats struct {
	TotalPeaks      int
	TotalHashes     int
	DatabaseMatches int
	CandidateCount  int
	ProcessingTime  time.Duration
}

// MatchResult is one ranked recognition result, pairing a voter.Result
// with the song title fetched from the index.
type MatchResult struct {
	SongID        int32
	Title         string
	Score         int
	TimeOffsetSec float64
}

// buildFingerprints runs the pre-processor and STFT engine over samples
// natively sampled at nativeRateHz, then generates fingerprints from the
// resulting peak lists — the shared core of both IngestSamples and Query.
func (p *Pipeline) buildFingerprints(samples []float64, nativeRateHz int) ([]fingerprint.Fingerprint, []stft.FrameDistribution, error) {
	if len(samples) == 0 {
		return nil, nil, errs.New(errs.Input, "pipeline.buildFingerprints", fmt.Errorf("empty sample buffer"))
	}

	processed := samples
	internalRateHz := float64(p.Tunables.InternalSampleHz)
	if float64(nativeRateHz) != internalRateHz {
		processed = preprocess.LowPassFilter(p.Tunables.LowPassCutoffHz, float64(nativeRateHz), samples)
		processed = preprocess.Resample(processed, float64(nativeRateHz), internalRateHz)
	}

	engine, err := stft.NewEngine(p.Tunables.ChunkSize, p.Tunables.OverlapSize, p.Tunables.InternalSampleHz)
	if err != nil {
		return nil, nil, err
	}

	frames, err := engine.Process(processed)
	if err != nil {
		return nil, nil, err
	}

	fps := fingerprint.Generate(frames)
	return fps, frames, nil
}

// IngestSamples runs the full ingest path over an in-memory sample buffer:
// registers the song, builds fingerprints, deduplicates them per spec.md
// §4.4 step 1, and writes them in one transaction via the Index.
func (p *Pipeline) IngestSamples(ctx context.Context, samples []float64, nativeRateHz int, title string) (int32, IngestStats, error) {
	start := time.Now()

	fps, frames, err := p.buildFingerprints(samples, nativeRateHz)
	if err != nil {
		return 0, IngestStats{}, err
	}

	songID, err := p.Index.InsertSong(ctx, title)
	if err != nil {
		return 0, IngestStats{}, err
	}

	deduped := fingerprint.Dedup(fps)
	rows := make([]index.FingerprintRow, len(deduped))
	peakCount := 0
	for i, fp := range deduped {
		rows[i] = index.FingerprintRow{
			Hash:              fp.Hash,
			AnchorTimeSeconds: fp.AnchorTimeSeconds,
			SongID:            songID,
		}
	}
	for _, f := range frames {
		peakCount += len(f.Peaks)
	}

	inserted, err := p.Index.BulkInsertFingerprints(ctx, rows)
	if err != nil {
		return 0, IngestStats{}, err
	}

	return songID, IngestStats{
		FramesProcessed:       len(frames),
		PeaksExtracted:        peakCount,
		FingerprintsGenerated: len(fps),
		FingerprintsInserted:  inserted,
		ProcessingTime:        time.Since(start),
	}, nil
}

// IngestFile decodes path (dispatching on extension per internal/decode)
// and ingests the resulting samples under title.
func (p *Pipeline) IngestFile(ctx context.Context, path, title string) (int32, IngestStats, error) {
	decoded, err := decode.File(path)
	if err != nil {
		return 0, IngestStats{}, err
	}
	return p.IngestSamples(ctx, decoded.Samples, decoded.SampleRate, title)
}

// Query runs the full query path over an in-memory sample buffer: builds
// fingerprints, looks up their hashes against the Index, votes, and
// resolves the winning songs' titles. An empty fingerprint list (e.g. a
// silent query, spec.md §8 scenario S4) returns an empty result, no error.
func (p *Pipeline) Query(ctx context.Context, samples []float64, nativeRateHz int, topK int) ([]MatchResult, QueryStats, error) {
	start := time.Now()

	fps, frames, err := p.buildFingerprints(samples, nativeRateHz)
	if err != nil {
		return nil, QueryStats{}, err
	}

	peakCount := 0
	for _, f := range frames {
		peakCount += len(f.Peaks)
	}

	if len(fps) == 0 {
		return nil, QueryStats{
			TotalPeaks:     peakCount,
			ProcessingTime: time.Since(start),
		}, nil
	}

	hashes := make([]uint64, len(fps))
	queryFPs := make([]voter.QueryFingerprint, len(fps))
	for i, fp := range fps {
		hashes[i] = fp.Hash
		queryFPs[i] = voter.QueryFingerprint{Hash: fp.Hash, AnchorTimeSec: fp.AnchorTimeSeconds}
	}

	lookup, err := p.Index.LookupByHashes(ctx, hashes)
	if err != nil {
		return nil, QueryStats{}, err
	}

	matches := make(map[uint64][]voter.Match, len(lookup))
	dbMatchCount := 0
	for h, rows := range lookup {
		vm := make([]voter.Match, len(rows))
		for i, r := range rows {
			vm[i] = voter.Match{SongID: uint32(r.SongID), DBTimeSec: r.AnchorTimeSeconds}
		}
		matches[h] = vm
		dbMatchCount += len(rows)
	}

	votes := voter.Vote(queryFPs, matches, topK)

	songIDs := make([]int32, len(votes))
	for i, v := range votes {
		songIDs[i] = int32(v.SongID)
	}
	titles, err := p.Index.FetchTitles(ctx, songIDs)
	if err != nil {
		return nil, QueryStats{}, err
	}

	results := make([]MatchResult, len(votes))
	for i, v := range votes {
		results[i] = MatchResult{
			SongID:        int32(v.SongID),
			Title:         titles[int32(v.SongID)],
			Score:         v.Score,
			TimeOffsetSec: v.TimeOffsetSec,
		}
	}

	return results, QueryStats{
		TotalPeaks:      peakCount,
		TotalHashes:     len(fps),
		DatabaseMatches: dbMatchCount,
		CandidateCount:  len(votes),
		ProcessingTime:  time.Since(start),
	}, nil
}

// QueryFile decodes path and queries the resulting samples.
func (p *Pipeline) QueryFile(ctx context.Context, path string, topK int) ([]MatchResult, QueryStats, error) {
	decoded, err := decode.File(path)
	if err != nil {
		return nil, QueryStats{}, err
	}
	return p.Query(ctx, decoded.Samples, decoded.SampleRate, topK)
}
