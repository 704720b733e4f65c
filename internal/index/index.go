// Package index implements the relational Index Adapter spec.md §4.6
// describes: insert_song, bulk_insert_fingerprints, lookup_by_hashes, and
// fetch_titles. Two backends are provided — Postgres (the teacher's
// db/postgres.go, grounded directly) and SQLite (for local development and
// tests, since a live Postgres instance isn't always at hand) — both
// behind the same Index interface so internal/pipeline never knows which
// one it's talking to.
package index

import (
	"context"
	"time"
)

// FingerprintRow is one persisted (hash, anchor_time, song_id) triple, the
// unit bulk_insert_fingerprints writes and lookup_by_hashes reads back,
// per spec.md §3/§6.2.
type FingerprintRow struct {
	Hash             uint64
	AnchorTimeSeconds float64
	SongID           int32
}

// HashMatch is one persisted row returned for a hash lookup.
type HashMatch struct {
	SongID            int32
	AnchorTimeSeconds float64
}

// Index is the four-operation contract spec.md §4.6 assigns to the
// external relational store.
type Index interface {
	// InsertSong creates a new song row and returns its identifier.
	InsertSong(ctx context.Context, title string) (int32, error)

	// BulkInsertFingerprints batches rows in groups of 15,000 (spec.md
	// §4.4 step 3) inside one transaction, using an
	// ON-CONFLICT-DO-NOTHING policy against the (song_id, anchor_time)
	// primary key, and returns the number of newly inserted rows. On any
	// batch error the whole transaction is rolled back — no rows persist.
	BulkInsertFingerprints(ctx context.Context, rows []FingerprintRow) (int, error)

	// LookupByHashes returns, for each requested hash, every matching
	// persisted row, batching the request in groups of ~5,000 per
	// spec.md §4.6's temp-table hint.
	LookupByHashes(ctx context.Context, hashes []uint64) (map[uint64][]HashMatch, error)

	// FetchTitles is a point lookup of song_id -> title.
	FetchTitles(ctx context.Context, songIDs []int32) (map[int32]string, error)

	// Close releases the underlying connection.
	Close() error
}

// Song is the persisted reference-track record of spec.md §3.
type Song struct {
	ID        int32
	Title     string
	CreatedAt time.Time
}

const (
	// InsertBatchSize is spec.md §4.4 step 3's insert batch size.
	InsertBatchSize = 15000
	// LookupBatchSize is spec.md §4.6's "batch the temp-table load"
	// hint.
	LookupBatchSize = 5000
)
