package index

import "context"

// Stats is the database summary spec.md's distillation drops but the
// teacher's main.go "stats" command prints (total songs, total
// fingerprints) — supplemented here per the operator commands SPEC_FULL.md
// adds.
type Stats struct {
	TotalSongs        int
	TotalFingerprints int
}

// Admin is the operator surface behind the "stats", "list", and "clean"
// CLI commands: none of these three operations are part of spec.md §4.6's
// recognition contract, so they live on a separate interface rather than
// widening Index.
type Admin interface {
	Stats(ctx context.Context) (Stats, error)
	ListSongs(ctx context.Context) ([]Song, error)
	DeleteSong(ctx context.Context, songID int32) error
}
