package index

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	idx, err := NewSQLiteIndex(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLiteIndex: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestInsertSong_AssignsIncreasingIDs(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	first, err := idx.InsertSong(ctx, "Song A")
	if err != nil {
		t.Fatalf("InsertSong: %v", err)
	}
	second, err := idx.InsertSong(ctx, "Song B")
	if err != nil {
		t.Fatalf("InsertSong: %v", err)
	}
	if second <= first {
		t.Errorf("expected second id %d > first id %d", second, first)
	}
}

func TestBulkInsertFingerprints_IsIdempotentUnderOnConflict(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	songID, err := idx.InsertSong(ctx, "Song A")
	if err != nil {
		t.Fatalf("InsertSong: %v", err)
	}

	rows := []FingerprintRow{
		{Hash: 1, AnchorTimeSeconds: 0.1, SongID: songID},
		{Hash: 2, AnchorTimeSeconds: 0.2, SongID: songID},
	}

	inserted, err := idx.BulkInsertFingerprints(ctx, rows)
	if err != nil {
		t.Fatalf("BulkInsertFingerprints: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 rows inserted, got %d", inserted)
	}

	// Re-ingesting the identical rows must insert nothing new, per
	// spec.md §8's idempotent-ingest property.
	inserted, err = idx.BulkInsertFingerprints(ctx, rows)
	if err != nil {
		t.Fatalf("BulkInsertFingerprints (re-ingest): %v", err)
	}
	if inserted != 0 {
		t.Errorf("expected 0 rows inserted on re-ingest, got %d", inserted)
	}
}

func TestLookupByHashes_ReturnsMatchingRows(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	songID, err := idx.InsertSong(ctx, "Song A")
	if err != nil {
		t.Fatalf("InsertSong: %v", err)
	}
	rows := []FingerprintRow{
		{Hash: 42, AnchorTimeSeconds: 1.5, SongID: songID},
	}
	if _, err := idx.BulkInsertFingerprints(ctx, rows); err != nil {
		t.Fatalf("BulkInsertFingerprints: %v", err)
	}

	matches, err := idx.LookupByHashes(ctx, []uint64{42, 999})
	if err != nil {
		t.Fatalf("LookupByHashes: %v", err)
	}

	got := matches[42]
	if len(got) != 1 || got[0].SongID != songID || got[0].AnchorTimeSeconds != 1.5 {
		t.Errorf("unexpected matches for hash 42: %+v", got)
	}
	if len(matches[999]) != 0 {
		t.Errorf("expected no matches for hash 999, got %+v", matches[999])
	}
}

func TestLookupByHashes_EmptyHashesYieldsEmptyMap(t *testing.T) {
	idx := newTestIndex(t)
	matches, err := idx.LookupByHashes(context.Background(), nil)
	if err != nil {
		t.Fatalf("LookupByHashes: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty map, got %d entries", len(matches))
	}
}

func TestFetchTitles_ReturnsRequestedSongs(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	id, err := idx.InsertSong(ctx, "Song A")
	if err != nil {
		t.Fatalf("InsertSong: %v", err)
	}

	titles, err := idx.FetchTitles(ctx, []int32{id})
	if err != nil {
		t.Fatalf("FetchTitles: %v", err)
	}
	if titles[id] != "Song A" {
		t.Errorf("titles[%d] = %q, want %q", id, titles[id], "Song A")
	}
}

func TestAdmin_ListAndDeleteSong(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	id, err := idx.InsertSong(ctx, "Song A")
	if err != nil {
		t.Fatalf("InsertSong: %v", err)
	}
	if _, err := idx.BulkInsertFingerprints(ctx, []FingerprintRow{
		{Hash: 1, AnchorTimeSeconds: 0.1, SongID: id},
	}); err != nil {
		t.Fatalf("BulkInsertFingerprints: %v", err)
	}

	songs, err := idx.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(songs))
	}

	stats, err := idx.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSongs != 1 || stats.TotalFingerprints != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := idx.DeleteSong(ctx, id); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}

	songs, err = idx.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs after delete: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("expected no songs after delete, got %d", len(songs))
	}
}
