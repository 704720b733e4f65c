package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"shazoom/internal/errs"
)

// SQLiteIndex is a second Index implementation over
// github.com/mattn/go-sqlite3, used by tests and by the CLI's `--db sqlite`
// mode when DATABASE_URL isn't set. It implements the same schema and
// ON-CONFLICT-DO-NOTHING semantics as PostgresIndex; the hash lookup path
// differs: it runs batched IN-clause queries instead of materializing a
// temp table (see LookupByHashes).
type SQLiteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex opens (and creates, if needed) a SQLite database file at
// path.
func NewSQLiteIndex(ctx context.Context, path string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errs.New(errs.Index, "index.NewSQLiteIndex", err)
	}
	db.SetMaxOpenConns(1) // avoid SQLITE_BUSY under concurrent writers

	if err := createSQLiteSchema(ctx, db); err != nil {
		return nil, errs.New(errs.Index, "index.NewSQLiteIndex", err)
	}
	return &SQLiteIndex{db: db}, nil
}

func createSQLiteSchema(ctx context.Context, db *sql.DB) error {
	const songsTable = `
	CREATE TABLE IF NOT EXISTS songs (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		created_at TIMESTAMP
	);`

	const fingerprintTable = `
	CREATE TABLE IF NOT EXISTS fingerprint (
		hash INTEGER NOT NULL,
		absolute_time_offset REAL NOT NULL,
		song_id INTEGER NOT NULL REFERENCES songs(id),
		created_at TIMESTAMP,
		PRIMARY KEY (song_id, absolute_time_offset)
	);
	CREATE INDEX IF NOT EXISTS idx_fingerprint_hash ON fingerprint (hash);`

	if _, err := db.ExecContext(ctx, songsTable); err != nil {
		return fmt.Errorf("creating songs table: %w", err)
	}
	if _, err := db.ExecContext(ctx, fingerprintTable); err != nil {
		return fmt.Errorf("creating fingerprint table: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Close() error { return s.db.Close() }

func (s *SQLiteIndex) InsertSong(ctx context.Context, title string) (int32, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}
	defer tx.Rollback()

	var id int32
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM songs`).Scan(&id); err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO songs (id, title, created_at) VALUES (?, ?, datetime('now'))`, id, title); err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}
	return id, nil
}

func (s *SQLiteIndex) BulkInsertFingerprints(ctx context.Context, rows []FingerprintRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.New(errs.Index, "index.BulkInsertFingerprints", err)
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < len(rows); start += InsertBatchSize {
		end := min(start+InsertBatchSize, len(rows))
		n, err := insertSQLiteBatch(ctx, tx, rows[start:end])
		if err != nil {
			return 0, errs.New(errs.Index, "index.BulkInsertFingerprints", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.New(errs.Index, "index.BulkInsertFingerprints", err)
	}
	return inserted, nil
}

func insertSQLiteBatch(ctx context.Context, tx *sql.Tx, rows []FingerprintRow) (int, error) {
	valueStrings := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*3)
	for _, r := range rows {
		valueStrings = append(valueStrings, "(?, ?, ?, datetime('now'))")
		args = append(args, int64(r.Hash), r.AnchorTimeSeconds, r.SongID)
	}

	query := fmt.Sprintf(`
		INSERT INTO fingerprint (hash, absolute_time_offset, song_id, created_at)
		VALUES %s
		ON CONFLICT (song_id, absolute_time_offset) DO NOTHING`,
		strings.Join(valueStrings, ","))

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// LookupByHashes uses a plain IN-clause batched at LookupBatchSize. SQLite
// index lookups here are expected to run against a single-connection,
// development-scale database, so the temp-table materialization spec.md
// §4.6 recommends for production-scale Postgres isn't needed.
func (s *SQLiteIndex) LookupByHashes(ctx context.Context, hashes []uint64) (map[uint64][]HashMatch, error) {
	results := make(map[uint64][]HashMatch)
	if len(hashes) == 0 {
		return results, nil
	}

	for start := 0; start < len(hashes); start += LookupBatchSize {
		end := min(start+LookupBatchSize, len(hashes))
		if err := lookupSQLiteBatch(ctx, s.db, hashes[start:end], results); err != nil {
			return nil, errs.New(errs.Index, "index.LookupByHashes", err)
		}
	}
	return results, nil
}

func lookupSQLiteBatch(ctx context.Context, db *sql.DB, hashes []uint64, results map[uint64][]HashMatch) error {
	placeholders := make([]string, len(hashes))
	args := make([]any, len(hashes))
	for i, h := range hashes {
		placeholders[i] = "?"
		args[i] = int64(h)
	}

	query := fmt.Sprintf(`SELECT hash, song_id, absolute_time_offset FROM fingerprint WHERE hash IN (%s)`,
		strings.Join(placeholders, ","))
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var hash int64
		var songID int32
		var anchorTime float64
		if err := rows.Scan(&hash, &songID, &anchorTime); err != nil {
			return err
		}
		h := uint64(hash)
		results[h] = append(results[h], HashMatch{SongID: songID, AnchorTimeSeconds: anchorTime})
	}
	return rows.Err()
}

// Stats reports the database-wide song and fingerprint counts.
func (s *SQLiteIndex) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&stats.TotalSongs); err != nil {
		return Stats{}, errs.New(errs.Index, "index.Stats", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fingerprint`).Scan(&stats.TotalFingerprints); err != nil {
		return Stats{}, errs.New(errs.Index, "index.Stats", err)
	}
	return stats, nil
}

// ListSongs returns every persisted song, oldest first.
func (s *SQLiteIndex) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, created_at FROM songs ORDER BY created_at`)
	if err != nil {
		return nil, errs.New(errs.Index, "index.ListSongs", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.CreatedAt); err != nil {
			return nil, errs.New(errs.Index, "index.ListSongs", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// DeleteSong removes a song and its fingerprints.
func (s *SQLiteIndex) DeleteSong(ctx context.Context, songID int32) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.Index, "index.DeleteSong", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fingerprint WHERE song_id = ?`, songID); err != nil {
		return errs.New(errs.Index, "index.DeleteSong", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, songID); err != nil {
		return errs.New(errs.Index, "index.DeleteSong", err)
	}
	return errs.New(errs.Index, "index.DeleteSong", tx.Commit())
}

func (s *SQLiteIndex) FetchTitles(ctx context.Context, songIDs []int32) (map[int32]string, error) {
	titles := make(map[int32]string)
	if len(songIDs) == 0 {
		return titles, nil
	}

	placeholders := make([]string, len(songIDs))
	args := make([]any, len(songIDs))
	for i, id := range songIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, title FROM songs WHERE id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.New(errs.Index, "index.FetchTitles", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int32
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, errs.New(errs.Index, "index.FetchTitles", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}
