package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shazoom/internal/errs"
)

// PostgresIndex is the primary Index implementation, reached over a DSN
// supplied via DATABASE_URL per spec.md §6.2. Grounded directly on the
// teacher's db/postgres.go: raw database/sql over the pgx stdlib driver,
// hand-written batch INSERT ... ON CONFLICT statements, no ORM.
type PostgresIndex struct {
	db *sql.DB
}

// NewPostgresIndex opens dsn, verifies the connection, and creates the
// songs/fingerprint tables from spec.md §6.2 if they don't already exist.
func NewPostgresIndex(ctx context.Context, dsn string) (*PostgresIndex, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errs.New(errs.Index, "index.NewPostgresIndex", fmt.Errorf("opening connection: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errs.New(errs.Index, "index.NewPostgresIndex", fmt.Errorf("pinging database: %w", err))
	}
	if err := createPostgresSchema(ctx, db); err != nil {
		return nil, errs.New(errs.Index, "index.NewPostgresIndex", fmt.Errorf("creating schema: %w", err))
	}
	return &PostgresIndex{db: db}, nil
}

func createPostgresSchema(ctx context.Context, db *sql.DB) error {
	const songsTable = `
	CREATE TABLE IF NOT EXISTS songs (
		id BIGINT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		created_at TIMESTAMP
	);`

	const fingerprintTable = `
	CREATE TABLE IF NOT EXISTS fingerprint (
		hash BIGINT NOT NULL,
		absolute_time_offset DOUBLE PRECISION NOT NULL,
		song_id BIGINT NOT NULL REFERENCES songs(id),
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

func (p *PostgresIndex) Close() error { return p.db.Close() }

// InsertSong allocates the next id under an exclusive lock on the songs
// table so two concurrent callers can't race to the same id, then inserts. The
// schema in spec.md §6.2 names a plain BIGINT primary key, not a serial
// column, so the id is assigned here rather than left to the database.
func (p *PostgresIndex) InsertSong(ctx context.Context, title string) (int32, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE songs IN EXCLUSIVE MODE`); err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}

	var id int32
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM songs`).Scan(&id)
	if err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO songs (id, title, created_at) VALUES ($1, $2, now())`, id, title); err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.New(errs.Index, "index.InsertSong", err)
	}
	return id, nil
}

// BulkInsertFingerprints deduplicates nothing itself (the caller,
// internal/pipeline, runs fingerprint.Dedup first per spec.md §4.4 step
// 1); it opens one transaction, writes in batches of InsertBatchSize rows
// with ON CONFLICT DO NOTHING against (song_id, absolute_time_offset), and
// commits, rolling back the whole transaction on any batch error.
func (p *PostgresIndex) BulkInsertFingerprints(ctx context.Context, rows []FingerprintRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.New(errs.Index, "index.BulkInsertFingerprints", err)
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < len(rows); start += InsertBatchSize {
		end := min(start+InsertBatchSize, len(rows))
		n, err := insertFingerprintBatch(ctx, tx, rows[start:end])
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

func insertFingerprintBatch(ctx context.Context, tx *sql.Tx, rows []FingerprintRow) (int, error) {
	valueStrings := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*3)
	idx := 1
	for _, r := range rows {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, now())", idx, idx+1, idx+2))
		args = append(args, int64(r.Hash), r.AnchorTimeSeconds, r.SongID)
		idx += 3
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

// LookupByHashes materializes hashes into a transaction-scoped temp table
// and inner-joins it against fingerprint, per spec.md §4.6's hint that a
// multi-thousand-element IN clause is prohibitively expensive. The load is
// batched at LookupBatchSize.
func (p *PostgresIndex) LookupByHashes(ctx context.Context, hashes []uint64) (map[uint64][]HashMatch, error) {
	results := make(map[uint64][]HashMatch)
	if len(hashes) == 0 {
		return results, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.New(errs.Index, "index.LookupByHashes", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`CREATE TEMP TABLE query_hashes (hash BIGINT) ON COMMIT DROP`); err != nil {
		return nil, errs.New(errs.Index, "index.LookupByHashes", fmt.Errorf("creating temp table: %w", err))
	}

	for start := 0; start < len(hashes); start += LookupBatchSize {
		end := min(start+LookupBatchSize, len(hashes))
		if err := loadHashBatch(ctx, tx, hashes[start:end]); err != nil {
			return nil, errs.New(errs.Index, "index.LookupByHashes", err)
		}
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT f.hash, f.song_id, f.absolute_time_offset
		FROM fingerprint f
		JOIN query_hashes q ON q.hash = f.hash`)
	if err != nil {
		return nil, errs.New(errs.Index, "index.LookupByHashes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash int64
		var songID int32
		var anchorTime float64
		if err := rows.Scan(&hash, &songID, &anchorTime); err != nil {
			return nil, errs.New(errs.Index, "index.LookupByHashes", err)
		}
		h := uint64(hash)
		results[h] = append(results[h], HashMatch{SongID: songID, AnchorTimeSeconds: anchorTime})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New(errs.Index, "index.LookupByHashes", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.New(errs.Index, "index.LookupByHashes", err)
	}
	return results, nil
}

func loadHashBatch(ctx context.Context, tx *sql.Tx, hashes []uint64) error {
	valueStrings := make([]string, 0, len(hashes))
	args := make([]any, 0, len(hashes))
	for i, h := range hashes {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d)", i+1))
		args = append(args, int64(h))
	}
	query := fmt.Sprintf(`INSERT INTO query_hashes (hash) VALUES %s`, strings.Join(valueStrings, ","))
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Stats reports the database-wide song and fingerprint counts for the
// "stats" operator command.
func (p *PostgresIndex) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&stats.TotalSongs); err != nil {
		return Stats{}, errs.New(errs.Index, "index.Stats", err)
	}
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fingerprint`).Scan(&stats.TotalFingerprints); err != nil {
		return Stats{}, errs.New(errs.Index, "index.Stats", err)
	}
	return stats, nil
}

// ListSongs returns every persisted song, oldest first.
func (p *PostgresIndex) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, title, created_at FROM songs ORDER BY created_at`)
	if err != nil {
		return nil, errs.New(errs.Index, "index.ListSongs", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var s Song
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt); err != nil {
			return nil, errs.New(errs.Index, "index.ListSongs", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// DeleteSong removes a song and its fingerprints. Fingerprint rows carry a
// REFERENCES songs(id) with no ON DELETE CASCADE, so the fingerprint rows
// are deleted first.
func (p *PostgresIndex) DeleteSong(ctx context.Context, songID int32) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.New(errs.Index, "index.DeleteSong", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fingerprint WHERE song_id = $1`, songID); err != nil {
		return errs.New(errs.Index, "index.DeleteSong", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, songID); err != nil {
		return errs.New(errs.Index, "index.DeleteSong", err)
	}
	return errs.New(errs.Index, "index.DeleteSong", tx.Commit())
}

func (p *PostgresIndex) FetchTitles(ctx context.Context, songIDs []int32) (map[int32]string, error) {
	titles := make(map[int32]string)
	if len(songIDs) == 0 {
		return titles, nil
	}

	args := make([]any, len(songIDs))
	placeholders := make([]string, len(songIDs))
	for i, id := range songIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id, title FROM songs WHERE id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := p.db.QueryContext(ctx, query, args...)
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
