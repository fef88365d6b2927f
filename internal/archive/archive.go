package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"scribe/internal/event"
)

// Store manages record persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the archive database and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS records (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    ts      TEXT    NOT NULL,
    level   TEXT    NOT NULL,
    levelno INTEGER NOT NULL,
    logger  TEXT    NOT NULL,
    message TEXT    NOT NULL,
    extras  TEXT
);
CREATE INDEX IF NOT EXISTS idx_records_ts ON records (ts);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Path returns the on-disk location backing the archive.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Name, Accepts, and Write implement the pipeline sink contract. The archive
// keeps everything the logger dispatches.
func (s *Store) Name() string { return "archive" }

func (s *Store) Accepts(*event.Record) bool { return true }

func (s *Store) Write(rec *event.Record) error {
	var extras any
	if len(rec.Extras) > 0 {
		encoded, err := json.Marshal(rec.Extras)
		if err != nil {
			encoded, _ = json.Marshal(fmt.Sprint(rec.Extras))
		}
		extras = string(encoded)
	}
	_, err := s.db.Exec(
		`INSERT INTO records (ts, level, levelno, logger, message, extras)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Time.UTC().Format(time.RFC3339Nano),
		rec.Level.String(),
		int(rec.Level),
		rec.Logger,
		rec.Message,
		extras,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Row is one archived record.
type Row struct {
	ID      int64
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Extras  map[string]any
}

// Tail returns up to limit of the most recent records in chronological order.
func (s *Store) Tail(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, ts, level, logger, message, extras
         FROM records ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row    Row
			ts     string
			extras sql.NullString
		)
		if err := rows.Scan(&row.ID, &ts, &row.Level, &row.Logger, &row.Message, &extras); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			row.Time = parsed
		}
		if extras.Valid && extras.String != "" {
			_ = json.Unmarshal([]byte(extras.String), &row.Extras)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Prune removes records older than retentionDays. A value of 0 disables
// pruning. Returns the number of rows removed.
func (s *Store) Prune(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339Nano)
	res, err := s.db.Exec(`DELETE FROM records WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune records: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned records: %w", err)
	}
	return removed, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
