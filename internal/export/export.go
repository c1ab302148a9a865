// Package export persists computed distribution snapshots to SQLite.
package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/avelanarius/surveyscope/internal/distribution"
	"github.com/avelanarius/surveyscope/internal/session"
)

// Snapshot describes one exported distribution. Snapshots are write-only
// analysis output; nothing here is ever read back into a session.
type Snapshot struct {
	ID         int64
	CreatedAt  time.Time
	SourcePath string
	Question   string
	Kind       string
	Total      int
	Filters    string
}

// Store wraps SQLite access for distribution snapshots.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			source_path TEXT NOT NULL,
			question TEXT NOT NULL,
			kind TEXT NOT NULL,
			total INTEGER NOT NULL,
			filters TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot_answers (
			snapshot_id INTEGER NOT NULL,
			answer TEXT NOT NULL,
			count INTEGER NOT NULL,
			percentage REAL NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, answer)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_question ON snapshots(question);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSnapshot stores a distribution and its per-answer rows. Answers
// are stored in display order (descending count, discovery-order ties).
func (s *Store) InsertSnapshot(ctx context.Context, snap Snapshot, dist distribution.Distribution) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (created_at, source_path, question, kind, total, filters)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		createdAt.Format(time.RFC3339Nano),
		snap.SourcePath,
		dist.Question,
		dist.Kind.String(),
		dist.Total,
		snap.Filters,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, entry := range dist.SortedByCount() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO snapshot_answers (snapshot_id, answer, count, percentage, position)
			 VALUES (?, ?, ?, ?, ?)`,
			id, entry.Answer, entry.Count, entry.Percentage, i,
		); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSnapshots returns stored snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source_path, question, kind, total, filters
		 FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &createdAt, &snap.SourcePath, &snap.Question, &snap.Kind, &snap.Total, &snap.Filters); err != nil {
			return nil, err
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			snap.CreatedAt = parsed
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// SnapshotAnswers returns the stored answers of a snapshot in display order.
func (s *Store) SnapshotAnswers(ctx context.Context, snapshotID int64) ([]distribution.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT answer, count, percentage FROM snapshot_answers
		 WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	var entries []distribution.Entry
	for rows.Next() {
		var entry distribution.Entry
		if err := rows.Scan(&entry.Answer, &entry.Count, &entry.Percentage); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DescribeFilters renders active filter clauses for snapshot metadata.
func DescribeFilters(clauses []session.Clause) string {
	if len(clauses) == 0 {
		return ""
	}
	parts := make([]string, len(clauses))
	for i, clause := range clauses {
		parts[i] = clause.Question + "=" + clause.Option
	}
	return strings.Join(parts, "; ")
}
