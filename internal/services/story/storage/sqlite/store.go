// Package sqlite persists raw-data snapshots of a story database in SQLite.
//
// A snapshot is the pipe-delimited text produced by the scaffold. Saving the
// same body twice under one name does not duplicate it; the existing row is
// promoted to the newest revision instead.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	sqlitemigrate "github.com/louisbranch/pipdeck/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Snapshot is one stored raw-data body.
type Snapshot struct {
	ID        int64
	Name      string
	Body      string
	Digest    string
	Revision  int64
	CreatedAt time.Time
}

// Summary describes a snapshot without its body.
type Summary struct {
	ID        int64
	Name      string
	Digest    string
	Revision  int64
	Size      int
	CreatedAt time.Time
}

// Store persists snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite snapshot store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Digest returns the hex sha256 of a snapshot body.
func Digest(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Save stores body as the newest revision of name.
func (s *Store) Save(ctx context.Context, name, body string) (Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return Snapshot{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "snapshot name is required",
			map[string]string{"Field": "name", "Value": ""})
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var revision int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(revision), 0) + 1 FROM snapshots WHERE name = ?`, name,
	).Scan(&revision); err != nil {
		return Snapshot{}, fmt.Errorf("next revision: %w", err)
	}

	digest := Digest(body)
	createdAt := s.now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, body, digest, revision, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, body, digest, revision, createdAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		_, err = tx.ExecContext(ctx,
			`UPDATE snapshots SET revision = ? WHERE name = ? AND digest = ?`,
			revision, name, digest,
		)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %s: %w", name, err)
	}

	snap, err := scanSnapshot(tx.QueryRowContext(ctx,
		`SELECT id, name, body, digest, revision, created_at FROM snapshots WHERE name = ? AND digest = ?`,
		name, digest,
	))
	if err != nil {
		return Snapshot{}, fmt.Errorf("reload snapshot %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit save: %w", err)
	}
	return snap, nil
}

// Latest returns the highest revision stored under name.
func (s *Store) Latest(ctx context.Context, name string) (Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return Snapshot{}, err
	}
	snap, err := scanSnapshot(s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, body, digest, revision, created_at FROM snapshots
		 WHERE name = ? ORDER BY revision DESC LIMIT 1`,
		strings.TrimSpace(name),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, notFound("name", name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("latest snapshot %s: %w", name, err)
	}
	return snap, nil
}

// Get returns one snapshot by id.
func (s *Store) Get(ctx context.Context, id int64) (Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return Snapshot{}, err
	}
	snap, err := scanSnapshot(s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, body, digest, revision, created_at FROM snapshots WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, notFound("id", fmt.Sprint(id))
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %d: %w", id, err)
	}
	return snap, nil
}

// List returns every snapshot summary, newest revision first within a name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, digest, revision, LENGTH(CAST(body AS BLOB)), created_at FROM snapshots
		 ORDER BY name ASC, revision DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var createdAt int64
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Digest, &sum.Revision, &sum.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	var createdAt int64
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Body, &snap.Digest, &snap.Revision, &createdAt); err != nil {
		return Snapshot{}, err
	}
	snap.CreatedAt = time.UnixMilli(createdAt).UTC()
	return snap, nil
}

func notFound(key, value string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		fmt.Sprintf("snapshot %s %q not found", key, value),
		map[string]string{"Entity": "snapshot", "ID": value})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
