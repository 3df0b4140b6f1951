package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLBackend keeps the record as one row of the activity_cache table. It
// serves both SQLite and PostgreSQL.
type SQLBackend struct {
	db     *sql.DB
	driver string
	key    string
	rebind func(string) string
}

// OpenSQLite opens (and creates) a SQLite database file.
func OpenSQLite(path, key string) (*SQLBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return newSQLBackend(db, "sqlite", key)
}

// OpenPostgres connects to PostgreSQL using a lib/pq DSN.
func OpenPostgres(dsn, key string) (*SQLBackend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres db: %w", err)
	}
	return newSQLBackend(db, "postgres", key)
}

func newSQLBackend(db *sql.DB, driver, key string) (*SQLBackend, error) {
	b := &SQLBackend{db: db, driver: driver, key: key, rebind: func(q string) string { return q }}
	if driver == "postgres" {
		b.rebind = dollarPlaceholders
	}
	if err := b.init(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLBackend) init() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS activity_cache (
			key        TEXT PRIMARY KEY,
			written_at DOUBLE PRECISION NOT NULL,
			data       TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (b *SQLBackend) Name() string { return b.driver }

func (b *SQLBackend) Load(ctx context.Context) (Record, error) {
	var (
		ts   float64
		data string
	)
	err := b.db.QueryRowContext(ctx,
		b.rebind("SELECT written_at, data FROM activity_cache WHERE key = ?"), b.key,
	).Scan(&ts, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("querying cache row: %w", err)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return Record{}, err
	}
	return Record{Timestamp: ts, Data: entries}, nil
}

func (b *SQLBackend) Save(ctx context.Context, rec Record) error {
	data, err := encodeEntries(rec.Data)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx, b.rebind(`
		INSERT INTO activity_cache (key, written_at, data) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			written_at = excluded.written_at,
			data = excluded.data
	`), b.key, rec.Timestamp, data)
	if err != nil {
		return fmt.Errorf("upserting cache row: %w", err)
	}
	return nil
}

func (b *SQLBackend) Clear(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, b.rebind("DELETE FROM activity_cache WHERE key = ?"), b.key)
	return err
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

// dollarPlaceholders rewrites ? placeholders to PostgreSQL's $n form.
func dollarPlaceholders(q string) string {
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
