package presence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	userToken TEXT UNIQUE NOT NULL,
	isPlaying BOOLEAN DEFAULT FALSE
);`

// SQLiteStore is the sqlite-backed Store implementation.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the sqlite database at dsn
// and ensures the users table exists. WAL journaling and a busy timeout
// keep concurrent handler access from tripping over the write lock.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (Record, error) {
	return s.getBy(ctx, `SELECT username, userToken, isPlaying FROM users WHERE userToken = ?`, token)
}

func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (Record, error) {
	return s.getBy(ctx, `SELECT username, userToken, isPlaying FROM users WHERE username = ?`, username)
}

func (s *SQLiteStore) getBy(ctx context.Context, query, key string) (Record, error) {
	var r Record
	err := s.db.QueryRowContext(ctx, query, key).Scan(&r.Username, &r.Token, &r.IsPlaying)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query user: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, username, token string, isPlaying bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (username, userToken, isPlaying) VALUES (?, ?, ?)`,
		username, token, isPlaying)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetPlaying(ctx context.Context, tokens []string, playing bool) error {
	if len(tokens) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tokens)), ",")
	args := make([]any, 0, len(tokens)+1)
	args = append(args, playing)
	for _, t := range tokens {
		args = append(args, t)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET isPlaying = ? WHERE userToken IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("set isPlaying: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAvailable(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, userToken, isPlaying FROM users WHERE isPlaying = 0`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Username, &r.Token, &r.IsPlaying); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
