package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by Get when no record matches.
var ErrNotFound = errors.New("translation not found in history")

// Record is one stored translation.
type Record struct {
	MessageID string
	Language  string // Locale code of the target language
	Sentence  string
	Raw       string // Reply as received from the provider
	Text      string // Aligned output, or Raw when it could not be aligned
	Reason    string // Why Text is not aligned; empty when it is
	Provider  string
	CreatedAt time.Time
}

// Store is a SQLite-backed translation history.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	message_id TEXT NOT NULL,
	language   TEXT NOT NULL,
	sentence   TEXT NOT NULL,
	raw        TEXT NOT NULL,
	text       TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	provider   TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	PRIMARY KEY (message_id, language)
);
CREATE INDEX IF NOT EXISTS idx_translations_created ON translations(created_at);
`

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, replacing an earlier translation of the same message
// into the same language.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.MessageID == "" || rec.Language == "" {
		return fmt.Errorf("history record needs a message id and a language")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO translations
			(message_id, language, sentence, raw, text, reason, provider, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MessageID, rec.Language, rec.Sentence, rec.Raw, rec.Text,
		rec.Reason, rec.Provider, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save translation: %w", err)
	}
	return nil
}

// Get returns the stored translation of messageID into language.
func (s *Store) Get(ctx context.Context, messageID, language string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT message_id, language, sentence, raw, text, reason, provider, created_at
		FROM translations WHERE message_id = ? AND language = ?`,
		messageID, language)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read translation: %w", err)
	}
	return rec, nil
}

// List returns up to limit translations, newest first. A limit below 1
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT message_id, language, sentence, raw, text, reason, provider, created_at
		FROM translations ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list translations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read translation: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var created int64
	if err := s.Scan(&rec.MessageID, &rec.Language, &rec.Sentence, &rec.Raw,
		&rec.Text, &rec.Reason, &rec.Provider, &created); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(created)
	return &rec, nil
}
