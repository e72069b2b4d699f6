// Package sqlite implements the persistent cache store on a local SQLite
// file, one table per pipeline stage.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/termscout/termscout/internal/pipeline"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS translations (
	word       TEXT PRIMARY KEY,
	records    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS synonyms (
	word       TEXT PRIMARY KEY,
	words      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS webified (
	word       TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS whois (
	word       TEXT PRIMARY KEY,
	available  INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ratings (
	word       TEXT PRIMARY KEY,
	rating     REAL NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`

// Store is the SQLite-backed pipeline.Store. Writes are whole-record and
// append-only: a key that already exists is left untouched, which is what
// makes cached results immutable across runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate cache db: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Translations returns the cached per-language records for word.
func (s *Store) Translations(ctx context.Context, word string) ([]pipeline.Translation, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT records FROM translations WHERE word = ?`, word).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read translations %q: %w", word, err)
	}
	var records []pipeline.Translation
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("decode translations %q: %w", word, err)
	}
	return records, true, nil
}

// PutTranslations caches the full per-language record list for word.
func (s *Store) PutTranslations(ctx context.Context, word string, translations []pipeline.Translation) error {
	if translations == nil {
		translations = []pipeline.Translation{}
	}
	raw, err := json.Marshal(translations)
	if err != nil {
		return fmt.Errorf("encode translations %q: %w", word, err)
	}
	return s.put(ctx, `INSERT INTO translations (word, records) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING`, word, string(raw))
}

// Synonyms returns the cached synonym list for word.
func (s *Store) Synonyms(ctx context.Context, word string) ([]string, bool, error) {
	return s.stringList(ctx, `SELECT words FROM synonyms WHERE word = ?`, word)
}

// PutSynonyms caches the synonym list for word.
func (s *Store) PutSynonyms(ctx context.Context, word string, synonyms []string) error {
	if synonyms == nil {
		synonyms = []string{}
	}
	raw, err := json.Marshal(synonyms)
	if err != nil {
		return fmt.Errorf("encode synonyms %q: %w", word, err)
	}
	return s.put(ctx, `INSERT INTO synonyms (word, words) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING`, word, string(raw))
}

// Webified returns the cached webification record for word.
func (s *Store) Webified(ctx context.Context, word string) (pipeline.Webification, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM webified WHERE word = ?`, word).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return pipeline.Webification{}, false, nil
	}
	if err != nil {
		return pipeline.Webification{}, false, fmt.Errorf("read webified %q: %w", word, err)
	}
	var record pipeline.Webification
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return pipeline.Webification{}, false, fmt.Errorf("decode webified %q: %w", word, err)
	}
	return record, true, nil
}

// PutWebified caches a webification record keyed by its cleaned word.
func (s *Store) PutWebified(ctx context.Context, record pipeline.Webification) error {
	if record.Cleaned == "" {
		return errors.New("webified record requires a cleaned word")
	}
	if record.Variants == nil {
		record.Variants = []string{}
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode webified %q: %w", record.Cleaned, err)
	}
	return s.put(ctx, `INSERT INTO webified (word, record) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING`, record.Cleaned, string(raw))
}

// Whois returns the cached availability outcome for word.
func (s *Store) Whois(ctx context.Context, word string) (pipeline.Availability, bool, error) {
	var available int
	err := s.db.QueryRowContext(ctx,
		`SELECT available FROM whois WHERE word = ?`, word).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return pipeline.AvailabilityUnknown, false, nil
	}
	if err != nil {
		return pipeline.AvailabilityUnknown, false, fmt.Errorf("read whois %q: %w", word, err)
	}
	if available != 0 {
		return pipeline.AvailabilityAvailable, true, nil
	}
	return pipeline.AvailabilityTaken, true, nil
}

// PutWhois caches a terminal availability outcome. Unknown is rejected: an
// inconclusive lookup must stay a cache miss so future runs retry it.
func (s *Store) PutWhois(ctx context.Context, word string, availability pipeline.Availability) error {
	if availability == pipeline.AvailabilityUnknown {
		return errors.New("refusing to cache unknown availability")
	}
	available := 0
	if availability == pipeline.AvailabilityAvailable {
		available = 1
	}
	return s.put(ctx, `INSERT INTO whois (word, available) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING`, word, available)
}

// Rating returns the cached score for word.
func (s *Store) Rating(ctx context.Context, word string) (float64, bool, error) {
	var rating float64
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM ratings WHERE word = ?`, word).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read rating %q: %w", word, err)
	}
	return rating, true, nil
}

// PutRating caches the score (or failure sentinel) for word.
func (s *Store) PutRating(ctx context.Context, word string, rating float64) error {
	return s.put(ctx, `INSERT INTO ratings (word, rating) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING`, word, rating)
}

// RankedResult is one row of the results view.
type RankedResult struct {
	Word   string
	Rating float64
}

// RankedResults lists available words with a positive rating, best first.
func (s *Store) RankedResults(ctx context.Context, limit int) ([]RankedResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.word, r.rating
		FROM ratings r
		JOIN whois w ON w.word = r.word
		WHERE w.available = 1 AND r.rating > 0
		ORDER BY r.rating DESC, r.word ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query ranked results: %w", err)
	}
	defer rows.Close()

	var results []RankedResult
	for rows.Next() {
		var r RankedResult
		if err := rows.Scan(&r.Word, &r.Rating); err != nil {
			return nil, fmt.Errorf("scan ranked result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked results: %w", err)
	}
	return results, nil
}

// CacheCounts returns entry counts per stage partition.
func (s *Store) CacheCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 5)
	for _, table := range []string{"translations", "synonyms", "webified", "whois", "ratings"} {
		var n int
		// Table names come from the fixed list above, never user input.
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (s *Store) put(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

func (s *Store) stringList(ctx context.Context, query, word string) ([]string, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, query, word).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache %q: %w", word, err)
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, false, fmt.Errorf("decode cache %q: %w", word, err)
	}
	return list, true, nil
}
