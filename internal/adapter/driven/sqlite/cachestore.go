package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gregjones/httpcache"
)

// Compile-time interface satisfaction check.
var _ httpcache.Cache = (*CacheStore)(nil)

// CacheStore is the SQLite implementation of the httpcache.Cache interface.
// It persists cached HTTP responses (keyed by request URL) across process
// restarts so conditional requests keep their ETags on the next run.
//
// httpcache treats the cache as best-effort, so the interface carries no
// errors; failures here are logged and reported as misses.
type CacheStore struct {
	db *DB
}

// NewCacheStore creates a new CacheStore on the given database.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

// Get returns the cached response bytes for key, if present.
func (s *CacheStore) Get(key string) ([]byte, bool) {
	const query = `SELECT response FROM http_cache WHERE key = ?`

	var response []byte
	if err := s.db.Reader.QueryRow(query, key).Scan(&response); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("http cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	return response, true
}

// Set stores or replaces the cached response bytes for key.
func (s *CacheStore) Set(key string, responseBytes []byte) {
	const query = `INSERT OR REPLACE INTO http_cache (key, response, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`

	if _, err := s.db.Writer.Exec(query, key, responseBytes); err != nil {
		slog.Warn("http cache write failed", "key", key, "error", err)
	}
}

// Delete removes the cached response for key, if present.
func (s *CacheStore) Delete(key string) {
	const query = `DELETE FROM http_cache WHERE key = ?`

	if _, err := s.db.Writer.Exec(query, key); err != nil {
		slog.Warn("http cache delete failed", "key", key, "error", err)
	}
}

// Size returns the number of cached responses. Used by the CLI's cache
// inspection output.
func (s *CacheStore) Size() (int, error) {
	const query = `SELECT COUNT(*) FROM http_cache`

	var count int
	if err := s.db.Reader.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}
