// Package cache provides a TTL cache for upstream gateway responses.
package cache

import (
	"context"
	"log/slog"
	"time"

	"skydrift/pkg/db"
)

// Cacher defines the caching interface.
type Cacher interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// SQLiteCache implements Cacher on top of pkg/db with a fixed TTL.
type SQLiteCache struct {
	db  *db.DB
	ttl time.Duration
}

// NewSQLiteCache creates a new cache with the given entry lifetime.
func NewSQLiteCache(d *db.DB, ttl time.Duration) *SQLiteCache {
	return &SQLiteCache{db: d, ttl: ttl}
}

// GetCache returns the cached value for key if present and not expired.
func (c *SQLiteCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	var expires int64

	row := c.db.QueryRowContext(ctx, "SELECT val, expires_at FROM cache WHERE key = ?", key)
	if err := row.Scan(&val, &expires); err != nil {
		return nil, false
	}

	if time.Now().Unix() > expires {
		// Expired entries are removed lazily.
		if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
			slog.Debug("Cache: Failed to delete expired entry", "key", key, "error", err)
		}
		return nil, false
	}

	return val, true
}

// SetCache stores val under key with the configured TTL.
func (c *SQLiteCache) SetCache(ctx context.Context, key string, val []byte) error {
	expires := time.Now().Add(c.ttl).Unix()
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache (key, val, expires_at) VALUES (?, ?, ?)",
		key, val, expires)
	return err
}

// NullCache is a Cacher that never hits. Used when no database is configured.
type NullCache struct{}

func (NullCache) GetCache(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (NullCache) SetCache(ctx context.Context, key string, val []byte) error {
	return nil
}
