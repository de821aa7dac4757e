package iocache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/schema"
)

// Table names for the two stores sharing the cache database. Query results
// and settings live apart so that clearing the cache keeps credentials.
const (
	resultsTable  = "pypinfo_results"
	settingsTable = "pypinfo_settings"
)

// currentCacheVersion defines the version of the cache schema.
const currentCacheVersion = 1

// credsPathKey is the settings key holding the credentials file path.
const credsPathKey = "creds::path"

// ResultCache stores query results keyed by query text, plus persistent
// settings such as the credentials file path.
type ResultCache struct {
	results  contract.CacheStore
	settings contract.CacheStore
	ttl      time.Duration
}

// NewResultCache opens the result and settings stores on the configured
// backend.
func NewResultCache(backend schema.DatabaseBackend, connStr string, ttl time.Duration) (*ResultCache, error) {
	results, err := NewCacheStore(resultsTable, backend, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize result cache: %w", err)
	}
	settings, err := NewCacheStore(settingsTable, backend, connStr)
	if err != nil {
		_ = results.Close()
		return nil, fmt.Errorf("failed to initialize settings store: %w", err)
	}
	return &ResultCache{results: results, settings: settings, ttl: ttl}, nil
}

// GetTable returns the cached result table for a query, if a fresh entry
// with the current schema version exists.
func (c *ResultCache) GetTable(query string) (schema.Table, bool) {
	data, version, ts, err := c.results.Get(cacheKey(query))
	if err != nil {
		return nil, false // Cache miss
	}
	if version != currentCacheVersion {
		return nil, false
	}
	if time.Since(time.Unix(ts, 0)) > c.ttl {
		return nil, false // Stale
	}

	var table schema.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, false
	}
	return table, true
}

// PutTable stores a query's result table.
func (c *ResultCache) PutTable(query string, table schema.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return c.results.Set(cacheKey(query), data, currentCacheVersion, time.Now().Unix())
}

// SetCredentials persists the credentials file path across runs.
func (c *ResultCache) SetCredentials(path string) error {
	return c.settings.Set(credsPathKey, []byte(path), currentCacheVersion, time.Now().Unix())
}

// GetCredentials returns the stored credentials file path. Settings never
// expire.
func (c *ResultCache) GetCredentials() (string, bool) {
	data, _, _, err := c.settings.Get(credsPathKey)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Clear removes all cached query results, keeping settings intact.
func (c *ResultCache) Clear() error {
	return c.results.Clear()
}

// Status returns status information about the result store.
func (c *ResultCache) Status() (schema.CacheStatus, error) {
	return c.results.GetStatus()
}

// Close closes both stores.
func (c *ResultCache) Close() error {
	rerr := c.results.Close()
	serr := c.settings.Close()
	if rerr != nil {
		return rerr
	}
	return serr
}

// cacheKey derives a stable key from the query text.
func cacheKey(query string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(query)))
}
