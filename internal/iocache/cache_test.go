package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipstats/pypinfo/schema"
)

func newSQLiteCache(t *testing.T, ttl time.Duration) *ResultCache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	cache, err := NewResultCache(schema.SQLiteBackend, dbPath, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache := newSQLiteCache(t, time.Hour)

	table := schema.Table{
		{"country", "download_count"},
		{"US", "42"},
	}
	query := "SELECT 1"

	_, ok := cache.GetTable(query)
	assert.False(t, ok)

	require.NoError(t, cache.PutTable(query, table))

	got, ok := cache.GetTable(query)
	require.True(t, ok)
	assert.Equal(t, table, got)

	// A different query misses.
	_, ok = cache.GetTable("SELECT 2")
	assert.False(t, ok)
}

func TestResultCacheExpiry(t *testing.T) {
	cache := newSQLiteCache(t, time.Nanosecond)

	table := schema.Table{{"country", "download_count"}}
	require.NoError(t, cache.PutTable("SELECT 1", table))

	time.Sleep(10 * time.Millisecond)
	_, ok := cache.GetTable("SELECT 1")
	assert.False(t, ok)
}

func TestResultCacheClearKeepsSettings(t *testing.T) {
	cache := newSQLiteCache(t, time.Hour)

	require.NoError(t, cache.PutTable("SELECT 1", schema.Table{{"h"}}))
	require.NoError(t, cache.SetCredentials("/tmp/creds.json"))

	require.NoError(t, cache.Clear())

	_, ok := cache.GetTable("SELECT 1")
	assert.False(t, ok)

	path, ok := cache.GetCredentials()
	require.True(t, ok)
	assert.Equal(t, "/tmp/creds.json", path)
}

func TestResultCacheCredentialsMissing(t *testing.T) {
	cache := newSQLiteCache(t, time.Hour)
	_, ok := cache.GetCredentials()
	assert.False(t, ok)
}

func TestResultCacheStatus(t *testing.T) {
	cache := newSQLiteCache(t, time.Hour)
	require.NoError(t, cache.PutTable("SELECT 1", schema.Table{{"h"}}))

	status, err := cache.Status()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalEntries)
	assert.False(t, status.LastEntryTime.IsZero())
}

func TestNoneBackend(t *testing.T) {
	cache, err := NewResultCache(schema.NoneBackend, "", time.Hour)
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	require.NoError(t, cache.PutTable("SELECT 1", schema.Table{{"h"}}))
	_, ok := cache.GetTable("SELECT 1")
	assert.False(t, ok)

	status, err := cache.Status()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("pypinfo_results"))
	assert.NoError(t, validateTableName("_private"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1table"))
	assert.Error(t, validateTableName("drop table; --"))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
}

func TestCacheKeyStable(t *testing.T) {
	a := cacheKey("SELECT 1")
	b := cacheKey("SELECT 1")
	c := cacheKey("SELECT 2")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
