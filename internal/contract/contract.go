// Package contract provides interfaces and shared utilities for the pypinfo
// CLI's internal architecture.
package contract

import (
	"context"

	"github.com/pipstats/pypinfo/schema"
)

// Executor runs a finished query against the download-log backend.
// This allows the CLI flow to be tested without a BigQuery account.
type Executor interface {
	// Run executes the query and returns the result rows (header first)
	// together with job statistics.
	Run(ctx context.Context, query string) (schema.Table, *schema.QueryStats, error)
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
