// Package schema holds the shared data model for the pypinfo CLI.
package schema

import "time"

// Field is a named, SQL-expression-backed output column.
// Aggregate fields represent computed summaries and are excluded from GROUP BY.
type Field struct {
	Name      string // Display name used as the SELECT alias (e.g. "download_count")
	Data      string // SQL expression the field computes
	Aggregate bool   // True for computed summaries such as counts and ratios
}

// QuerySpec is the Query Builder's input.
// If both Days and StartDate are given, Days takes precedence for the start bound.
type QuerySpec struct {
	Project   string  // Package name, canonicalized before embedding
	Fields    []Field // Requested output fields, in order; Downloads is appended by the builder
	StartDate string  // Negative day offset, YYYY-MM-DD, or YYYY-MM (empty = default)
	EndDate   string  // Same forms as StartDate (empty = default)
	Days      int     // When > 0, recomputes the start bound as end - days
	Limit     int     // Row limit (0 = default)
	Where     string  // Raw WHERE fragment, overrides the project/pip filters
	OrderBy   string  // ORDER BY override (default: download_count)
	Pip       bool    // Restrict to downloads made by pip
}

// Row is an ordered sequence of string cells.
type Row = []string

// Table is an ordered sequence of rows, header first.
// Every data row has the same cell count as the header.
type Table []Row

// Clone returns a deep copy of the table. Shaping operations work on copies
// so that percentage/total/tabulate stay composable.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = make(Row, len(row))
		copy(out[i], row)
	}
	return out
}

// QueryMetadata is the query information embedded in JSON output under the
// "query" key, e.g. the query text and the parameters used to build it.
type QueryMetadata map[string]any

// QueryStats holds execution statistics reported by the executor.
type QueryStats struct {
	CacheHit       bool
	BytesProcessed int64
	BytesBilled    int64
	EstimatedCost  float64 // USD, derived from billed bytes
}

// CacheStatus holds status information about the result cache.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}
