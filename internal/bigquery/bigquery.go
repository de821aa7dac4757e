// Package bigquery runs finished queries against Google BigQuery.
package bigquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/schema"
)

// ErrNoCredentials is returned when no service account file can be located.
var ErrNoCredentials = errors.New("credentials could not be found")

// costPerTiB is BigQuery's on-demand query price in USD.
const costPerTiB = 5.0

// Executor runs queries with a real BigQuery client.
type Executor struct {
	client *bigquery.Client
}

var _ contract.Executor = &Executor{} // Compile-time check

// ResolveCredsFile picks the service account file: the explicit flag value
// wins, then the stored path, then GOOGLE_APPLICATION_CREDENTIALS.
func ResolveCredsFile(flagValue, storedValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if storedValue != "" {
		return storedValue, nil
	}
	if env := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); env != "" {
		return env, nil
	}
	return "", ErrNoCredentials
}

// NewExecutor creates an executor from a service account JSON file. The
// billing project is read from the file's project_id.
func NewExecutor(ctx context.Context, credsFile string) (*Executor, error) {
	projectID, err := readProjectID(credsFile)
	if err != nil {
		return nil, err
	}

	client, err := bigquery.NewClient(ctx, projectID, option.WithCredentialsFile(credsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	return &Executor{client: client}, nil
}

// Run executes the query with standard SQL and stringifies the result rows
// into a table, header first.
func (e *Executor) Run(ctx context.Context, query string) (schema.Table, *schema.QueryStats, error) {
	q := e.client.Query(query)
	q.UseLegacySQL = false

	job, err := q.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed waiting for query: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read query results: %w", err)
	}

	var table schema.Table
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to iterate query results: %w", err)
		}
		if table == nil {
			header := make(schema.Row, 0, len(it.Schema))
			for _, field := range it.Schema {
				header = append(header, field.Name)
			}
			table = append(table, header)
		}
		cells := make(schema.Row, 0, len(row))
		for _, v := range row {
			cells = append(cells, stringify(v))
		}
		table = append(table, cells)
	}
	if table == nil {
		header := make(schema.Row, 0, len(it.Schema))
		for _, field := range it.Schema {
			header = append(header, field.Name)
		}
		table = append(table, header)
	}

	return table, jobStats(job), nil
}

// Close releases the underlying client.
func (e *Executor) Close() error {
	return e.client.Close()
}

// jobStats extracts billing statistics from a finished job.
func jobStats(job *bigquery.Job) *schema.QueryStats {
	stats := &schema.QueryStats{}
	last := job.LastStatus()
	if last == nil || last.Statistics == nil {
		return stats
	}
	stats.BytesProcessed = last.Statistics.TotalBytesProcessed
	if details, ok := last.Statistics.Details.(*bigquery.QueryStatistics); ok {
		stats.CacheHit = details.CacheHit
		stats.BytesBilled = details.TotalBytesBilled
	}
	stats.EstimatedCost = EstimateCost(stats.BytesBilled)
	return stats
}

// EstimateCost converts billed bytes to USD, rounded up to the next cent.
func EstimateCost(bytesBilled int64) float64 {
	cost := float64(bytesBilled) / (1 << 40) * costPerTiB
	return math.Ceil(cost*100) / 100
}

// readProjectID extracts project_id from a service account JSON file.
func readProjectID(credsFile string) (string, error) {
	if credsFile == "" {
		return "", ErrNoCredentials
	}
	data, err := os.ReadFile(credsFile)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	var creds struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if creds.ProjectID == "" {
		return "", fmt.Errorf("credentials file %q has no project_id", credsFile)
	}
	return creds.ProjectID, nil
}

// stringify renders a BigQuery cell the way the CLI expects: plain decimal
// for integers, default formatting otherwise.
func stringify(v bigquery.Value) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return fmt.Sprintf("%d", t)
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
