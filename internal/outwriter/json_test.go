package outwriter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipstats/pypinfo/schema"
)

func withFixedClock(t *testing.T, fixed time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = orig })
}

func TestFormatJSONCompact(t *testing.T) {
	withFixedClock(t, time.Date(2024, 5, 1, 2, 3, 4, 0, time.UTC))

	table := schema.Table{
		{"country", "download_count"},
		{"US", "5"},
	}
	got, err := FormatJSON(table, schema.QueryMetadata{"bytes_billed": 500}, 0)
	require.NoError(t, err)

	want := `{"last_update":"2024-05-01 02:03:04",` +
		`"query":{"bytes_billed":500},` +
		`"rows":[{"country":"US","download_count":5}]}`
	assert.Equal(t, want, got)
}

func TestFormatJSONIndented(t *testing.T) {
	withFixedClock(t, time.Date(2024, 5, 1, 2, 3, 4, 0, time.UTC))

	table := schema.Table{
		{"country", "download_count"},
		{"US", "5"},
	}
	got, err := FormatJSON(table, nil, 2)
	require.NoError(t, err)

	assert.Contains(t, got, "{\n  \"last_update\"")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &doc))
	assert.Equal(t, "2024-05-01 02:03:04", doc["last_update"])
}

func TestFormatJSONNumericCells(t *testing.T) {
	table := schema.Table{
		{"version", "percent", "download_count"},
		{"2.31.0", "60.00%", "60"},
	}
	got, err := FormatJSON(table, nil, 0)
	require.NoError(t, err)

	var doc struct {
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &doc))
	require.Len(t, doc.Rows, 1)
	// Digit-only cells become numbers; everything else stays a string.
	assert.Equal(t, float64(60), doc.Rows[0]["download_count"])
	assert.Equal(t, "60.00%", doc.Rows[0]["percent"])
	assert.Equal(t, "2.31.0", doc.Rows[0]["version"])
}

func TestFormatJSONNoRows(t *testing.T) {
	table := schema.Table{{"country", "download_count"}}
	got, err := FormatJSON(table, nil, 0)
	require.NoError(t, err)
	assert.Contains(t, got, `"rows":[]`)
}
