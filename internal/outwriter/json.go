package outwriter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pipstats/pypinfo/schema"
)

// timeNow is swapped out in tests for a fixed clock.
var timeNow = time.Now

// lastUpdateFormat is the UTC timestamp format stamped into JSON output.
const lastUpdateFormat = "2006-01-02 15:04:05"

// FormatJSON renders a table as a JSON document with the shape
// {"last_update": ..., "query": ..., "rows": [...]}. Digit-only cells become
// numbers. Keys are emitted in sorted order. An indent of 0 produces compact
// output with no whitespace; otherwise the document is pretty-printed with
// that many spaces per level.
func FormatJSON(table schema.Table, metadata schema.QueryMetadata, indent int) (string, error) {
	headers := table[0]
	items := make([]map[string]any, 0, len(table)-1)
	for _, row := range table[1:] {
		item := make(map[string]any, len(headers))
		for i, h := range headers {
			if isDigits(row[i]) {
				n, err := strconv.ParseInt(row[i], 10, 64)
				if err == nil {
					item[h] = n
					continue
				}
			}
			item[h] = row[i]
		}
		items = append(items, item)
	}

	doc := map[string]any{
		"last_update": timeNow().UTC().Format(lastUpdateFormat),
		"rows":        items,
		"query":       metadata,
	}

	var (
		out []byte
		err error
	)
	if indent > 0 {
		out, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}
