package outwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipstats/pypinfo/schema"
)

func TestTabulateText(t *testing.T) {
	table := schema.Table{
		{"country", "download_count"},
		{"US", "1234567"},
		{"DE", "89"},
	}

	want := strings.Join([]string{
		"| country | download_count |",
		"| ------- | -------------- |",
		"| US      |      1,234,567 |",
		"| DE      |             89 |",
		"",
	}, "\n")
	assert.Equal(t, want, Tabulate(table, false))

	// Input must stay untouched by the comma formatting.
	assert.Equal(t, "1234567", table[1][1])
}

func TestTabulateMarkdown(t *testing.T) {
	table := schema.Table{
		{"country", "percent", "download_count"},
		{"US", "60.00%", "60"},
		{"DE", "40.00%", "40"},
	}

	want := strings.Join([]string{
		"| country | percent | download_count |",
		"| ------- | ------: | -------------: |",
		"| US      |  60.00% |             60 |",
		"| DE      |  40.00% |             40 |",
		"",
	}, "\n")
	assert.Equal(t, want, Tabulate(table, true))
}

func TestTabulateLeftAlignsText(t *testing.T) {
	table := schema.Table{
		{"project", "version"},
		{"requests", "2.31.0"},
		{"numpy", "1.26"},
	}

	want := strings.Join([]string{
		"| project  | version |",
		"| -------- | ------- |",
		"| requests | 2.31.0  |",
		"| numpy    | 1.26    |",
		"",
	}, "\n")
	assert.Equal(t, want, Tabulate(table, false))
	// No numeric column, so markdown separators carry no colons.
	assert.Equal(t, want, Tabulate(table, true))
}

func TestTabulateColumnLevelAlignment(t *testing.T) {
	// One numeric cell flips the whole column, including non-numeric cells.
	table := schema.Table{
		{"version", "download_count"},
		{"2024", "60"},
		{"beta", "40"},
	}
	want := strings.Join([]string{
		"| version | download_count |",
		"| ------- | -------------- |",
		"|   2,024 |             60 |",
		"|    beta |             40 |",
		"",
	}, "\n")
	assert.Equal(t, want, Tabulate(table, false))
}

func TestTabulateEmpty(t *testing.T) {
	assert.Equal(t, "", Tabulate(nil, false))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("123"))
	assert.True(t, isDigits("0"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("-1"))
	assert.False(t, isDigits("1.5"))
	assert.False(t, isDigits("12a"))
}
