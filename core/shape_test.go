package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipstats/pypinfo/schema"
)

func sampleTable() schema.Table {
	return schema.Table{
		{"country", "download_count"},
		{"US", "10"},
		{"DE", "30"},
		{"IN", "60"},
	}
}

func TestAddPercentagesWithSign(t *testing.T) {
	table := sampleTable()
	got, err := AddPercentages(table, true)
	require.NoError(t, err)

	want := schema.Table{
		{"country", "percent", "download_count"},
		{"US", "10.00%", "10"},
		{"DE", "30.00%", "30"},
		{"IN", "60.00%", "60"},
	}
	assert.Equal(t, want, got)
	// Input must stay untouched.
	assert.Equal(t, sampleTable(), table)
}

func TestAddPercentagesWithoutSign(t *testing.T) {
	got, err := AddPercentages(sampleTable(), false)
	require.NoError(t, err)

	want := schema.Table{
		{"country", "percent", "download_count"},
		{"US", "0.1", "10"},
		{"DE", "0.3", "30"},
		{"IN", "0.6", "60"},
	}
	assert.Equal(t, want, got)
}

func TestAddPercentagesZeroTotal(t *testing.T) {
	table := schema.Table{
		{"country", "download_count"},
		{"US", "0"},
		{"DE", "0"},
	}
	_, err := AddPercentages(table, true)
	assert.ErrorIs(t, err, ErrEmptyTotal)
}

func TestAddPercentagesMissingColumn(t *testing.T) {
	table := schema.Table{
		{"country", "files"},
		{"US", "3"},
	}
	_, err := AddPercentages(table, true)
	assert.ErrorContains(t, err, "download_count")
}

func TestAddTotal(t *testing.T) {
	table := sampleTable()
	got, err := AddTotal(table)
	require.NoError(t, err)

	want := schema.Table{
		{"country", "download_count"},
		{"US", "10"},
		{"DE", "30"},
		{"IN", "60"},
		{"Total", "100"},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, sampleTable(), table)
}

func TestAddTotalWiderTable(t *testing.T) {
	table := schema.Table{
		{"country", "version", "download_count"},
		{"US", "2.0", "5"},
		{"DE", "2.1", "7"},
	}
	got, err := AddTotal(table)
	require.NoError(t, err)
	assert.Equal(t, schema.Row{"Total", "", "12"}, got[len(got)-1])
}

func TestAddTotalAfterPercentages(t *testing.T) {
	got, err := AddPercentages(sampleTable(), true)
	require.NoError(t, err)
	got, err = AddTotal(got)
	require.NoError(t, err)
	assert.Equal(t, schema.Row{"Total", "", "100"}, got[len(got)-1])
}

func TestAddTotalBadCount(t *testing.T) {
	table := schema.Table{
		{"country", "download_count"},
		{"US", "many"},
	}
	_, err := AddTotal(table)
	assert.ErrorContains(t, err, "not an integer")
}
