package core

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pipstats/pypinfo/schema"
)

// ErrEmptyTotal is returned when percentages are requested over rows whose
// download counts sum to zero.
var ErrEmptyTotal = errors.New("cannot compute percentages: total download count is zero")

// AddPercentages returns a copy of the table with a "percent" column
// inserted immediately before the download count. Each cell is the row's
// share of the total, rendered as "12.34%" with the sign or as a bare
// two-significant-digit ratio without it.
func AddPercentages(table schema.Table, includeSign bool) (schema.Table, error) {
	idx, err := columnIndex(table, schema.Downloads.Name)
	if err != nil {
		return nil, err
	}

	var total int64
	counts := make([]int64, 0, len(table)-1)
	for _, row := range table[1:] {
		n, err := strconv.ParseInt(row[idx], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("download count %q is not an integer: %w", row[idx], err)
		}
		counts = append(counts, n)
		total += n
	}
	if total == 0 {
		return nil, ErrEmptyTotal
	}

	out := make(schema.Table, 0, len(table))
	out = append(out, insertCell(table[0], idx, "percent"))
	for i, row := range table[1:] {
		share := float64(counts[i]) / float64(total)
		var cell string
		if includeSign {
			cell = fmt.Sprintf("%.2f%%", share*100)
		} else {
			cell = strconv.FormatFloat(share, 'g', 2, 64)
		}
		out = append(out, insertCell(row, idx, cell))
	}
	return out, nil
}

// AddTotal returns a copy of the table with a summary row appended: "Total"
// in the first cell, the summed download count in the last, all other cells
// empty.
func AddTotal(table schema.Table) (schema.Table, error) {
	idx, err := columnIndex(table, schema.Downloads.Name)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range table[1:] {
		n, err := strconv.ParseInt(row[idx], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("download count %q is not an integer: %w", row[idx], err)
		}
		total += n
	}

	out := table.Clone()
	totalRow := make(schema.Row, len(table[0]))
	totalRow[0] = "Total"
	totalRow[idx] = strconv.FormatInt(total, 10)
	out = append(out, totalRow)
	return out, nil
}

// columnIndex finds the header index of the named column.
func columnIndex(table schema.Table, name string) (int, error) {
	if len(table) == 0 {
		return 0, fmt.Errorf("table has no header row")
	}
	for i, cell := range table[0] {
		if cell == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("table has no %q column", name)
}

// insertCell copies a row with value placed at index i.
func insertCell(row schema.Row, i int, value string) schema.Row {
	out := make(schema.Row, 0, len(row)+1)
	out = append(out, row[:i]...)
	out = append(out, value)
	out = append(out, row[i:]...)
	return out
}
