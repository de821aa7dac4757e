// Package outwriter renders query results in all supported output formats.
package outwriter

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pipstats/pypinfo/schema"
)

// Tabulate renders a table as fixed-width pipe-delimited text. Digit-only
// cells get thousands separators and right alignment; cells ending in '%'
// are right-aligned too. Alignment is column-level: one numeric cell flips
// the whole column. In markdown mode the separator row marks right-aligned
// columns with a trailing ':'.
func Tabulate(table schema.Table, markdown bool) string {
	if len(table) == 0 {
		return ""
	}
	rows := table.Clone()

	widths := make([]int, len(rows[0]))
	rightAlign := make([]bool, len(rows[0]))

	for _, row := range rows {
		for i, item := range row {
			if isDigits(item) {
				n, _ := strconv.ParseInt(item, 10, 64)
				row[i] = humanize.Comma(n)
				rightAlign[i] = true
			} else if strings.HasSuffix(item, "%") {
				rightAlign[i] = true
			}
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder

	header := rows[0]
	line := "| "
	for i, item := range header {
		line += item + strings.Repeat(" ", widths[i]-len(item)+1) + "| "
	}
	sb.WriteString(strings.TrimRight(line, " "))
	sb.WriteString("\n")

	line = "| "
	for i := range header {
		line += strings.Repeat("-", widths[i]-1)
		if rightAlign[i] && markdown {
			line += ": | "
		} else {
			line += "- | "
		}
	}
	sb.WriteString(strings.TrimRight(line, " "))
	sb.WriteString("\n")

	for _, row := range rows[1:] {
		for i, item := range row {
			pad := widths[i] - len(item)
			sb.WriteString("| ")
			if rightAlign[i] {
				sb.WriteString(strings.Repeat(" ", pad) + item + " ")
			} else {
				sb.WriteString(item + strings.Repeat(" ", pad+1))
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
