package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pipstats/pypinfo/schema"
)

// Default query parameters. Dates are day offsets relative to now; the last
// full day of logs ends yesterday, so the default window is the past month.
const (
	DefaultStartDate = "-31"
	DefaultEndDate   = "-1"
	DefaultLimit     = 10
)

// Source names the dataset identifiers a query is built against. Keeping
// these injectable lets the builder target mirrors or test fixtures of the
// download-log schema.
type Source struct {
	From            string // Complete FROM clause
	TimestampColumn string // Column holding the download timestamp
	ProjectColumn   string // Column holding the package name
	InstallerColumn string // Column holding the installer name
}

// PyPIDownloads is the public PyPI download-log dataset.
var PyPIDownloads = Source{
	From:            "FROM `bigquery-public-data.pypi.file_downloads`",
	TimestampColumn: "timestamp",
	ProjectColumn:   "file.project",
	InstallerColumn: "details.installer.name",
}

// Builder turns a QuerySpec into BigQuery standard SQL text.
type Builder struct {
	Source Source
}

// NewBuilder returns a Builder against the given source.
func NewBuilder(src Source) *Builder {
	return &Builder{Source: src}
}

// Build constructs the query text for the given spec. It is pure: the same
// spec always yields the same text, and the spec is never mutated.
func (b *Builder) Build(spec schema.QuerySpec) (string, error) {
	project := CanonicalizeName(spec.Project)

	startDate := spec.StartDate
	if startDate == "" {
		startDate = DefaultStartDate
	}
	endDate := spec.EndDate
	if endDate == "" {
		endDate = DefaultEndDate
	}
	limit := spec.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	if spec.Days > 0 {
		end, err := strconv.Atoi(endDate)
		if err != nil {
			return "", fmt.Errorf("--days requires a relative end date, got %q: %w", endDate, ErrInvalidDate)
		}
		startDate = strconv.Itoa(end - spec.Days)
	}

	startDate, endDate = NormalizeDates(startDate, endDate)
	if err := ValidateDate(startDate); err != nil {
		return "", fmt.Errorf("start date %q: %w", startDate, err)
	}
	if err := ValidateDate(endDate); err != nil {
		return "", fmt.Errorf("end date %q: %w", endDate, err)
	}
	if err := checkRange(startDate, endDate); err != nil {
		return "", err
	}

	fields := dedupeFields(spec.Fields)
	fields = append(fields, schema.Downloads)

	var sb strings.Builder
	sb.WriteString("SELECT\n")
	for _, f := range fields {
		fmt.Fprintf(&sb, "  %s as %s,\n", f.Data, f.Name)
	}
	sb.WriteString(b.Source.From)
	fmt.Fprintf(&sb, "\nWHERE %s BETWEEN %s AND %s\n",
		b.Source.TimestampColumn,
		formatDate(startDate, startTimestampTpl),
		formatDate(endDate, endTimestampTpl))

	if spec.Where != "" {
		fmt.Fprintf(&sb, "  AND %s\n", spec.Where)
	} else {
		var conditions []string
		if project != "" {
			conditions = append(conditions, fmt.Sprintf("%s = %q\n", b.Source.ProjectColumn, project))
		}
		if spec.Pip {
			conditions = append(conditions, fmt.Sprintf("%s = \"pip\"\n", b.Source.InstallerColumn))
		}
		if len(conditions) > 0 {
			sb.WriteString("  AND ")
			sb.WriteString(strings.Join(conditions, "  AND "))
		}
	}

	var groupNames []string
	for _, f := range fields {
		if !f.Aggregate {
			groupNames = append(groupNames, f.Name)
		}
	}
	if len(groupNames) > 0 {
		sb.WriteString("GROUP BY\n  ")
		sb.WriteString(strings.Join(groupNames, ", "))
		sb.WriteString("\n")
	}

	orderBy := spec.OrderBy
	if orderBy == "" {
		orderBy = schema.Downloads.Name
	}
	fmt.Fprintf(&sb, "ORDER BY\n  %s DESC\n", orderBy)
	fmt.Fprintf(&sb, "LIMIT %d", limit)

	return sb.String(), nil
}

// checkRange rejects windows whose end does not come after the start. Both
// bounds relative or both absolute are comparable; mixed bounds are passed
// through to BigQuery as-is.
func checkRange(startDate, endDate string) error {
	start, serr := strconv.Atoi(startDate)
	end, eerr := strconv.Atoi(endDate)
	switch {
	case serr == nil && eerr == nil:
		if start >= end {
			return ErrInvalidRange
		}
	case serr != nil && eerr != nil:
		// Both normalized to YYYY-MM-DD, so lexicographic order is
		// chronological order.
		if startDate >= endDate {
			return ErrInvalidRange
		}
	}
	return nil
}

// dedupeFields drops repeated fields and any stray download_count entry,
// preserving first-occurrence order. The download count is appended by the
// builder exactly once.
func dedupeFields(fields []schema.Field) []schema.Field {
	seen := make(map[string]struct{}, len(fields))
	out := make([]schema.Field, 0, len(fields))
	for _, f := range fields {
		if f.Name == schema.Downloads.Name {
			continue
		}
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f)
	}
	return out
}
