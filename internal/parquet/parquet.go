// Package parquet exports query results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/pipstats/pypinfo/schema"
)

// DownloadRecord is one result row in the Parquet export. Every catalog
// column is optional because rows only carry the fields the query selected.
type DownloadRecord struct {
	Project           *string `parquet:"project,optional,snappy"`
	Version           *string `parquet:"version,optional,snappy"`
	File              *string `parquet:"file,optional,snappy"`
	PythonVersion     *string `parquet:"python_version,optional,snappy"`
	Percent3          *string `parquet:"percent_3,optional,snappy"`
	Percent2          *string `parquet:"percent_2,optional,snappy"`
	Implementation    *string `parquet:"implementation,optional,snappy"`
	ImplVersion       *string `parquet:"impl_version,optional,snappy"`
	OpenSSLVersion    *string `parquet:"openssl_version,optional,snappy"`
	DownloadDate      *string `parquet:"download_date,optional,snappy"`
	DownloadMonth     *string `parquet:"download_month,optional,snappy"`
	DownloadYear      *string `parquet:"download_year,optional,snappy"`
	Country           *string `parquet:"country,optional,snappy"`
	InstallerName     *string `parquet:"installer_name,optional,snappy"`
	InstallerVersion  *string `parquet:"installer_version,optional,snappy"`
	SetuptoolsVersion *string `parquet:"setuptools_version,optional,snappy"`
	SystemName        *string `parquet:"system_name,optional,snappy"`
	SystemRelease     *string `parquet:"system_release,optional,snappy"`
	DistroName        *string `parquet:"distro_name,optional,snappy"`
	DistroVersion     *string `parquet:"distro_version,optional,snappy"`
	CPU               *string `parquet:"cpu,optional,snappy"`
	LibcName          *string `parquet:"libc_name,optional,snappy"`
	LibcVersion       *string `parquet:"libc_version,optional,snappy"`
	Percent           *string `parquet:"percent,optional,snappy"`
	DownloadCount     *int64  `parquet:"download_count,optional,snappy"`
}

// WriteTable writes result rows (header first) to w as Parquet records.
func WriteTable(w io.Writer, table schema.Table) error {
	records, err := ConvertTable(table)
	if err != nil {
		return err
	}

	// The schema is automatically derived from the DownloadRecord struct tags
	writer := parquet.NewGenericWriter[DownloadRecord](w)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ConvertTable converts a result table into DownloadRecord values.
func ConvertTable(table schema.Table) ([]DownloadRecord, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}
	headers := table[0]

	records := make([]DownloadRecord, 0, len(table)-1)
	for _, row := range table[1:] {
		var rec DownloadRecord
		for i, h := range headers {
			if err := setColumn(&rec, h, row[i]); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// setColumn assigns a cell to the record field matching the column name.
func setColumn(rec *DownloadRecord, name, value string) error {
	if name == "download_count" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("download count %q is not an integer: %w", value, err)
		}
		rec.DownloadCount = &n
		return nil
	}

	v := value
	switch name {
	case "project":
		rec.Project = &v
	case "version":
		rec.Version = &v
	case "file":
		rec.File = &v
	case "python_version":
		rec.PythonVersion = &v
	case "percent_3":
		rec.Percent3 = &v
	case "percent_2":
		rec.Percent2 = &v
	case "implementation":
		rec.Implementation = &v
	case "impl_version":
		rec.ImplVersion = &v
	case "openssl_version":
		rec.OpenSSLVersion = &v
	case "download_date":
		rec.DownloadDate = &v
	case "download_month":
		rec.DownloadMonth = &v
	case "download_year":
		rec.DownloadYear = &v
	case "country":
		rec.Country = &v
	case "installer_name":
		rec.InstallerName = &v
	case "installer_version":
		rec.InstallerVersion = &v
	case "setuptools_version":
		rec.SetuptoolsVersion = &v
	case "system_name":
		rec.SystemName = &v
	case "system_release":
		rec.SystemRelease = &v
	case "distro_name":
		rec.DistroName = &v
	case "distro_version":
		rec.DistroVersion = &v
	case "cpu":
		rec.CPU = &v
	case "libc_name":
		rec.LibcName = &v
	case "libc_version":
		rec.LibcVersion = &v
	case "percent":
		rec.Percent = &v
	default:
		return fmt.Errorf("unknown column %q in parquet export", name)
	}
	return nil
}
