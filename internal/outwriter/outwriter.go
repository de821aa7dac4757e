package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/internal/parquet"
	"github.com/pipstats/pypinfo/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults renders the shaped table using the configured output format.
func (ow *OutWriter) WriteResults(table schema.Table, cfg *contract.Config, metadata schema.QueryMetadata) error {
	switch cfg.Output {
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := io.WriteString(w, Tabulate(table, false))
			return err
		}, "Saved results")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := io.WriteString(w, Tabulate(table, true))
			return err
		}, "Saved results")
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			doc, err := FormatJSON(table, metadata, cfg.Indent)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, doc+"\n")
			return err
		}, "Saved results")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteTable(w, table)
		}, "Saved results")
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Output)
	}
}

// writeWithFile handles the common pattern of opening a file, writing to it,
// and cleaning up. It accepts a writer function that takes an io.Writer and
// returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}
