package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rakeshcr92/InsiderNet/internal/domain/models"
)

const (
	tableFeatures = "features"
	tableLabels   = "labels"
	tableLabeled  = "labeled"

	formatJSON = "json"
	formatCSV  = "csv"
)

// writeTable writes one result table as a JSON array of records or as CSV
// with a header row.
func writeTable(w io.Writer, res *models.PipelineResult, table, format string) error {
	var (
		cols []string
		rows [][]any
	)
	switch table {
	case tableFeatures:
		cols = res.Features.Columns()
		for _, r := range res.Features.Rows {
			rows = append(rows, r.Values())
		}
	case tableLabels:
		cols = res.Labels.Columns()
		for _, r := range res.Labels.Rows {
			rows = append(rows, r.Values())
		}
	case tableLabeled:
		cols = models.LabeledColumns()
		for _, r := range res.Labeled {
			rows = append(rows, r.Values())
		}
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	switch format {
	case formatJSON:
		records := make([]map[string]any, 0, len(rows))
		for _, r := range rows {
			rec := make(map[string]any, len(cols))
			for i, c := range cols {
				rec[c] = r[i]
			}
			records = append(records, rec)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(cols); err != nil {
			return err
		}
		line := make([]string, len(cols))
		for _, r := range rows {
			for i, v := range r {
				line[i] = formatCell(v)
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// writeOutput writes to stdout for "-", otherwise to the named file. The
// file's close error is returned since a failed flush loses rows.
func writeOutput(stdout io.Writer, path string, res *models.PipelineResult, table, format string) error {
	if path == "-" {
		return writeTable(stdout, res, table, format)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeTable(file, res, table, format); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
