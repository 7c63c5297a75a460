package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileResult reports what a file reader produced. Skipped counts rows that
// were present but unusable.
type FileResult struct {
	Records []Record
	Skipped int
}

// ReadFile loads transaction records from a .json or .csv file, dispatching
// on the extension.
func ReadFile(path string) (FileResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return FileResult{}, fmt.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadJSON loads a JSON array of transaction records.
func ReadJSON(path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return FileResult{}, fmt.Errorf("ingest: decode %s: %w", path, err)
	}
	return FileResult{Records: records}, nil
}

// ReadCSV loads transaction records from a CSV file with a header row.
// Recognized columns are matched by name; rows with the wrong field count
// are skipped rather than failing the whole file.
func ReadCSV(path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return FileResult{}, fmt.Errorf("ingest: read header %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var res FileResult
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			continue
		}
		if len(row) < 2 {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, Record{
			ID:          field(row, "id"),
			Date:        field(row, "date"),
			Amount:      field(row, "amount"),
			Category:    field(row, "category"),
			Description: field(row, "description"),
		})
	}
	return res, nil
}
