package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// RequiredColumns are the header names a dataset CSV must carry. The die
// column is optional (see deriveDie).
var RequiredColumns = []string{"episode", "character", "roll_type", "total", "damage", "kill"}

// ParseError describes a malformed row or a missing column. Loading is all
// or nothing: the first ParseError aborts the load.
type ParseError struct {
	Line   int
	Column string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error: column %q: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("parse error: line %d, column %q: %s", e.Line, e.Column, e.Msg)
}

// LoadCSV reads a headered CSV into a Table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return table, nil
}

// ReadCSV parses CSV data from r. The first row is the header; every
// required column must be present.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Column: "episode", Msg: "empty file (no header row)"}
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &ParseError{Column: col, Msg: "missing required column"}
		}
	}

	var records []Record
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		fields := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(row) {
				fields[name] = row[i]
			}
		}
		rec, err := ParseRecord(fields, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return newTable(records), nil
}
