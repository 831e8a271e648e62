package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrEmptyDataset is returned when a CSV file has a header but no rows.
var ErrEmptyDataset = errors.New("dataset: no data rows")

// Field names one CSV column to load and how to parse it.
type Field struct {
	Name string
	Kind Kind
}

// Schema lists the columns an analysis needs from a CSV file.
// Columns not listed are ignored.
type Schema struct {
	Fields []Field
}

// ReadCSV loads the file once, in full. The first record is the header.
// Every schema field must appear in the header and every listed numeric
// value must parse; anything else fails before any analysis runs.
func ReadCSV(path string, schema Schema) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: %s: missing header", path)
	}
	header := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: %s: %w", path, ErrEmptyDataset)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}

	cols := make([]Column, len(schema.Fields))
	for fi, fld := range schema.Fields {
		ci, ok := pos[fld.Name]
		if !ok {
			return nil, fmt.Errorf("dataset: %s: missing required column %q", path, fld.Name)
		}
		c := Column{Name: fld.Name, Kind: fld.Kind}
		if fld.Kind == Numeric {
			c.Floats = make([]float64, len(rows))
			for ri, row := range rows {
				v, err := strconv.ParseFloat(row[ci], 64)
				if err != nil {
					return nil, fmt.Errorf("dataset: %s row %d column %q: %w", path, ri+2, fld.Name, err)
				}
				c.Floats[ri] = v
			}
		} else {
			c.Labels = make([]string, len(rows))
			for ri, row := range rows {
				c.Labels[ri] = row[ci]
			}
		}
		cols[fi] = c
	}
	return New(cols...)
}
