package dataset

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Loader prepares normalized tables from a provisioned dataset file.
// Each Prepare call is independent; the loader holds no state between
// calls beyond its configuration.
type Loader struct {
	path       string
	sampleRows int
}

// NewLoader creates a loader for the dataset at path. sampleRows
// controls how many leading data rows schema inference inspects.
func NewLoader(path string, sampleRows int) *Loader {
	return &Loader{path: path, sampleRows: sampleRows}
}

// Prepare extracts the inclusive date window from the dataset and
// normalizes it: infer the schema from a leading sample, locate the
// span bounded by the start and end keys in one scan, load exactly
// that span with inferred types, and merge Date and Time into a single
// Timestamp column. Any failure aborts the whole call; no partial
// table is returned.
func (l *Loader) Prepare(dr DateRange) (*Table, error) {
	schema, err := InferSchema(l.path, l.sampleRows)
	if err != nil {
		return nil, err
	}

	f, err := openData(l.path)
	if err != nil {
		return nil, err
	}
	sp, err := locateSpan(f, dr.StartKey(), dr.EndKey())
	f.Close()
	if err != nil {
		return nil, err
	}

	f, err = openData(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loadSpan(bufio.NewScanner(f), schema, sp)
}

// loadSpan reads exactly the located line span and builds the
// normalized table. Timestamp takes the position of the Date column;
// Time is dropped; the remaining columns keep their schema order.
func loadSpan(scanner *bufio.Scanner, schema *Schema, sp span) (*Table, error) {
	table := &Table{
		Columns: make([]Column, 0, len(schema.Columns)-1),
		Rows:    make([]Row, 0, sp.size()),
	}
	table.Columns = append(table.Columns, Column{Name: "Timestamp", Kind: KindText})
	table.Columns = append(table.Columns, schema.Columns[2:]...)

	if !scanner.Scan() { // header
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		return nil, fmt.Errorf("dataset is empty")
	}

	line := 0
	for scanner.Scan() {
		line++
		if line < sp.start {
			continue
		}
		if line > sp.end {
			break
		}

		row, err := parseRow(scanner.Text(), schema, line-sp.start+1)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading span: %w", err)
	}

	if len(table.Rows) != sp.size() {
		return nil, fmt.Errorf("dataset truncated: loaded %d of %d lines", len(table.Rows), sp.size())
	}

	return table, nil
}

// parseRow converts one raw line into a normalized row. rowNum is
// 1-based within the loaded span and is reported in parse failures.
func parseRow(raw string, schema *Schema, rowNum int) (Row, error) {
	fields := strings.Split(raw, Separator)
	if len(fields) != len(schema.Columns) {
		return Row{}, fmt.Errorf("row %d: has %d fields, schema has %d columns", rowNum, len(fields), len(schema.Columns))
	}

	stamp := fields[0] + " " + fields[1]
	ts, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return Row{}, &TimestampParseError{Row: rowNum, Value: stamp, Err: err}
	}

	row := Row{Timestamp: ts, Cells: make([]Cell, len(fields)-2)}
	for i, col := range schema.Columns[2:] {
		v := fields[i+2]

		if col.Kind == KindText {
			row.Cells[i] = Cell{Text: v}
			continue
		}
		if v == Sentinel {
			row.Cells[i] = Cell{Missing: true}
			continue
		}
		num, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Row{}, fmt.Errorf("row %d: column %s: parsing %q as number: %w", rowNum, col.Name, v, err)
		}
		row.Cells[i] = Cell{Num: num}
	}

	return row, nil
}
