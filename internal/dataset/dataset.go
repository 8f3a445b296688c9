// Package dataset implements the range loader for the raw
// household power-consumption file: schema inference from a leading
// sample, boundary-key span location, bounded structured load, and
// date/time normalization into a single timestamp column.
package dataset

import (
	"fmt"
	"time"

	"github.com/jgoulah/powerplot/pkg/models"
)

// Sentinel marks a missing numeric reading in the raw file
const Sentinel = "?"

// Separator is the on-disk field separator
const Separator = ";"

// timestampLayout parses "d/m/yyyy H:MM:SS" day-first; zero-padded
// day/month values are accepted by the same layout
const timestampLayout = "2/1/2006 15:04:05"

// Kind is an inferred column type
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Column is one named, typed column of the dataset
type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered column list inferred from the header sample
type Schema struct {
	Columns []Column
}

// DateRange is an inclusive pair of calendar dates, each in d/m/yyyy
// form as they appear in the raw file. Behavior is defined only when
// Start <= End; the loader does not enforce the ordering.
type DateRange struct {
	Start string
	End   string
}

// StartKey is the literal date;time boundary key for the first line of
// the requested span
func (dr DateRange) StartKey() string {
	return dr.Start + Separator + "00:00:00"
}

// EndKey is the boundary key for the last line of the requested span
func (dr DateRange) EndKey() string {
	return dr.End + Separator + "23:59:00"
}

// Cell is one measurement value. Missing is set when the source held
// the sentinel; Text is set only for columns inferred as text.
type Cell struct {
	Num     float64
	Text    string
	Missing bool
}

// Float returns the numeric value and whether one is present
func (c Cell) Float() (float64, bool) {
	if c.Missing || c.Text != "" {
		return 0, false
	}
	return c.Num, true
}

// Row is one normalized record: the merged timestamp plus the
// measurement cells, aligned with Table.Columns[1:]
type Row struct {
	Timestamp time.Time
	Cells     []Cell
}

// Table is the normalized result of Prepare. Rows are in file order,
// which is chronological. The table is built fresh per call and not
// mutated after return.
type Table struct {
	Columns []Column // Timestamp first, then measurement columns in schema order
	Rows    []Row
}

// ColumnIndex returns the position of name in Columns, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Series extracts the named column as a plottable time series,
// skipping rows where the value is missing.
func (t *Table) Series(name string) ([]time.Time, []float64, error) {
	idx := t.ColumnIndex(name)
	if idx < 1 {
		return nil, nil, fmt.Errorf("no such measurement column: %s", name)
	}

	ts := make([]time.Time, 0, len(t.Rows))
	vals := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := row.Cells[idx-1].Float(); ok {
			ts = append(ts, row.Timestamp)
			vals = append(vals, v)
		}
	}
	return ts, vals, nil
}

// Readings converts the table to the shared Reading model, mapping the
// standard measurement columns by name. Missing cells become nil.
func (t *Table) Readings() []models.Reading {
	cols := map[string]int{}
	for i, c := range t.Columns {
		cols[c.Name] = i
	}

	get := func(row Row, name string) *float64 {
		idx, ok := cols[name]
		if !ok || idx < 1 {
			return nil
		}
		if v, valid := row.Cells[idx-1].Float(); valid {
			return &v
		}
		return nil
	}

	readings := make([]models.Reading, 0, len(t.Rows))
	for _, row := range t.Rows {
		readings = append(readings, models.Reading{
			Timestamp:           row.Timestamp,
			GlobalActivePower:   get(row, "Global_active_power"),
			GlobalReactivePower: get(row, "Global_reactive_power"),
			Voltage:             get(row, "Voltage"),
			GlobalIntensity:     get(row, "Global_intensity"),
			SubMetering1:        get(row, "Sub_metering_1"),
			SubMetering2:        get(row, "Sub_metering_2"),
			SubMetering3:        get(row, "Sub_metering_3"),
		})
	}
	return readings
}

// RangeNotFoundError reports a boundary key absent from the dataset.
// The requested range has no data; no partial table is returned.
type RangeNotFoundError struct {
	Key string
}

func (e *RangeNotFoundError) Error() string {
	return fmt.Sprintf("boundary key %q not found in dataset", e.Key)
}

// TimestampParseError reports a row whose date/time text does not
// match the fixed d/m/yyyy HH:MM:SS format. Row is 1-based within the
// loaded span.
type TimestampParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("row %d: parsing timestamp %q: %v", e.Row, e.Value, e.Err)
}

func (e *TimestampParseError) Unwrap() error {
	return e.Err
}
