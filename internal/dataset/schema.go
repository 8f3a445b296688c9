package dataset

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// InferSchema derives column names and types from the header line and
// a sample of leading data rows. A column is numeric only if every
// sampled non-sentinel value parses as a decimal number and at least
// one such value was seen; a column sampled as all-sentinel stays text
// and logs an advisory warning, since the sample proves nothing about
// the rest of the file. This sampling heuristic is inherited from the
// original analysis and deliberately not widened to a full-file scan.
func InferSchema(path string, sampleRows int) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	return inferSchema(f, sampleRows)
}

func inferSchema(r io.Reader, sampleRows int) (*Schema, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		return nil, fmt.Errorf("dataset is empty")
	}

	names := strings.Split(scanner.Text(), Separator)
	if len(names) < 2 {
		return nil, fmt.Errorf("header has %d fields, want at least Date and Time", len(names))
	}

	// numeric[i] stays true while every sampled non-sentinel value in
	// column i parses; seen[i] records that a parseable value existed
	numeric := make([]bool, len(names))
	seen := make([]bool, len(names))
	for i := range numeric {
		numeric[i] = true
	}

	sampled := 0
	for sampled < sampleRows && scanner.Scan() {
		fields := strings.Split(scanner.Text(), Separator)
		for i := range names {
			if i >= len(fields) {
				numeric[i] = false
				continue
			}
			v := fields[i]
			if v == Sentinel {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric[i] = false
			} else {
				seen[i] = true
			}
		}
		sampled++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sampling rows: %w", err)
	}

	schema := &Schema{Columns: make([]Column, len(names))}
	for i, name := range names {
		kind := KindText
		if numeric[i] && seen[i] {
			kind = KindNumeric
		}
		if numeric[i] && !seen[i] && sampled > 0 {
			slog.Warn("schema inference: sampled values inconclusive, defaulting column to text",
				"column", name, "sampled_rows", sampled)
		}
		schema.Columns[i] = Column{Name: name, Kind: kind}
	}

	if sampled == 0 {
		slog.Warn("schema inference: no data rows sampled, all columns default to text")
	}

	return schema, nil
}
