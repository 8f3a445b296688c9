package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// span is an inclusive range of 1-based data line numbers (the header
// line is not counted)
type span struct {
	start int
	end   int
}

func (s span) size() int {
	return s.end - s.start + 1
}

// locateSpan scans the data lines once, top to bottom, and returns the
// line numbers of the first line whose Date;Time fields equal the
// start key and the first line whose fields equal the end key. First
// match wins for each boundary; later duplicates are ignored. This
// mirrors the original prefix search, made explicit over the first two
// fields instead of a regex against the whole line.
func locateSpan(r io.Reader, startKey, endKey string) (span, error) {
	scanner := bufio.NewScanner(r)

	// header
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return span{}, fmt.Errorf("reading header: %w", err)
		}
		return span{}, &RangeNotFoundError{Key: startKey}
	}

	s := span{}
	line := 0
	for scanner.Scan() {
		line++
		key := dateTimeKey(scanner.Text())

		if s.start == 0 && key == startKey {
			s.start = line
		}
		if s.end == 0 && key == endKey {
			s.end = line
		}
		if s.start != 0 && s.end != 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return span{}, fmt.Errorf("scanning dataset: %w", err)
	}

	if s.start == 0 {
		return span{}, &RangeNotFoundError{Key: startKey}
	}
	if s.end == 0 || s.end < s.start {
		// An end key seen only before the start leaves the span
		// undefined, same as an absent key
		return span{}, &RangeNotFoundError{Key: endKey}
	}

	return s, nil
}

// dateTimeKey extracts the Date;Time prefix of a raw line
func dateTimeKey(line string) string {
	n := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ';' {
			n++
			if n == 2 {
				return line[:i]
			}
		}
	}
	return line
}

// openData opens the dataset file for one scanning pass
func openData(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	return f, nil
}

// Coverage reports the Date;Time keys of the first and last data lines
// and the total data line count, scanning the file once
func Coverage(path string) (first, last string, lines int, err error) {
	f, err := openData(path)
	if err != nil {
		return "", "", 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() { // header
		return "", "", 0, fmt.Errorf("dataset is empty")
	}

	for scanner.Scan() {
		t := scanner.Text()
		if strings.TrimSpace(t) == "" {
			continue
		}
		if lines == 0 {
			first = dateTimeKey(t)
		}
		last = dateTimeKey(t)
		lines++
	}
	if err := scanner.Err(); err != nil {
		return "", "", 0, fmt.Errorf("scanning dataset: %w", err)
	}

	return first, last, lines, nil
}
