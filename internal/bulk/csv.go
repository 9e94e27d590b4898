// Package bulk reads and writes the CSV files used to load a camp and to
// publish its ranking.
package bulk

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

// record is one data row keyed by header name.
type record struct {
	line   int
	fields map[string]string
}

func (r record) get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

// readRecords parses a CSV with a header row that contains at least columns.
// A UTF-8 byte order mark is tolerated.
func readRecords(r io.Reader, columns []string) ([]record, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("cr.Read header -> %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, column := range columns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, column)
		}
	}

	var records []record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cr.Read -> %w", err)
		}

		line, _ := cr.FieldPos(0)
		rec := record{line: line, fields: make(map[string]string, len(index))}
		blank := true
		for name, i := range index {
			if i < len(row) {
				rec.fields[name] = row[i]
				if strings.TrimSpace(row[i]) != "" {
					blank = false
				}
			}
		}
		if !blank {
			records = append(records, rec)
		}
	}

	return records, nil
}
