package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"composer/internal/cerrors"
)

// Table is a parsed CSV file: one header row plus at least one data row.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// ReadCSV parses a CSV file and validates its shape. The delimiter is
// configurable; fields-per-record consistency is enforced by the reader.
func ReadCSV(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.File("cannot read "+path,
			"Check that the file exists and is readable").WithDetail("path", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return nil, cerrors.Parsing("malformed CSV in "+path, err,
			fmt.Sprintf("Confirm the delimiter (current: %q) matches the file", delimiter))
	}

	if len(records) == 0 {
		return nil, cerrors.Validation(path + " is empty, expected a header row")
	}
	headers := records[0]
	if err := validateHeaders(path, headers); err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, cerrors.Validation(path+" has no data rows",
			"At least one data row is needed to sample values for type inference")
	}

	return &Table{Path: path, Headers: headers, Rows: records[1:]}, nil
}

func validateHeaders(path string, headers []string) error {
	seen := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			return cerrors.Validation(fmt.Sprintf("%s has a blank header at column %d", path, i+1),
				"Every column needs a non-empty header name")
		}
		if _, dup := seen[name]; dup {
			return cerrors.Validation(fmt.Sprintf("%s has a duplicate header %q", path, name),
				"Rename or remove the duplicated column")
		}
		seen[name] = struct{}{}
	}
	return nil
}

// SampleRow returns the first data row, padded with empty strings if it is
// shorter than the header row. Single-sample inference reads only this row.
func (t *Table) SampleRow() []string {
	row := make([]string, len(t.Headers))
	copy(row, t.Rows[0])
	return row
}

// SampleColumn returns up to limit values from the named column, used by
// the SQL table generator's multi-row type election.
func (t *Table) SampleColumn(index, limit int) []string {
	var out []string
	for _, row := range t.Rows {
		if len(out) == limit {
			break
		}
		if index < len(row) {
			out = append(out, row[index])
		} else {
			out = append(out, "")
		}
	}
	return out
}
