// Package source reads and validates the CSV and JSON sample files that
// composer consumes. Readers fail fast with structured errors; nothing here
// writes output.
package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"composer/internal/cerrors"
)

// FileKind is the detected input format, by extension.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindCSV
	KindJSON
)

func (k FileKind) String() string {
	switch k {
	case KindCSV:
		return "csv"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Kind classifies a path by extension, case-insensitively.
func Kind(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV
	case ".json":
		return KindJSON
	default:
		return KindUnknown
	}
}

// json is the module-wide sonic config: sorted map keys keep every emitted
// artifact byte-stable across runs.
var json = sonic.Config{
	SortMapKeys: true,
	EscapeHTML:  false,
}.Froze()

// ReadJSON reads a JSON file whose root must be an object.
func ReadJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.File("cannot read "+path,
			"Check that the file exists and is readable").WithDetail("path", path)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, cerrors.Parsing("malformed JSON in "+path, err,
			"Validate the file with a JSON linter before retrying")
	}
	if doc == nil {
		return nil, cerrors.Validation(path+" contains a JSON null, expected an object")
	}
	return doc, nil
}

// MarshalIndent renders v as two-space indented JSON with a trailing
// newline, with map keys sorted. All artifact writers go through this.
func MarshalIndent(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
