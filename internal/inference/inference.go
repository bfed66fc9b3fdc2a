// Package inference classifies sample values into semantic field types.
//
// The rules are ordered and first-match-wins; a single sample value decides
// the type for an entire column or field. No multi-sample statistics are
// kept, so every field is classified independently.
package inference

import (
	"strconv"
	"strings"
	"time"
)

// Type is the inferred semantic type of a field.
type Type string

const (
	TypeInteger Type = "integer"
	TypeFloat   Type = "float"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeText    Type = "text"
	TypeKeyword Type = "keyword"
	TypeObject  Type = "object"
	TypeNested  Type = "nested"
)

// NullSentinel is attached to keyword fields inferred from an empty sample.
const NullSentinel = "No Data"

// DefaultTextThreshold is the string length above which a value is treated
// as full-text rather than an exact-match keyword.
const DefaultTextThreshold = 256

// sensitivePatterns force keyword typing to avoid misclassifying opaque
// identifiers (a token that happens to look numeric is still a token).
var sensitivePatterns = []string{"password", "secret", "key", "token"}

// datePatterns gate the date rule: the field name must look date-related
// before the value is ever tried against the date layouts.
var datePatterns = []string{"date", "time", "timestamp", "created", "updated", "modified"}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

var booleanTokens = map[string]struct{}{
	"true": {}, "false": {}, "yes": {}, "no": {}, "0": {}, "1": {},
}

// Options tunes the inference rules.
type Options struct {
	// TextThreshold is the string length above which values become text.
	// Zero means DefaultTextThreshold.
	TextThreshold int
}

func (o Options) threshold() int {
	if o.TextThreshold > 0 {
		return o.TextThreshold
	}
	return DefaultTextThreshold
}

// Field is an inferred field definition. Fields is populated only for
// object and nested types derived from JSON sources.
type Field struct {
	Name      string
	Type      Type
	NullValue string
	Fields    []Field
}

// Infer classifies a CSV sample value for the named field.
func Infer(name, sample string, opts Options) Field {
	sample = strings.TrimSpace(sample)

	if sample == "" || strings.EqualFold(sample, "null") {
		return Field{Name: name, Type: TypeKeyword, NullValue: NullSentinel}
	}
	if IsSensitiveName(name) {
		return Field{Name: name, Type: TypeKeyword}
	}
	if _, err := strconv.ParseInt(sample, 10, 64); err == nil {
		return Field{Name: name, Type: TypeInteger}
	}
	if _, err := strconv.ParseFloat(sample, 64); err == nil {
		// Digit strings past the int64 range (long accession or record
		// IDs) are still integers; only a fractional part or exponent
		// makes a numeric sample a float.
		if isDigitString(sample) {
			return Field{Name: name, Type: TypeInteger}
		}
		return Field{Name: name, Type: TypeFloat}
	}
	if _, ok := booleanTokens[strings.ToLower(sample)]; ok {
		return Field{Name: name, Type: TypeBoolean}
	}
	if hasDateName(name) && parsesAsDate(sample) {
		return Field{Name: name, Type: TypeDate}
	}
	if len(sample) > opts.threshold() {
		return Field{Name: name, Type: TypeText}
	}
	return Field{Name: name, Type: TypeKeyword}
}

// IsSensitiveName reports whether the field name matches one of the
// sensitive/exclude patterns (case-insensitive substring match).
func IsSensitiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sensitivePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isDigitString reports whether the sample is an optionally signed run of
// decimal digits, i.e. an integer of any magnitude.
func isDigitString(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasDateName(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range datePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func parsesAsDate(sample string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, sample); err == nil {
			return true
		}
	}
	return false
}
