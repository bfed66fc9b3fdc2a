// Package dictionary builds a Lectern data dictionary from one or more CSV
// files. Each input file becomes one named schema.
package dictionary

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"composer/internal/config"
	"composer/internal/inference"
	"composer/internal/source"
)

// Dictionary is the emitted dictionary document.
type Dictionary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Schemas     []Schema `json:"schemas"`
}

// Schema describes the fields of one CSV file.
type Schema struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// Field is one typed dictionary entry.
type Field struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	ValueType    string       `json:"valueType"`
	Restrictions Restrictions `json:"restrictions"`
	Meta         Meta         `json:"meta"`
}

// Restrictions carries submission constraints. Sampled data cannot prove a
// field mandatory, so required always starts false.
type Restrictions struct {
	Required bool `json:"required"`
}

// Meta carries display metadata.
type Meta struct {
	DisplayName string `json:"displayName"`
}

// Generate builds the dictionary from the given tables.
func Generate(tables []*source.Table, cfg *config.Config) (*Dictionary, error) {
	dict := &Dictionary{
		Name:        cfg.Dictionary.Name,
		Description: cfg.Dictionary.Description,
		Version:     cfg.Dictionary.Version,
		Schemas:     make([]Schema, 0, len(tables)),
	}
	opts := inference.Options{TextThreshold: cfg.TextThreshold}

	for _, table := range tables {
		stem := fileStem(table.Path)
		schema := Schema{
			Name:        stem,
			Description: fmt.Sprintf("Schema generated from %s", filepath.Base(table.Path)),
			Fields:      make([]Field, 0, len(table.Headers)),
		}

		sample := table.SampleRow()
		for i, header := range table.Headers {
			display := DisplayName(header)
			schema.Fields = append(schema.Fields, Field{
				Name:        header,
				Description: fmt.Sprintf("Field containing %s data", display),
				ValueType:   valueType(inference.Infer(header, sample[i], opts).Type),
				Meta:        Meta{DisplayName: display},
			})
		}
		dict.Schemas = append(dict.Schemas, schema)
	}
	return dict, nil
}

// valueType maps an inferred type onto Lectern's value-type vocabulary
// (string, integer, number, boolean).
func valueType(t inference.Type) string {
	switch t {
	case inference.TypeInteger:
		return "integer"
	case inference.TypeFloat:
		return "number"
	case inference.TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// DisplayName prettifies a header: underscores and dashes become spaces and
// each word is title-cased.
func DisplayName(header string) string {
	words := strings.FieldsFunc(header, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
