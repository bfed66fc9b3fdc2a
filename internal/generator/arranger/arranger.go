// Package arranger splits one Elasticsearch mapping document into the four
// Arranger configuration documents (base, extended, table, facets). Pure
// field re-grouping; no type inference happens here.
package arranger

import (
	"sort"
	"strings"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/generator/dictionary"
)

// visibleColumnLimit is how many table columns start out shown; the rest
// are generated hidden and toggled on by hand.
const visibleColumnLimit = 20

// Configs bundles the four emitted documents, keyed by file name.
type Configs struct {
	Base     BaseConfig
	Extended ExtendedConfig
	Table    TableConfig
	Facets   FacetsConfig
}

// BaseConfig is base.json.
type BaseConfig struct {
	DocumentType string `json:"documentType"`
	Index        string `json:"index"`
}

// ExtendedConfig is extended.json.
type ExtendedConfig struct {
	Extended []ExtendedField `json:"extended"`
}

// ExtendedField names one leaf field with its display name.
type ExtendedField struct {
	DisplayName string `json:"displayName"`
	FieldName   string `json:"fieldName"`
}

// TableConfig is table.json.
type TableConfig struct {
	Table TableBody `json:"table"`
}

// TableBody holds the column list.
type TableBody struct {
	Columns []TableColumn `json:"columns"`
}

// TableColumn is one table column entry.
type TableColumn struct {
	CanChangeShow bool   `json:"canChangeShow"`
	FieldName     string `json:"fieldName"`
	Show          bool   `json:"show"`
	Sortable      bool   `json:"sortable"`
}

// FacetsConfig is facets.json.
type FacetsConfig struct {
	Facets FacetsBody `json:"facets"`
}

// FacetsBody holds the aggregation list.
type FacetsBody struct {
	Aggregations []Aggregation `json:"aggregations"`
}

// Aggregation is one facet entry. Field names use the double-underscore
// path separator Arranger expects.
type Aggregation struct {
	Active    bool   `json:"active"`
	FieldName string `json:"fieldName"`
	Show      bool   `json:"show"`
}

// leaf is a flattened mapping field: dotted path plus its ES type.
type leaf struct {
	path   string
	esType string
}

// Generate regroups the mapping document into the four configs. The input
// must contain mappings.properties.
func Generate(mapping map[string]any, cfg *config.Config) (*Configs, error) {
	props, err := extractProperties(mapping)
	if err != nil {
		return nil, err
	}

	leaves := flatten("", props)
	if len(leaves) == 0 {
		return nil, cerrors.Validation("mapping has no leaf fields under mappings.properties")
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].path < leaves[j].path })

	out := &Configs{
		Base: BaseConfig{
			DocumentType: cfg.Arranger.DocumentType,
			Index:        cfg.Index.Name,
		},
		Extended: ExtendedConfig{Extended: make([]ExtendedField, 0, len(leaves))},
		Table:    TableConfig{Table: TableBody{Columns: make([]TableColumn, 0, len(leaves))}},
		Facets:   FacetsConfig{Facets: FacetsBody{Aggregations: []Aggregation{}}},
	}

	for i, l := range leaves {
		out.Extended.Extended = append(out.Extended.Extended, ExtendedField{
			DisplayName: displayName(l.path),
			FieldName:   l.path,
		})
		out.Table.Table.Columns = append(out.Table.Table.Columns, TableColumn{
			CanChangeShow: true,
			FieldName:     l.path,
			Show:          i < visibleColumnLimit,
			Sortable:      true,
		})
		if l.esType == "keyword" || l.esType == "boolean" {
			out.Facets.Facets.Aggregations = append(out.Facets.Facets.Aggregations, Aggregation{
				Active:    true,
				FieldName: strings.ReplaceAll(l.path, ".", "__"),
				Show:      true,
			})
		}
	}
	return out, nil
}

func extractProperties(mapping map[string]any) (map[string]any, error) {
	mappings, ok := mapping["mappings"].(map[string]any)
	if !ok {
		return nil, cerrors.Validation("input is not an Elasticsearch mapping: missing \"mappings\" object",
			"Generate the input with the ElasticsearchMapping profile first")
	}
	props, ok := mappings["properties"].(map[string]any)
	if !ok {
		return nil, cerrors.Validation("mapping is missing \"mappings.properties\"")
	}
	return props, nil
}

// flatten walks the property tree depth-first, producing dotted leaf
// paths. A node with child properties is a branch regardless of its type
// (nested nodes carry both).
func flatten(prefix string, props map[string]any) []leaf {
	var leaves []leaf
	for name, raw := range props {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if children, ok := node["properties"].(map[string]any); ok {
			leaves = append(leaves, flatten(path, children)...)
			continue
		}
		esType, _ := node["type"].(string)
		leaves = append(leaves, leaf{path: path, esType: esType})
	}
	return leaves
}

func displayName(path string) string {
	segments := strings.Split(path, ".")
	return dictionary.DisplayName(segments[len(segments)-1])
}
