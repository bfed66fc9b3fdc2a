// Package esmapping builds an Elasticsearch index mapping document from CSV
// headers or JSON sample objects.
package esmapping

import (
	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/inference"
	"composer/internal/source"
)

// Mapping is the emitted index mapping document.
type Mapping struct {
	IndexPatterns []string            `json:"index_patterns"`
	Aliases       map[string]struct{} `json:"aliases"`
	Mappings      Mappings            `json:"mappings"`
	Settings      Settings            `json:"settings"`
}

// Mappings holds the property tree.
type Mappings struct {
	Properties map[string]Property `json:"properties"`
}

// Property is one node of the property tree. Leaves carry a type; object
// nodes carry only children.
type Property struct {
	Type       string              `json:"type,omitempty"`
	Format     string              `json:"format,omitempty"`
	NullValue  string              `json:"null_value,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// Settings is the emitted index settings block.
type Settings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

// FromCSV builds a flat mapping from the headers and first data row of each
// table. Later tables win on header collisions, matching last-file-wins
// input ordering.
func FromCSV(tables []*source.Table, cfg *config.Config) (*Mapping, error) {
	props := make(map[string]Property)
	opts := inference.Options{TextThreshold: cfg.TextThreshold}

	for _, table := range tables {
		sample := table.SampleRow()
		for i, header := range table.Headers {
			if ignored(header, cfg.Index.IgnoredFields) {
				continue
			}
			props[header] = toProperty(inference.Infer(header, sample[i], opts))
		}
	}
	return assemble(props, cfg)
}

// FromJSON builds a nested mapping mirroring the structure of each sample
// object.
func FromJSON(docs []map[string]any, cfg *config.Config) (*Mapping, error) {
	props := make(map[string]Property)
	opts := inference.Options{TextThreshold: cfg.TextThreshold}

	for _, doc := range docs {
		for name, value := range doc {
			if ignored(name, cfg.Index.IgnoredFields) {
				continue
			}
			props[name] = toProperty(inference.InferValue(name, value, opts))
		}
	}
	return assemble(props, cfg)
}

func assemble(props map[string]Property, cfg *config.Config) (*Mapping, error) {
	if len(props) == 0 {
		return nil, cerrors.Validation("no mappable fields remain after exclusions",
			"Check the ignored-fields list against the input headers")
	}
	if !cfg.Index.SkipMetadata {
		props["submission_metadata"] = submissionMetadata()
	}

	return &Mapping{
		IndexPatterns: []string{cfg.Index.Name + "*"},
		Aliases:       map[string]struct{}{cfg.Index.Name + "_centric": {}},
		Mappings:      Mappings{Properties: props},
		Settings: Settings{
			NumberOfShards:   cfg.Index.Shards,
			NumberOfReplicas: cfg.Index.Replicas,
		},
	}, nil
}

func toProperty(f inference.Field) Property {
	switch f.Type {
	case inference.TypeInteger:
		return Property{Type: "integer"}
	case inference.TypeFloat:
		return Property{Type: "float"}
	case inference.TypeBoolean:
		return Property{Type: "boolean"}
	case inference.TypeDate:
		return Property{Type: "date", Format: "yyyy-MM-dd"}
	case inference.TypeText:
		return Property{Type: "text"}
	case inference.TypeObject:
		return Property{Properties: childProperties(f.Fields)}
	case inference.TypeNested:
		return Property{Type: "nested", Properties: childProperties(f.Fields)}
	default:
		return Property{Type: "keyword", NullValue: f.NullValue}
	}
}

func childProperties(fields []inference.Field) map[string]Property {
	props := make(map[string]Property, len(fields))
	for _, f := range fields {
		props[f.Name] = toProperty(f)
	}
	return props
}

// submissionMetadata is the fixed provenance block appended to every mapping
// unless skip_metadata is set. Constant shape, no generated values, so the
// document stays byte-stable across runs.
func submissionMetadata() Property {
	return Property{
		Properties: map[string]Property{
			"submitter_id":       {Type: "keyword"},
			"source_file":        {Type: "keyword"},
			"record_number":      {Type: "integer"},
			"processing_status":  {Type: "keyword"},
			"processing_started": {Type: "date"},
			"processed_at":       {Type: "date"},
		},
	}
}

func ignored(name string, ignoredFields []string) bool {
	for _, f := range ignoredFields {
		if f == name {
			return true
		}
	}
	return false
}
