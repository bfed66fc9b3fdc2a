// Package songschema builds a Song analysis JSON schema from one sample
// payload. The sample's shape decides the property tree; every non-ignored
// top-level field becomes required.
package songschema

import (
	"fmt"
	"sort"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/inference"
)

// Schema is the emitted Song schema document.
type Schema struct {
	Name    string  `json:"name"`
	Options Options `json:"options"`
	Schema  Body    `json:"schema"`
}

// Options carries Song registration options. Both lists start empty and are
// filled in by hand after generation.
type Options struct {
	FileTypes           []string `json:"fileTypes"`
	ExternalValidations []string `json:"externalValidations"`
}

// Body is a JSON-schema object node.
type Body struct {
	Type          string              `json:"type"`
	Required      []string            `json:"required,omitempty"`
	PropertyNames *Pattern            `json:"propertyNames,omitempty"`
	Properties    map[string]Property `json:"properties"`
}

// Pattern is a JSON-schema pattern rule.
type Pattern struct {
	Pattern string `json:"pattern"`
}

// Property is one JSON-schema property node.
type Property struct {
	Type       string              `json:"type,omitempty"`
	Format     string              `json:"format,omitempty"`
	Required   []string            `json:"required,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
	Items      *Property           `json:"items,omitempty"`
}

// propertyNamePattern constrains field names to Song-safe identifiers.
const propertyNamePattern = "^[A-Za-z0-9_.-]+$"

// Generate builds the schema from a decoded sample payload.
func Generate(sample map[string]any, cfg *config.Config) (*Schema, error) {
	opts := inference.Options{TextThreshold: cfg.TextThreshold}

	properties := make(map[string]Property)
	var required []string
	for name, value := range sample {
		if ignored(name, cfg.Schema.IgnoredFields) {
			continue
		}
		properties[name] = toProperty(inference.InferValue(name, value, opts))
		required = append(required, name)
	}
	if len(properties) == 0 {
		return nil, cerrors.Validation("sample payload has no usable fields",
			"Check the ignored-fields list against the sample's keys")
	}
	sort.Strings(required)

	schema := &Schema{
		Name: cfg.Schema.Name,
		Options: Options{
			FileTypes:           []string{},
			ExternalValidations: []string{},
		},
		Schema: Body{
			Type:          "object",
			Required:      required,
			PropertyNames: &Pattern{Pattern: propertyNamePattern},
			Properties:    properties,
		},
	}

	if err := selfCheck(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// selfCheck verifies the assembled schema is internally consistent: every
// required field must be declared in properties.
func selfCheck(s *Schema) error {
	for _, name := range s.Schema.Required {
		if _, ok := s.Schema.Properties[name]; !ok {
			return cerrors.Validation(
				fmt.Sprintf("generated schema requires undeclared field %q", name))
		}
	}
	return nil
}

func toProperty(f inference.Field) Property {
	switch f.Type {
	case inference.TypeInteger:
		return Property{Type: "integer"}
	case inference.TypeFloat:
		return Property{Type: "number"}
	case inference.TypeBoolean:
		return Property{Type: "boolean"}
	case inference.TypeDate:
		return Property{Type: "string", Format: "date"}
	case inference.TypeObject:
		props, required := childProperties(f.Fields)
		return Property{Type: "object", Required: required, Properties: props}
	case inference.TypeNested:
		props, required := childProperties(f.Fields)
		return Property{
			Type:  "array",
			Items: &Property{Type: "object", Required: required, Properties: props},
		}
	default:
		// text, keyword, and sensitive names all land here.
		return Property{Type: "string"}
	}
}

func childProperties(fields []inference.Field) (map[string]Property, []string) {
	props := make(map[string]Property, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = toProperty(f)
		required = append(required, f.Name)
	}
	sort.Strings(required)
	return props, required
}

func ignored(name string, ignoredFields []string) bool {
	for _, f := range ignoredFields {
		if f == name {
			return true
		}
	}
	return false
}
