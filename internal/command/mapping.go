package command

import (
	"context"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/generator/esmapping"
	"composer/internal/source"
)

// mappingCommand generates an Elasticsearch mapping from CSV or JSON
// inputs. All inputs must share one format.
type mappingCommand struct{}

func (*mappingCommand) Name() string { return string(config.ProfileElasticsearchMapping) }

func (*mappingCommand) Validate(cfg *config.Config) error {
	kind, err := uniformKind(cfg)
	if err != nil {
		return err
	}
	if kind == source.KindCSV {
		if _, err := cfg.DelimiterRune(); err != nil {
			return err
		}
	}
	return nil
}

func (*mappingCommand) OutputPaths(cfg *config.Config) []string {
	return []string{resolveFile(cfg.Output, "mapping.json")}
}

func (c *mappingCommand) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
	kind, err := uniformKind(cfg)
	if err != nil {
		return nil, err
	}

	var mapping *esmapping.Mapping
	switch kind {
	case source.KindCSV:
		delimiter, err := cfg.DelimiterRune()
		if err != nil {
			return nil, err
		}
		tables := make([]*source.Table, 0, len(cfg.Files))
		for _, path := range cfg.Files {
			table, err := source.ReadCSV(path, delimiter)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
		mapping, err = esmapping.FromCSV(tables, cfg)
		if err != nil {
			return nil, err
		}
	default:
		docs := make([]map[string]any, 0, len(cfg.Files))
		for _, path := range cfg.Files {
			doc, err := source.ReadJSON(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		mapping, err = esmapping.FromJSON(docs, cfg)
		if err != nil {
			return nil, err
		}
	}

	data, err := source.MarshalIndent(mapping)
	if err != nil {
		return nil, cerrors.Generation("serializing mapping", err)
	}

	path := c.OutputPaths(cfg)[0]
	paths, err := writeArtifacts(map[string][]byte{path: data})
	if err != nil {
		return nil, cerrors.Generation("writing mapping", err)
	}
	return &Result{Paths: paths, Fields: len(mapping.Mappings.Properties)}, nil
}
