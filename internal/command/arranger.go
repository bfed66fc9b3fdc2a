package command

import (
	"context"
	"path/filepath"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/generator/arranger"
	"composer/internal/source"
)

// arrangerCommand splits one Elasticsearch mapping document into the four
// Arranger config files.
type arrangerCommand struct{}

func (*arrangerCommand) Name() string { return string(config.ProfileArrangerConfigs) }

func (*arrangerCommand) Validate(cfg *config.Config) error {
	return requireFiles(cfg, 1, source.KindJSON)
}

func (*arrangerCommand) OutputPaths(cfg *config.Config) []string {
	return []string{
		filepath.Join(cfg.Output, "base.json"),
		filepath.Join(cfg.Output, "extended.json"),
		filepath.Join(cfg.Output, "table.json"),
		filepath.Join(cfg.Output, "facets.json"),
	}
}

func (c *arrangerCommand) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
	mapping, err := source.ReadJSON(cfg.Files[0])
	if err != nil {
		return nil, err
	}

	configs, err := arranger.Generate(mapping, cfg)
	if err != nil {
		return nil, err
	}

	outPaths := c.OutputPaths(cfg)
	documents := []any{configs.Base, configs.Extended, configs.Table, configs.Facets}

	// Marshal all four before writing the first.
	artifacts := make(map[string][]byte, len(documents))
	for i, doc := range documents {
		data, err := source.MarshalIndent(doc)
		if err != nil {
			return nil, cerrors.Generation("serializing "+filepath.Base(outPaths[i]), err)
		}
		artifacts[outPaths[i]] = data
	}

	paths, err := writeArtifacts(artifacts)
	if err != nil {
		return nil, cerrors.Generation("writing arranger configs", err)
	}
	return &Result{Paths: paths, Fields: len(configs.Extended.Extended)}, nil
}
