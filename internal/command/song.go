package command

import (
	"context"
	"path/filepath"
	"strings"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/generator/songschema"
	"composer/internal/source"
)

// songCommand generates a Song analysis schema from one JSON sample payload.
type songCommand struct{}

func (*songCommand) Name() string { return string(config.ProfileSongSchema) }

func (*songCommand) Validate(cfg *config.Config) error {
	return requireFiles(cfg, 1, source.KindJSON)
}

func (*songCommand) OutputPaths(cfg *config.Config) []string {
	return []string{resolveFile(cfg.Output, "song-schema.json")}
}

func (c *songCommand) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
	sample, err := source.ReadJSON(cfg.Files[0])
	if err != nil {
		return nil, err
	}

	schema, err := songschema.Generate(sample, cfg)
	if err != nil {
		return nil, err
	}

	data, err := source.MarshalIndent(schema)
	if err != nil {
		return nil, cerrors.Generation("serializing song schema", err)
	}

	path := c.OutputPaths(cfg)[0]
	paths, err := writeArtifacts(map[string][]byte{path: data})
	if err != nil {
		return nil, cerrors.Generation("writing song schema", err)
	}
	return &Result{Paths: paths, Fields: len(schema.Schema.Properties)}, nil
}

// resolveFile treats output as an explicit file path when it already names
// a file with the default's extension, and as a directory otherwise.
func resolveFile(output, defaultName string) string {
	if strings.EqualFold(filepath.Ext(output), filepath.Ext(defaultName)) && filepath.Ext(output) != "" {
		return output
	}
	return filepath.Join(output, defaultName)
}
