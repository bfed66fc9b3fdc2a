package command

import (
	"context"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/generator/dictionary"
	"composer/internal/source"
)

// dictionaryCommand generates a Lectern dictionary from one or more CSVs.
type dictionaryCommand struct{}

func (*dictionaryCommand) Name() string { return string(config.ProfileLecternDictionary) }

func (*dictionaryCommand) Validate(cfg *config.Config) error {
	if err := requireFiles(cfg, -1, source.KindCSV); err != nil {
		return err
	}
	_, err := cfg.DelimiterRune()
	return err
}

func (*dictionaryCommand) OutputPaths(cfg *config.Config) []string {
	return []string{resolveFile(cfg.Output, "dictionary.json")}
}

func (c *dictionaryCommand) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
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

	dict, err := dictionary.Generate(tables, cfg)
	if err != nil {
		return nil, err
	}

	data, err := source.MarshalIndent(dict)
	if err != nil {
		return nil, cerrors.Generation("serializing dictionary", err)
	}

	path := c.OutputPaths(cfg)[0]
	paths, err := writeArtifacts(map[string][]byte{path: data})
	if err != nil {
		return nil, cerrors.Generation("writing dictionary", err)
	}

	fields := 0
	for _, s := range dict.Schemas {
		fields += len(s.Fields)
	}
	return &Result{Paths: paths, Fields: fields}, nil
}
