package command

import (
	"context"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/generator/pgtable"
	"composer/internal/source"
)

// tableCommand renders a Postgres CREATE TABLE statement from one CSV.
type tableCommand struct{}

func (*tableCommand) Name() string { return string(config.ProfilePostgresTable) }

func (*tableCommand) Validate(cfg *config.Config) error {
	if err := requireFiles(cfg, 1, source.KindCSV); err != nil {
		return err
	}
	_, err := cfg.DelimiterRune()
	return err
}

func (*tableCommand) OutputPaths(cfg *config.Config) []string {
	return []string{resolveFile(cfg.Output, "create-table.sql")}
}

func (c *tableCommand) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}
	table, err := source.ReadCSV(cfg.Files[0], delimiter)
	if err != nil {
		return nil, err
	}

	stmt, err := pgtable.Generate(table, cfg)
	if err != nil {
		return nil, err
	}

	path := c.OutputPaths(cfg)[0]
	paths, err := writeArtifacts(map[string][]byte{path: []byte(stmt.Render())})
	if err != nil {
		return nil, cerrors.Generation("writing create-table statement", err)
	}
	return &Result{Paths: paths, Fields: len(stmt.Columns)}, nil
}
