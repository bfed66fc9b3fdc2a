// Package command dispatches composer profiles to their generators. Every
// command follows the same lifecycle, driven by Runner: validate inputs,
// resolve output paths, confirm overwrites, execute exactly once.
package command

import (
	"context"
	"fmt"
	"os"

	"composer/internal/cerrors"
	"composer/internal/config"
	"composer/internal/source"
)

// Command is one generation profile.
type Command interface {
	Name() string
	// Validate enforces the profile's input constraints. It must not
	// write anything.
	Validate(cfg *config.Config) error
	// OutputPaths lists every file the profile will write, for overwrite
	// confirmation.
	OutputPaths(cfg *config.Config) []string
	// Execute runs the generator and writes the artifact(s).
	Execute(ctx context.Context, cfg *config.Config) (*Result, error)
}

// Result reports what a command produced.
type Result struct {
	// Paths of the written artifacts.
	Paths []string
	// Fields is the number of field definitions in the artifact.
	Fields int
}

// New resolves a profile to its command.
func New(profile config.Profile) (Command, error) {
	switch profile {
	case config.ProfileSongSchema:
		return &songCommand{}, nil
	case config.ProfileLecternDictionary:
		return &dictionaryCommand{}, nil
	case config.ProfileElasticsearchMapping:
		return &mappingCommand{}, nil
	case config.ProfileArrangerConfigs:
		return &arrangerCommand{}, nil
	case config.ProfilePostgresTable:
		return &tableCommand{}, nil
	default:
		_, err := config.ParseProfile(string(profile))
		return nil, err
	}
}

// All returns one command per profile, in display order.
func All() []Command {
	cmds := make([]Command, 0, len(config.Profiles))
	for _, p := range config.Profiles {
		cmd, err := New(p)
		if err != nil {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// Constraints describes a command's input requirements for help output.
func Constraints(cmd Command) string {
	switch cmd.(type) {
	case *songCommand:
		return "exactly one JSON sample payload"
	case *dictionaryCommand:
		return "one or more CSV files"
	case *mappingCommand:
		return "CSV files or JSON files (not mixed)"
	case *arrangerCommand:
		return "exactly one Elasticsearch mapping JSON file"
	case *tableCommand:
		return "exactly one CSV file"
	default:
		return ""
	}
}

// requireFiles checks the count and kind of cfg.Files. exact < 0 means one
// or more; kind KindUnknown means any.
func requireFiles(cfg *config.Config, exact int, kind source.FileKind) error {
	if len(cfg.Files) == 0 {
		return cerrors.Argument("no input files provided",
			"Pass at least one input file via -f/--files")
	}
	if exact >= 0 && len(cfg.Files) != exact {
		return cerrors.Argument(
			fmt.Sprintf("expected exactly %d input file(s), got %d", exact, len(cfg.Files)),
			"Adjust the -f/--files arguments to match the profile")
	}
	for _, path := range cfg.Files {
		if _, err := os.Stat(path); err != nil {
			return cerrors.File(path+" does not exist or is unreadable",
				"Check the path passed via -f/--files").WithDetail("path", path)
		}
		if kind != source.KindUnknown && source.Kind(path) != kind {
			return cerrors.File(
				fmt.Sprintf("%s is not a .%s file", path, kind),
				fmt.Sprintf("This profile accepts %s inputs only", kind)).
				WithDetail("path", path)
		}
	}
	return nil
}

// uniformKind enforces that all inputs share one of the allowed kinds and
// returns it. Mixing kinds is rejected.
func uniformKind(cfg *config.Config) (source.FileKind, error) {
	if len(cfg.Files) == 0 {
		return source.KindUnknown, cerrors.Argument("no input files provided",
			"Pass at least one input file via -f/--files")
	}
	first := source.Kind(cfg.Files[0])
	if first == source.KindUnknown {
		return source.KindUnknown, cerrors.File(cfg.Files[0]+" has an unsupported extension",
			"Inputs must be .csv or .json files")
	}
	for _, path := range cfg.Files {
		if _, err := os.Stat(path); err != nil {
			return source.KindUnknown, cerrors.File(path+" does not exist or is unreadable",
				"Check the path passed via -f/--files")
		}
		if k := source.Kind(path); k != first {
			return source.KindUnknown, cerrors.File(
				fmt.Sprintf("cannot mix input types: %s is %s, %s is %s",
					cfg.Files[0], first, path, k),
				"Pass either all-CSV or all-JSON inputs")
		}
	}
	return first, nil
}
