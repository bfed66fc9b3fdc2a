// Package config holds the single composer configuration record.
//
// One Config exists per invocation. It is assembled once (defaults, then an
// optional composer.yaml, then environment variables, then flags) and is
// read-only afterwards; every generator is a pure function of its contents.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"composer/internal/cerrors"
)

// Profile selects which artifact composer generates.
type Profile string

const (
	ProfileSongSchema           Profile = "SongSchema"
	ProfileLecternDictionary    Profile = "LecternDictionary"
	ProfileElasticsearchMapping Profile = "ElasticsearchMapping"
	ProfileArrangerConfigs      Profile = "ArrangerConfigs"
	ProfilePostgresTable        Profile = "PostgresTable"
)

// Profiles lists every valid profile in display order.
var Profiles = []Profile{
	ProfileSongSchema,
	ProfileLecternDictionary,
	ProfileElasticsearchMapping,
	ProfileArrangerConfigs,
	ProfilePostgresTable,
}

// Config is the flat configuration record threaded through the call chain.
type Config struct {
	Profile Profile  `yaml:"profile"`
	Files   []string `yaml:"files"`
	Output  string   `yaml:"output"`

	Delimiter     string `yaml:"delimiter"`
	Force         bool   `yaml:"force"`
	Debug         bool   `yaml:"debug"`
	Watch         bool   `yaml:"watch"`
	TextThreshold int    `yaml:"text_threshold"`

	Dictionary DictionaryConfig `yaml:"dictionary"`
	Index      IndexConfig      `yaml:"index"`
	Arranger   ArrangerConfig   `yaml:"arranger"`
	Table      TableConfig      `yaml:"table"`
	Schema     SchemaConfig     `yaml:"schema"`
}

// DictionaryConfig carries Lectern dictionary metadata.
type DictionaryConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// IndexConfig carries Elasticsearch index settings.
type IndexConfig struct {
	Name          string   `yaml:"name"`
	Shards        int      `yaml:"shards"`
	Replicas      int      `yaml:"replicas"`
	SkipMetadata  bool     `yaml:"skip_metadata"`
	IgnoredFields []string `yaml:"ignored_fields"`
}

// ArrangerConfig carries Arranger document settings.
type ArrangerConfig struct {
	DocumentType string `yaml:"document_type"` // file | analysis
}

// TableConfig carries the SQL table name.
type TableConfig struct {
	Name string `yaml:"name"`
}

// SchemaConfig carries Song schema settings.
type SchemaConfig struct {
	Name          string   `yaml:"name"`
	IgnoredFields []string `yaml:"ignored_fields"`
}

// Default returns the built-in defaults applied before any override source.
func Default() *Config {
	return &Config{
		Output:    "configs",
		Delimiter: ",",
		Dictionary: DictionaryConfig{
			Name:        "data_dictionary",
			Description: "Generated with composer",
			Version:     "1.0",
		},
		Index: IndexConfig{
			Name:     "data",
			Shards:   1,
			Replicas: 0,
		},
		Arranger: ArrangerConfig{DocumentType: "file"},
		Table:    TableConfig{Name: "data"},
		Schema:   SchemaConfig{Name: "example-schema"},
	}
}

// Load builds the configuration: defaults, then the yaml file at path
// (a missing file is fine), then environment variables. Flag binding happens
// in the CLI layer on top of the returned record.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No project file; defaults stand.
		case err != nil:
			return nil, cerrors.File("cannot read config file " + path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, cerrors.Parsing("malformed YAML in "+path, err,
					"Fix the config file or remove it to fall back to defaults")
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DelimiterRune validates and returns the CSV delimiter.
func (c *Config) DelimiterRune() (rune, error) {
	runes := []rune(c.Delimiter)
	if len(runes) != 1 {
		return 0, cerrors.Argument(
			fmt.Sprintf("delimiter must be a single character, got %q", c.Delimiter),
			"Pass one character via --delimiter, e.g. --delimiter ';'")
	}
	return runes[0], nil
}

// ParseProfile validates a profile name against the set of known profiles.
func ParseProfile(name string) (Profile, error) {
	for _, p := range Profiles {
		if string(p) == name {
			return p, nil
		}
	}
	return "", cerrors.Argument(
		fmt.Sprintf("unknown profile %q", name),
		fmt.Sprintf("Valid profiles: %s, %s, %s, %s, %s",
			ProfileSongSchema, ProfileLecternDictionary, ProfileElasticsearchMapping,
			ProfileArrangerConfigs, ProfilePostgresTable))
}
