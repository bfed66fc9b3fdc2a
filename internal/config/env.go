package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"composer/internal/cerrors"
)

// Environment variable names. The mapping is fixed; flags still win over
// anything set here.
const (
	EnvOutput                = "COMPOSER_OUTPUT"
	EnvDelimiter             = "COMPOSER_DELIMITER"
	EnvDictionaryName        = "COMPOSER_DICTIONARY_NAME"
	EnvDictionaryDescription = "COMPOSER_DICTIONARY_DESCRIPTION"
	EnvDictionaryVersion     = "COMPOSER_DICTIONARY_VERSION"
	EnvIndexName             = "COMPOSER_INDEX_NAME"
	EnvShards                = "COMPOSER_SHARDS"
	EnvReplicas              = "COMPOSER_REPLICAS"
	EnvIgnoredFields         = "COMPOSER_IGNORED_FIELDS"
	EnvSkipMetadata          = "COMPOSER_SKIP_METADATA"
	EnvDocumentType          = "COMPOSER_DOCUMENT_TYPE"
	EnvTableName             = "COMPOSER_TABLE_NAME"
	EnvSchemaName            = "COMPOSER_SCHEMA_NAME"
)

// applyEnvOverrides copies set environment variables onto the record.
// Unparseable numeric or boolean values are argument errors rather than
// silently ignored.
func (c *Config) applyEnvOverrides() error {
	setString(EnvOutput, &c.Output)
	setString(EnvDelimiter, &c.Delimiter)
	setString(EnvDictionaryName, &c.Dictionary.Name)
	setString(EnvDictionaryDescription, &c.Dictionary.Description)
	setString(EnvDictionaryVersion, &c.Dictionary.Version)
	setString(EnvIndexName, &c.Index.Name)
	setString(EnvDocumentType, &c.Arranger.DocumentType)
	setString(EnvTableName, &c.Table.Name)
	setString(EnvSchemaName, &c.Schema.Name)

	if v, ok := os.LookupEnv(EnvIgnoredFields); ok && v != "" {
		fields := strings.Split(v, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		c.Index.IgnoredFields = fields
	}

	if err := setInt(EnvShards, &c.Index.Shards); err != nil {
		return err
	}
	if err := setInt(EnvReplicas, &c.Index.Replicas); err != nil {
		return err
	}
	return setBool(EnvSkipMetadata, &c.Index.SkipMetadata)
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return cerrors.Argument(
			fmt.Sprintf("%s must be an integer, got %q", key, v),
			"Unset the variable or give it a numeric value")
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return cerrors.Argument(
			fmt.Sprintf("%s must be a boolean, got %q", key, v),
			"Use true or false")
	}
	*dst = b
	return nil
}
