package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_Strings(t *testing.T) {
	t.Run("output path", func(t *testing.T) {
		t.Setenv(EnvOutput, "/tmp/out")

		cfg := Default()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, "/tmp/out", cfg.Output)
	})

	t.Run("dictionary metadata", func(t *testing.T) {
		t.Setenv(EnvDictionaryName, "clinical_dictionary")
		t.Setenv(EnvDictionaryDescription, "Clinical submission fields")
		t.Setenv(EnvDictionaryVersion, "2.3")

		cfg := Default()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, "clinical_dictionary", cfg.Dictionary.Name)
		assert.Equal(t, "Clinical submission fields", cfg.Dictionary.Description)
		assert.Equal(t, "2.3", cfg.Dictionary.Version)
	})

	t.Run("empty value does not clobber default", func(t *testing.T) {
		t.Setenv(EnvIndexName, "")

		cfg := Default()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, "data", cfg.Index.Name)
	})
}

func TestEnvOverrides_Numeric(t *testing.T) {
	t.Run("shards and replicas", func(t *testing.T) {
		t.Setenv(EnvShards, "5")
		t.Setenv(EnvReplicas, "2")

		cfg := Default()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, 5, cfg.Index.Shards)
		assert.Equal(t, 2, cfg.Index.Replicas)
	})

	t.Run("invalid integer is an argument error", func(t *testing.T) {
		t.Setenv(EnvShards, "many")

		cfg := Default()
		err := cfg.applyEnvOverrides()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvShards)
	})
}

func TestEnvOverrides_Bool(t *testing.T) {
	t.Setenv(EnvSkipMetadata, "true")

	cfg := Default()
	require.NoError(t, cfg.applyEnvOverrides())
	assert.True(t, cfg.Index.SkipMetadata)

	t.Run("invalid boolean is an argument error", func(t *testing.T) {
		t.Setenv(EnvSkipMetadata, "maybe")

		cfg := Default()
		require.Error(t, cfg.applyEnvOverrides())
	})
}

func TestEnvOverrides_IgnoredFields(t *testing.T) {
	t.Setenv(EnvIgnoredFields, "internal_id, audit_log ,raw_blob")

	cfg := Default()
	require.NoError(t, cfg.applyEnvOverrides())
	assert.Equal(t, []string{"internal_id", "audit_log", "raw_blob"}, cfg.Index.IgnoredFields)
}
