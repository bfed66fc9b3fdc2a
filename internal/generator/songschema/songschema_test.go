package songschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"composer/internal/cerrors"
	"composer/internal/config"
)

func TestGenerate(t *testing.T) {
	cfg := config.Default()
	cfg.Schema.Name = "sequencing-experiment"
	sample := map[string]any{
		"study_id":   "ST-1",
		"read_count": float64(42),
		"coverage":   30.5,
		"paired_end": true,
		"created_at": "2021-06-15",
		"experiment": map[string]any{
			"library_strategy": "WGS",
			"insert_size":      float64(250),
		},
		"files": []any{
			map[string]any{"file_name": "a.bam", "size": float64(1024)},
		},
	}

	schema, err := Generate(sample, cfg)
	require.NoError(t, err)

	assert.Equal(t, "sequencing-experiment", schema.Name)
	assert.Equal(t, "object", schema.Schema.Type)
	assert.NotNil(t, schema.Options.FileTypes)
	require.NotNil(t, schema.Schema.PropertyNames)

	// Required is sorted and covers every top-level field.
	assert.Equal(t, []string{
		"coverage", "created_at", "experiment", "files",
		"paired_end", "read_count", "study_id",
	}, schema.Schema.Required)

	props := schema.Schema.Properties
	assert.Equal(t, "string", props["study_id"].Type)
	assert.Equal(t, "integer", props["read_count"].Type)
	assert.Equal(t, "number", props["coverage"].Type)
	assert.Equal(t, "boolean", props["paired_end"].Type)
	assert.Equal(t, "string", props["created_at"].Type)
	assert.Equal(t, "date", props["created_at"].Format)

	exp := props["experiment"]
	assert.Equal(t, "object", exp.Type)
	assert.Equal(t, []string{"insert_size", "library_strategy"}, exp.Required)
	assert.Equal(t, "integer", exp.Properties["insert_size"].Type)

	files := props["files"]
	assert.Equal(t, "array", files.Type)
	require.NotNil(t, files.Items)
	assert.Equal(t, "object", files.Items.Type)
	assert.Equal(t, "string", files.Items.Properties["file_name"].Type)
	assert.Equal(t, "integer", files.Items.Properties["size"].Type)
}

func TestGenerateIgnoredFields(t *testing.T) {
	cfg := config.Default()
	cfg.Schema.IgnoredFields = []string{"audit"}
	sample := map[string]any{"audit": "x", "study_id": "ST-1"}

	schema, err := Generate(sample, cfg)
	require.NoError(t, err)
	assert.NotContains(t, schema.Schema.Properties, "audit")
	assert.Equal(t, []string{"study_id"}, schema.Schema.Required)
}

func TestGenerateAllIgnored(t *testing.T) {
	cfg := config.Default()
	cfg.Schema.IgnoredFields = []string{"only"}

	_, err := Generate(map[string]any{"only": "x"}, cfg)
	assert.Equal(t, cerrors.CategoryValidation, cerrors.CategoryOf(err))
}

func TestGenerateSensitiveFieldStaysOpaque(t *testing.T) {
	cfg := config.Default()
	schema, err := Generate(map[string]any{"access_token": float64(12345)}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "string", schema.Schema.Properties["access_token"].Type)
}

func TestSelfCheck(t *testing.T) {
	s := &Schema{Schema: Body{
		Required:   []string{"ghost"},
		Properties: map[string]Property{"real": {Type: "string"}},
	}}
	err := selfCheck(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
