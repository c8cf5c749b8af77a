package affordability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelStore_ValidatesBuiltins(t *testing.T) {
	store, err := NewModelStore(t.TempDir())
	require.NoError(t, err)

	for name := range builtinModels {
		m, err := store.LoadModel(name)
		require.NoError(t, err, "builtin %q", name)
		assert.Equal(t, name, m.Name)
		assert.Equal(t, 54, m.Table.Len())
		assert.Equal(t, 14, len(m.Schema.Variables))
	}
}

func TestLoadModel_Errors(t *testing.T) {
	store, err := NewModelStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name   string
		model  string
		reason string
	}{
		{
			name:   "unknown model",
			model:  "2099-future",
			reason: "unknown model",
		},
		{
			name:   "empty name",
			model:  "",
			reason: "invalid model name",
		},
		{
			name:   "path traversal",
			model:  "../evil",
			reason: "invalid model name",
		},
		{
			name:   "backslash",
			model:  `models\evil`,
			reason: "invalid model name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.LoadModel(tt.model)
			require.Error(t, err)

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.reason, configErr.Reason)
		})
	}
}

func TestSaveModel_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewModelStore(dir)
	require.NoError(t, err)

	original, err := buildModel(excelModel())
	require.NoError(t, err)
	original.Name = "2025-draft"

	require.NoError(t, store.SaveModel(original))

	loaded, err := store.LoadModel("2025-draft")
	require.NoError(t, err)
	assert.Equal(t, "2025-draft", loaded.Name)
	assert.Equal(t, original.Table.Entries(), loaded.Table.Entries())
	assert.Equal(t, len(original.Schema.Variables), len(loaded.Schema.Variables))
}

func TestLoadModel_FileShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	store, err := NewModelStore(dir)
	require.NoError(t, err)

	// A file with a builtin's name and a different age range wins.
	shadow, err := buildModel(excelModel())
	require.NoError(t, err)
	shadow.Schema.AgeMin = 21
	require.NoError(t, store.SaveModel(shadow))

	loaded, err := store.LoadModel(DefaultModelName)
	require.NoError(t, err)
	assert.Equal(t, 21, loaded.Schema.AgeMin)
}

func TestLoadModel_RejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewModelStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "broken.json"), []byte("{not json"), 0644))

	_, err = store.LoadModel("broken")
	require.Error(t, err)

	var configErr *ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestModels_ListsBuiltinsAndFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewModelStore(dir)
	require.NoError(t, err)

	custom, err := buildModel(excelModel())
	require.NoError(t, err)
	custom.Name = "2025-draft"
	require.NoError(t, store.SaveModel(custom))

	infos := store.Models()
	require.Len(t, infos, 3)

	// Sorted by name.
	assert.Equal(t, "2023-pilot", infos[0].Name)
	assert.Equal(t, "2024-excel", infos[1].Name)
	assert.Equal(t, "2025-draft", infos[2].Name)

	assert.Equal(t, "builtin", infos[0].Source)
	assert.Equal(t, "file", infos[2].Source)
	assert.Equal(t, 54, infos[2].Coefficients)
}
