package schemafile

import (
	"errors"
	"path/filepath"
	"testing"

	settings "github.com/goliatone/go-settings"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLCollection(t *testing.T) {
	collections, err := Load(filepath.Join("testdata", "plugins.yaml"))
	require.NoError(t, err)
	require.Len(t, collections, 1)

	plugins := collections[0]
	require.Equal(t, "plugins", plugins.ID)
	require.Equal(t, "settings.general.plugins", plugins.EnableWith)
	require.Equal(t, map[string]any{"label": "Open folder"}, plugins.Button)

	schema := plugins.Schema()
	require.Len(t, schema, 2)
	require.Equal(t, settings.TypeCategory, schema[0].Type, "category type inferred from settings")
	require.False(t, schema[0].IsLeaf())
	require.Equal(t, false, schema[0].Setting("enabled").Value)
	require.Equal(t, "enabled", schema[0].Setting("folder").EnableWith)
	require.True(t, schema[1].IsLeaf())
	require.Equal(t, 1.25, schema[1].Value)
	require.Equal(t, "Interface scale", schema[1].Note)
}

func TestLoadJSONCollectionList(t *testing.T) {
	collections, err := Load(filepath.Join("testdata", "multi.json"))
	require.NoError(t, err)
	require.Len(t, collections, 2)
	require.Equal(t, "settings", collections[0].ID)
	require.Equal(t, "themes", collections[1].ID)
	require.Equal(t, "dark", collections[1].Schema()[0].Value)
}

func TestRegisterWiresDependencies(t *testing.T) {
	m, err := settings.New()
	require.NoError(t, err)

	base, err := Load(filepath.Join("testdata", "multi.json"))
	require.NoError(t, err)
	plugins, err := Load(filepath.Join("testdata", "plugins.yaml"))
	require.NoError(t, err)

	require.NoError(t, Register(m, base))
	require.NoError(t, Register(m, plugins))

	require.Equal(t, "themes", m.Collection("themes").Name, "name falls back to id")
	require.Equal(t, map[string]any{"label": "Open folder"}, m.Collection("plugins").Button)

	disabled, err := m.Collection("plugins").Disabled()
	require.NoError(t, err)
	require.False(t, disabled)

	require.NoError(t, m.OnSettingChange(t.Context(), "settings", "general", "plugins", false))
	disabled, err = m.Collection("plugins").Disabled()
	require.NoError(t, err)
	require.True(t, disabled)

	setting, err := m.GetSetting("plugins", "general", "folder")
	require.NoError(t, err)
	disabled, err = setting.Disabled()
	require.NoError(t, err)
	require.True(t, disabled, "folder depends on enabled=false")

	err = Register(m, plugins)
	require.ErrorIs(t, err, settings.ErrDuplicateCollection)
}

func TestParseRejectsInvalidFiles(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no id":         "categories:\n  - id: a\n    type: switch\n",
		"unknown field": "id: x\ncolour: red\n",
		"both shapes":   "id: x\ncollections:\n  - id: y\n",
		"nothing":       "name: Only\n",
		"syntax":        "id: [\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidFile), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidFile))
}
