package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/keyserve/pkg/flags"
	"github.com/bastiangx/keyserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesEngine(t *testing.T) {
	c := DefaultConfig()
	opts := c.Engine.Options()
	opts.Logger = nil
	assert.Equal(t, suggest.DefaultOptions(), opts)
	assert.Zero(t, c.Engine.Flags())
	assert.Equal(t, opts.MaxWords, c.Server.MaxLimit)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[engine]
max_errors = 1
full_edit_distance = true
suggest_missing_space = false

[dict]
path = "/srv/de.dict"
german_umlaut = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Engine.MaxErrors)
	assert.False(t, c.Engine.SuggestMissingSpace)
	assert.Equal(t, flags.UseFullEditDistance, c.Engine.Flags())
	assert.Equal(t, "/srv/de.dict", c.Dict.Path)
	assert.True(t, c.Dict.GermanUmlaut)
	assert.Equal(t, DefaultConfig().Server, c.Server, "missing sections keep defaults")
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[engine]
max_errors = "two"
max_words = 5

[server]
max_limit = 7

[cli]
use_layout = 1
default_limit = 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	c, err := LoadConfig(path)
	require.NoError(t, err)
	def := DefaultConfig()
	assert.Equal(t, def.Engine.MaxErrors, c.Engine.MaxErrors, "mistyped values fall back")
	assert.Equal(t, 5, c.Engine.MaxWords)
	assert.Equal(t, 7, c.Server.MaxLimit)
	assert.Equal(t, def.CLI.UseLayout, c.CLI.UseLayout)
	assert.Equal(t, 3, c.CLI.DefaultLimit)

	bad := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[engine\nmax_errors = 1"), 0644))
	c, err = LoadConfig(bad)
	require.NoError(t, err)
	assert.Equal(t, def, c)
}

func TestLoadConfigWithPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_input = 12\n"), 0644))
	c, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 12, c.Server.MaxInput)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := DefaultConfig()
	limit, filter := 4, false
	require.NoError(t, c.Update(path, &limit, nil, &filter))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Server.MaxLimit)
	assert.False(t, loaded.Server.EnableFilter)
	assert.Equal(t, c.Server.MaxInput, loaded.Server.MaxInput)
}
