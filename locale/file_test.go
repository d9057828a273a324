package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tescord/tescord/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "en.json", `{"bot": {"greeting": "hello {0}"}}`)

	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: path})
	require.NoError(t, err)

	tree := s.Tree("en")
	require.NotNil(t, tree)
	assert.Equal(t, "hello ada", tree.Lookup("bot.greeting").Format("ada"))
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "tr.yaml", "bot:\n  greeting: merhaba\n")

	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "merhaba", s.Tree("tr").Lookup("bot.greeting").Value())
}

func TestLoadFile_ExtractPath(t *testing.T) {
	path := writeFile(t, "all.json", `{"locales": {"en": {"k": "v"}}}`)

	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: path, Language: "en", Extract: "$.locales.en"})
	require.NoError(t, err)

	assert.Equal(t, "v", s.Tree("en").Lookup("k").Value())
}

func TestLoadFile_MissingExtractPath(t *testing.T) {
	path := writeFile(t, "en.json", `{"k": "v"}`)

	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: path, Extract: "$.does.not.exist"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingPath)
}

func TestLoadFile_NotRootedPath(t *testing.T) {
	path := writeFile(t, "en.json", `{"k": "v"}`)

	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: path, Extract: "k"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingPath)
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "en.toml", `k = "v"`)

	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedFile)
}

func TestLoadFile_MissingFile(t *testing.T) {
	s := NewStore("test")
	_, err := s.LoadFile(FileConfig{Path: filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
	assert.True(t, errors.IsRegistration(err))
}

func TestLoadFile_DisposerRemovesFragment(t *testing.T) {
	path := writeFile(t, "en.json", `{"k": "v"}`)

	s := NewStore("test")
	dispose, err := s.LoadFile(FileConfig{Path: path})
	require.NoError(t, err)

	dispose()
	assert.Nil(t, s.Tree("en"))
}
