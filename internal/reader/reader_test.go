package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRead_PlainText(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("Office hours are on Monday."))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Office hours are on Monday.", got)
}

func TestRead_JSONIsReindented(t *testing.T) {
	path := writeFile(t, "faq.json", []byte(`{"deadline":"Friday","room":205}`))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Contains(t, got, "\"deadline\": \"Friday\"")
	assert.Contains(t, got, "\"room\": 205")
}

func TestRead_InvalidJSON(t *testing.T) {
	path := writeFile(t, "broken.json", []byte(`{"deadline":`))
	_, err := Read(path)
	assert.Error(t, err)
}

func TestRead_UnknownExtensionReadAsText(t *testing.T) {
	path := writeFile(t, "syllabus.md", []byte("# Syllabus\ncontent"))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "# Syllabus\ncontent", got)
}

func TestRead_Latin1Fallback(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid as a standalone UTF-8 byte.
	path := writeFile(t, "accents.txt", []byte{'r', 0xE9, 's', 'u', 'm', 0xE9})
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "résumé", got)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
