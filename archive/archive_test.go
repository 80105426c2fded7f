package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExtract(t *testing.T) {
	src := t.TempDir()
	files := map[string]string{
		"sico_2.ffn": ">1|c|p|None|core\nATG\n",
		"sico_1.ffn": ">1|c|p|COG1|core\nAAA\n",
	}
	var paths []string
	for name, content := range files {
		path := filepath.Join(src, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0666))
		paths = append(paths, path)
	}

	zipPath := filepath.Join(t.TempDir(), "sicos.zip")
	require.NoError(t, Create(zipPath, paths))

	dest := filepath.Join(t.TempDir(), "orthologs")
	extracted, err := Extract(zipPath, dest)
	require.NoError(t, err)

	require.Equal(t, []string{filepath.Join(dest, "sico_1.ffn"), filepath.Join(dest, "sico_2.ffn")}, extracted)
	for _, path := range extracted {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, files[filepath.Base(path)], string(content))
	}
}

func TestExtractMissingArchive(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.zip"), t.TempDir())
	assert.Error(t, err)
}

func TestCreateMissingFile(t *testing.T) {
	err := Create(filepath.Join(t.TempDir(), "out.zip"), []string{filepath.Join(t.TempDir(), "missing.fasta")})
	assert.Error(t, err)
}
