package genomes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	ids, err := Read(strings.NewReader("58191\n  58017 \n\n12345\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"58191", "58017", "12345"}, ids)
}

func TestReadDuplicate(t *testing.T) {
	_, err := Read(strings.NewReader("58191\n58017\n58191\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3 repeats line 1")
}

func TestFileSourceCachesUntilRefresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genomes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\nB\n"), 0666))

	source := NewFileSource(path)
	ids, err := source.GenomeIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids)

	require.NoError(t, os.WriteFile(path, []byte("C\n"), 0666))
	ids, err = source.GenomeIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids, "cached")

	source.Refresh()
	ids, err = source.GenomeIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, ids)
}

func TestFileSourceMissing(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "missing.txt"))
	_, err := source.GenomeIDs()
	assert.True(t, os.IsNotExist(err))
}
