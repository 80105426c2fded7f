package translatorx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/TGenNorth/orthofilter/pool"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const argParser = `#!/bin/sh
while [ $# -gt 0 ]; do
	case "$1" in
	-i) in="$2"; shift 2 ;;
	-o) out="$2"; shift 2 ;;
	*) shift ;;
	esac
done
`

// script writes an executable stand-in for translatorx.
func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "translatorx.pl")
	require.NoError(t, os.WriteFile(path, []byte(argParser+body), 0755))
	return path
}

func cluster(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".ffn")
	require.NoError(t, os.WriteFile(path, []byte(">1|c|p|COG1|core\nATGAAA\n"), 0666))
	return path
}

func TestAlign(t *testing.T) {
	tx := New(script(t, `cp "$in" "$out.nt_ali.fasta"`+"\n"), "")
	assert.Equal(t, DefaultTranslationTable, tx.TranslationTable)

	outDir := t.TempDir()
	output, err := tx.Align(context.Background(), cluster(t, t.TempDir(), "sico_7"), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "sico_7", "sico_7.nt_ali.fasta"), output)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, ">1|c|p|COG1|core\nATGAAA\n", string(content))
}

func TestAlignNonZeroExit(t *testing.T) {
	tx := New(script(t, "echo boom >&2\nexit 3\n"), "11")

	_, err := tx.Align(context.Background(), cluster(t, t.TempDir(), "sico_1"), t.TempDir())
	require.Error(t, err)
	cmdErr, ok := err.(*CommandError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, "boom", cmdErr.Stderr)
	assert.Contains(t, err.Error(), "-c 11")
}

func TestAlignEmptyOutput(t *testing.T) {
	tx := New(script(t, `: > "$out.nt_ali.fasta"`+"\n"), "")

	_, err := tx.Align(context.Background(), cluster(t, t.TempDir(), "sico_1"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty alignment")
}

func TestAlignMissingOutput(t *testing.T) {
	tx := New(script(t, "exit 0\n"), "")

	_, err := tx.Align(context.Background(), cluster(t, t.TempDir(), "sico_1"), t.TempDir())
	cmdErr, ok := err.(*CommandError)
	require.True(t, ok, "%T", err)
	assert.True(t, os.IsNotExist(cmdErr.Err))
}

func TestAlignNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translatorx.pl")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0644))

	_, err := New(path, "").Align(context.Background(), cluster(t, t.TempDir(), "sico_1"), t.TempDir())
	assert.Equal(t, ErrNotExecutable, errors.Cause(err))
}

type fakeAligner map[string]string

func (f fakeAligner) Align(_ context.Context, clusterPath, outDir string) (string, error) {
	return filepath.Join(outDir, f[clusterPath]), nil
}

func TestAlignAll(t *testing.T) {
	aligner := fakeAligner{"a.ffn": "a.nt_ali.fasta", "b.ffn": "b.nt_ali.fasta"}

	paths, err := AlignAll(context.Background(), aligner, []string{"b.ffn", "a.ffn"}, "out", pool.Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("out", "b.nt_ali.fasta"), filepath.Join("out", "a.nt_ali.fasta")}, paths)
}

func TestAlignAllDuplicateNames(t *testing.T) {
	aligner := fakeAligner{"in/sico_1.fasta": "sico_1.nt_ali.fasta", "in/sico_1.ffn": "sico_1.nt_ali.fasta"}

	_, err := AlignAll(context.Background(), aligner, []string{"in/sico_1.fasta", "in/sico_1.ffn"}, "out", pool.Options{})
	assert.Equal(t, ErrDuplicateCluster, errors.Cause(err))
}
