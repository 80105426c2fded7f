// Package translatorx aligns the coding sequences of a SICO cluster at the
// codon level by running TranslatorX, which aligns the translated proteins and
// maps the alignment back onto the DNA.
package translatorx

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/TGenNorth/orthofilter/pool"
	"github.com/TGenNorth/orthofilter/sico"
	"github.com/pkg/errors"
)

const (
	// DefaultTranslationTable is the bacterial, archaeal and plant plastid code.
	DefaultTranslationTable = "11"
	// DNAAlignmentSuffix is appended by TranslatorX to the -o prefix for the
	// nucleotide alignment.
	DNAAlignmentSuffix = ".nt_ali.fasta"
)

var (
	ErrNotExecutable = errors.New("translatorx: could not find or run")
	// ErrDuplicateCluster reports two cluster files that would share an
	// output prefix.
	ErrDuplicateCluster = errors.New("translatorx: clusters share a name")
)

// Aligner produces a DNA level alignment of the cluster at clusterPath inside
// outDir and returns the path of the alignment.
type Aligner interface {
	Align(ctx context.Context, clusterPath, outDir string) (string, error)
}

// CommandError reports an aligner invocation that failed or did not produce
// its alignment.
type CommandError struct {
	Args   []string
	Output string
	Err    error
	Stderr string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("translatorx: `%s`: %s", strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += fmt.Sprintf(" (expected alignment %s)", e.Output)
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

// TranslatorX runs the translatorx perl script.
type TranslatorX struct {
	// Path to the translatorx executable. A bare name is looked up in $PATH.
	Path string
	// TranslationTable is the NCBI genetic code passed with -c.
	TranslationTable string
}

func New(path, translationTable string) *TranslatorX {
	if path == "" {
		path = "translatorx"
	}
	if translationTable == "" {
		translationTable = DefaultTranslationTable
	}
	return &TranslatorX{Path: path, TranslationTable: translationTable}
}

// Executable resolves Path and checks that it can be run.
func (t *TranslatorX) Executable() (string, error) {
	path, err := exec.LookPath(t.Path)
	if err != nil {
		return "", errors.Wrapf(ErrNotExecutable, "%s: %s", t.Path, err)
	}
	return path, nil
}

// OutputPrefix is the -o argument for clusterPath: the alignment lives in its
// own directory named after the cluster so parallel runs do not collide.
func OutputPrefix(clusterPath, outDir string) string {
	name := sico.NameFromPath(clusterPath)
	return filepath.Join(outDir, name, name)
}

// Align runs TranslatorX on a single cluster.
func (t *TranslatorX) Align(ctx context.Context, clusterPath, outDir string) (string, error) {
	program, err := t.Executable()
	if err != nil {
		return "", err
	}

	prefix := OutputPrefix(clusterPath, outDir)
	if err := os.MkdirAll(filepath.Dir(prefix), 0777); err != nil {
		return "", err
	}
	output := prefix + DNAAlignmentSuffix

	args := []string{program, "-i", clusterPath, "-c", t.TranslationTable, "-o", prefix}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Output: output, Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}

	info, err := os.Stat(output)
	if err != nil {
		return "", &CommandError{Args: args, Output: output, Err: err}
	}
	if info.Size() == 0 {
		return "", &CommandError{Args: args, Output: output, Err: errors.New("empty alignment")}
	}

	return output, nil
}

// AlignAll aligns every cluster, one aligner invocation per cluster, and
// returns the alignment paths in the order of clusterPaths. Cluster names must
// be unique once their extension is removed.
func AlignAll(ctx context.Context, aligner Aligner, clusterPaths []string, outDir string, opts pool.Options) ([]string, error) {
	seen := make(map[string]string, len(clusterPaths))
	for _, path := range clusterPaths {
		name := sico.NameFromPath(path)
		if other, ok := seen[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateCluster, "'%s' and '%s'", other, path)
		}
		seen[name] = path
	}

	log.Printf("Aligning %d SICO genes\n", len(clusterPaths))
	return pool.Map(ctx, clusterPaths, opts, func(ctx context.Context, path string) (string, error) {
		return aligner.Align(ctx, path, outDir)
	})
}
