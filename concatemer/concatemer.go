// Package concatemer joins the trimmed SICO genes of each genome into a single
// sequence per genome.
package concatemer

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/TGenNorth/orthofilter/sico"
	"github.com/pkg/errors"
)

// FileSuffix is appended to the genome identifier to name its concatemer file.
const FileSuffix = ".trimmed.concatemer.fasta"

var ErrUnknownGenome = errors.New("concatemer: sequence belongs to a genome outside the genome list")

// Builder accumulates the concatemer of each genome. A Builder is not safe for
// concurrent use.
type Builder struct {
	genomeIDs []string
	sequences map[string][]byte
}

// NewBuilder returns a Builder that will emit one concatemer for each of
// genomeIDs, in that order, even if no alignment contributes to it.
func NewBuilder(genomeIDs []string) *Builder {
	b := &Builder{
		genomeIDs: genomeIDs,
		sequences: make(map[string][]byte, len(genomeIDs)),
	}
	for _, id := range genomeIDs {
		b.sequences[id] = nil
	}
	return b
}

// Add appends each sequence in aln to the concatemer of its genome. Genomes
// absent from aln are left as they are.
func (b *Builder) Add(aln *sico.Cluster) error {
	for _, record := range aln.Records {
		id := record.Header.GenomeID
		seq, ok := b.sequences[id]
		if !ok {
			return errors.Wrapf(ErrUnknownGenome, "%s in %s", id, aln.Name)
		}
		b.sequences[id] = append(seq, record.Seq...)
	}
	return nil
}

// AddFiles reads and adds each alignment in the given order.
func (b *Builder) AddFiles(paths []string) error {
	for _, path := range paths {
		aln, err := sico.ReadCluster(path)
		if err != nil {
			return err
		}
		if err := b.Add(aln); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

// Sequence returns the concatemer built so far for genomeID.
func (b *Builder) Sequence(genomeID string) []byte {
	return b.sequences[genomeID]
}

// Lengths maps each genome to the length of its concatemer.
func (b *Builder) Lengths() map[string]int {
	lengths := make(map[string]int, len(b.sequences))
	for id, seq := range b.sequences {
		lengths[id] = len(seq)
	}
	return lengths
}

// WriteConcatemer writes a single-line FASTA record:
//
//	> 58191|trimmed concatemer
//	ATGAAACCC...
func WriteConcatemer(w io.Writer, genomeID string, seq []byte) error {
	if _, err := fmt.Fprintf(w, "> %s|trimmed concatemer\n", genomeID); err != nil {
		return err
	}
	if _, err := w.Write(seq); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// WriteFiles writes one concatemer file per genome into dir and returns their
// paths in genome list order.
func (b *Builder) WriteFiles(dir string) ([]string, error) {
	paths := make([]string, 0, len(b.genomeIDs))
	for _, id := range b.genomeIDs {
		path := filepath.Join(dir, id+FileSuffix)
		if err := writeFile(path, id, b.sequences[id]); err != nil {
			return nil, errors.Wrapf(err, "concatemer: %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path, genomeID string, seq []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := WriteConcatemer(bw, genomeID, seq); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Build creates a concatemer per genome from the trimmed alignments, in the
// order given, and writes them to dir.
func Build(genomeIDs, alignmentPaths []string, dir string) ([]string, error) {
	log.Printf("Creating %d concatemers from %d SICOs\n", len(genomeIDs), len(alignmentPaths))

	b := NewBuilder(genomeIDs)
	if err := b.AddFiles(alignmentPaths); err != nil {
		return nil, err
	}
	return b.WriteFiles(dir)
}
