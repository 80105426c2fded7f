// Package trim cuts codon alignments down to the span between the first and
// the last codon that every sequence has, and reports how much of each
// alignment survived.
//
// TranslatorX aligns proteins and maps the result back onto the DNA, so each
// triplet of columns in a sequence is either a whole codon or a whole gap:
//
//	1|c|p|COG1|core   ---ATGAAACCC---
//	2|c|p|COG1|core   GGGATG---CCCTTT
//	3|c|p|COG1|core   GGGATGAAACCCTTT
//	                     ^^^^^^^^^
//
// The first full codon (ATG) starts at column 3, the last full codon (CCC)
// ends at column 12, so every sequence is cut to columns [3,12). Gaps between
// the first and last full codon are kept.
package trim

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/TGenNorth/orthofilter/pool"
	"github.com/TGenNorth/orthofilter/sico"
	"github.com/pkg/errors"
)

const codonLength = 3

var (
	ErrEmptyAlignment  = errors.New("trim: alignment has no sequences")
	ErrRagged          = errors.New("trim: alignment sequences differ in length")
	ErrNotCodonAligned = errors.New("trim: alignment length is not a multiple of three")
)

var gapCodon = []byte{sico.Gap, sico.Gap, sico.Gap}

// ImpureCodonError reports a codon that mixes gaps and nucleotides, such as
// AA- or A--.
type ImpureCodonError struct {
	ID     string
	Column int
	Codon  string
}

func (e *ImpureCodonError) Error() string {
	return fmt.Sprintf("trim: %s at %d in %s", e.Codon, e.Column, e.ID)
}

// Validate checks that aln is a codon alignment: at least one sequence, all
// sequences the same length, the length a multiple of three and every codon
// either fully gapped or gap free.
func Validate(aln *sico.Cluster) error {
	if len(aln.Records) == 0 {
		return ErrEmptyAlignment
	}

	width := aln.Width()
	for _, record := range aln.Records {
		if len(record.Seq) != width {
			return errors.Wrapf(ErrRagged, "%s has %d columns, expected %d", record.Header, len(record.Seq), width)
		}
	}

	if width%codonLength != 0 {
		return errors.Wrapf(ErrNotCodonAligned, "%d columns", width)
	}

	for _, record := range aln.Records {
		for i := 0; i < width; i += codonLength {
			codon := record.Seq[i : i+codonLength]
			if bytes.IndexByte(codon, sico.Gap) != -1 && !bytes.Equal(codon, gapCodon) {
				return &ImpureCodonError{ID: record.Header.String(), Column: i, Codon: string(codon)}
			}
		}
	}

	return nil
}

// isFull reports whether no sequence has a gap in the codon starting at column.
// Validate guarantees a gapped codon starts with a gap.
func isFull(aln *sico.Cluster, column int) bool {
	for i := range aln.Records {
		if aln.Records[i].Seq[column] == sico.Gap {
			return false
		}
	}
	return true
}

// Span returns the columns [start,end) from the start of the first full codon
// to the end of the last full codon. When no codon is full the span is empty
// and start == end == 0.
func Span(aln *sico.Cluster) (start, end int, err error) {
	if err = Validate(aln); err != nil {
		return 0, 0, err
	}

	start = -1
	for column := 0; column < aln.Width(); column += codonLength {
		if !isFull(aln, column) {
			continue
		}
		if start == -1 {
			start = column
		}
		end = column + codonLength
	}

	if start == -1 {
		return 0, 0, nil
	}
	return start, end, nil
}

// Alignment returns a copy of aln holding only the columns within Span. The
// records keep their order and headers.
func Alignment(aln *sico.Cluster) (*sico.Cluster, error) {
	start, end, err := Span(aln)
	if err != nil {
		return nil, err
	}

	trimmed := &sico.Cluster{
		Name:    aln.Name,
		Records: make([]sico.Record, len(aln.Records)),
	}
	for i, record := range aln.Records {
		seq := make([]byte, end-start)
		copy(seq, record.Seq[start:end])
		trimmed.Records[i] = sico.Record{Header: record.Header, Seq: seq}
	}

	if trimmed.Width()%codonLength != 0 {
		return nil, errors.Wrapf(ErrNotCodonAligned, "trimmed %s to %d columns", aln.Name, trimmed.Width())
	}

	return trimmed, nil
}

// Result describes one trimmed alignment.
type Result struct {
	// Path of the trimmed alignment file.
	Path           string
	OriginalLength int
	TrimmedLength  int
	// Retained is TrimmedLength as a percentage of OriginalLength.
	Retained float64
}

func NewResult(path string, originalLength, trimmedLength int) Result {
	var retained float64
	if originalLength > 0 {
		retained = float64(trimmedLength) / float64(originalLength) * 100
	}
	return Result{
		Path:           path,
		OriginalLength: originalLength,
		TrimmedLength:  trimmedLength,
		Retained:       retained,
	}
}

// File trims the alignment at alignmentPath and writes the result to a file of
// the same name in outDir.
func File(alignmentPath, outDir string) (Result, error) {
	aln, err := sico.ReadCluster(alignmentPath)
	if err != nil {
		return Result{}, err
	}

	trimmed, err := Alignment(aln)
	if err != nil {
		return Result{}, errors.Wrap(err, alignmentPath)
	}

	path := filepath.Join(outDir, filepath.Base(alignmentPath))
	if err := trimmed.WriteFile(path); err != nil {
		return Result{}, err
	}

	return NewResult(path, aln.Width(), trimmed.Width()), nil
}

// Files trims every alignment into outDir. outDir must exist.
func Files(ctx context.Context, alignmentPaths []string, outDir string, opts pool.Options) ([]Result, error) {
	log.Printf("Trimming %d DNA alignments from first non-gap codon to last non-gap codon\n", len(alignmentPaths))
	return pool.Map(ctx, alignmentPaths, opts, func(_ context.Context, path string) (Result, error) {
		return File(path, outDir)
	})
}
