// Package sico models single-copy ortholog (SICO) clusters: the FASTA files
// written by the ortholog clustering step, one sequence per genome.
package sico

import (
	"strings"

	"github.com/pkg/errors"
)

// Unassigned is the COG annotation carried by sequences without a functional
// group assignment.
const Unassigned = "None"

const (
	separator = "|"
	numFields = 5
)

var ErrMalformedHeader = errors.New("sico: malformed sequence identifier")

// Header is the pipe-delimited sequence identifier shared by every tool in
// the pipeline:
//
//	>58191|NC_010067.1|YP_001569097.1|COG4948MR|core
//	 genome|contig     |protein       |COG      |category
//
// A sequence without a COG assignment carries Unassigned in the COG field:
//
//	>58191|NC_010067.1|YP_001569097.1|None|core
type Header struct {
	GenomeID  string
	ContigID  string
	ProteinID string
	COG       string
	Category  string
}

// ParseHeader splits a sequence identifier into its five fields.
func ParseHeader(id string) (Header, error) {
	fields := strings.Split(id, separator)
	if len(fields) != numFields {
		return Header{}, errors.Wrapf(ErrMalformedHeader, "expected %d fields, found %d in '%s'", numFields, len(fields), id)
	}
	return Header{
		GenomeID:  fields[0],
		ContigID:  fields[1],
		ProteinID: fields[2],
		COG:       fields[3],
		Category:  fields[4],
	}, nil
}

// IsUnassigned reports whether the sequence has no COG annotation.
func (h Header) IsUnassigned() bool {
	return h.COG == Unassigned
}

// String formats the header back into its identifier. ParseHeader(h.String())
// always yields h.
func (h Header) String() string {
	return strings.Join([]string{h.GenomeID, h.ContigID, h.ProteinID, h.COG, h.Category}, separator)
}
