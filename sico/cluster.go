package sico

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/errors"
)

// Gap marks an alignment column where the sequence has no residue.
const Gap = '-'

// lineWidth matches the wrapping of the aligner output.
const lineWidth = 60

type Record struct {
	Header Header
	Seq    []byte
}

// Cluster is a SICO file held in memory. Once aligned, every record is the
// same length and the cluster is treated as an alignment.
type Cluster struct {
	// Name is the file name without its extension.
	Name    string
	Path    string
	Records []Record
}

// NameFromPath strips the directory and extension from a cluster file path.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Width returns the number of alignment columns, taken from the first record.
func (c *Cluster) Width() int {
	if len(c.Records) == 0 {
		return 0
	}
	return len(c.Records[0].Seq)
}

// GenomeIDs lists the genome of each record in file order.
func (c *Cluster) GenomeIDs() []string {
	ids := make([]string, len(c.Records))
	for i := range c.Records {
		ids[i] = c.Records[i].Header.GenomeID
	}
	return ids
}

// ReadCluster parses the FASTA file at path.
func ReadCluster(path string) (*Cluster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrapf(err, "sico: %s", path)
	}
	c.Name = NameFromPath(path)
	c.Path = path

	return c, nil
}

// Decode reads FASTA records whose identifiers follow the Header convention.
func Decode(r io.Reader) (*Cluster, error) {
	c := &Cluster{}

	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAgapped)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		header, err := ParseHeader(s.Name())
		if err != nil {
			return nil, err
		}
		seq := make([]byte, len(s.Seq))
		for i, l := range s.Seq {
			seq[i] = byte(l)
		}
		c.Records = append(c.Records, Record{Header: header, Seq: seq})
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}

	return c, nil
}

// Encode writes the cluster in FASTA format.
func (c *Cluster) Encode(w io.Writer) error {
	fw := fasta.NewWriter(w, lineWidth)
	for _, record := range c.Records {
		s := linear.NewSeq(record.Header.String(), alphabet.BytesToLetters(record.Seq), alphabet.DNAgapped)
		if _, err := fw.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the cluster to path, replacing any existing file.
func (c *Cluster) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(file)
	if err := c.Encode(bw); err != nil {
		file.Close()
		return errors.Wrapf(err, "sico: %s", path)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
