package filter

import (
	"encoding/xml"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
)

// unset marks a numeric parameter that was not given on the command line.
const unset = -1

type Parameters struct {
	Genomes             string `xml:"parameters>genomes"`
	OrthologsZip        string `xml:"parameters>orthologs-zip"`
	FilterMultipleCogs  bool   `xml:"parameters>filter-multiple-cogs"`
	FilterRecombination bool   `xml:"parameters>filter-recombination"`
	RetainedThreshold   int    `xml:"parameters>retained-threshold"`
	TrimmedZip          string `xml:"parameters>trimmed-zip"`
	ConcatemerZip       string `xml:"parameters>concatemer-zip"`
	Stats               string `xml:"parameters>stats"`
	TranslatorX         string `xml:"parameters>translatorx"`
	TranslationTable    string `xml:"parameters>translation-table"`
	NumThreads          int    `xml:"parameters>num-threads"`
}

type Dto struct {
	XMLName xml.Name `xml:"filter_data"`
	Parameters
}

// NewDto reads the run description at dtoPath, if any, and applies the
// command line values in flags on top of it.
// - Commandline arguments supersede dto file values.
// - RetainedThreshold and NumThreads must be -1 to indicate they were not set.
// - Boolean filters are enabled if either source enables them.
func NewDto(dtoPath string, flags Parameters) (*Dto, error) {
	dto := &Dto{}
	dto.RetainedThreshold = unset
	dto.NumThreads = unset

	// Parse the filter_dto.xml
	if dtoPath != "" {
		file, err := os.Open(dtoPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		data, err := ioutil.ReadAll(file)
		if err != nil {
			return nil, err
		}

		if err := xml.Unmarshal(data, dto); err != nil {
			return nil, err
		}
	}

	dto.merge(flags)

	if err := dto.validate(); err != nil {
		return nil, err
	}

	// Create the folders holding the outputs.
	for _, path := range []string{dto.TrimmedZip, dto.ConcatemerZip, dto.Stats} {
		if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
			return nil, err
		}
	}

	return dto, nil
}

func (d *Dto) merge(flags Parameters) {
	if flags.Genomes != "" {
		d.Genomes = flags.Genomes
	}
	if flags.OrthologsZip != "" {
		d.OrthologsZip = flags.OrthologsZip
	}
	if flags.TrimmedZip != "" {
		d.TrimmedZip = flags.TrimmedZip
	}
	if flags.ConcatemerZip != "" {
		d.ConcatemerZip = flags.ConcatemerZip
	}
	if flags.Stats != "" {
		d.Stats = flags.Stats
	}
	if flags.TranslatorX != "" {
		d.TranslatorX = flags.TranslatorX
	}
	if flags.TranslationTable != "" {
		d.TranslationTable = flags.TranslationTable
	}
	if flags.RetainedThreshold != unset {
		d.RetainedThreshold = flags.RetainedThreshold
	}
	if flags.NumThreads != unset {
		d.NumThreads = flags.NumThreads
	}
	d.FilterMultipleCogs = d.FilterMultipleCogs || flags.FilterMultipleCogs
	d.FilterRecombination = d.FilterRecombination || flags.FilterRecombination
}

func (d *Dto) validate() error {
	// The genome list and the ortholog archive are required and must exist.
	for _, input := range []struct{ name, path string }{
		{"a genome list", d.Genomes},
		{"an orthologs archive", d.OrthologsZip},
	} {
		if input.path == "" {
			return errRequired(input.name)
		}
		if _, err := os.Stat(input.path); err != nil {
			if os.IsNotExist(err) {
				return errNotExist(input.path)
			}
			return err
		}
	}

	for _, output := range []struct{ name, path string }{
		{"a trimmed alignments archive", d.TrimmedZip},
		{"a concatemers archive", d.ConcatemerZip},
		{"a statistics file", d.Stats},
	} {
		if output.path == "" {
			return errRequired(output.name)
		}
	}

	if d.RetainedThreshold == unset {
		return errRequired("a retained threshold")
	}
	if d.RetainedThreshold < 0 || d.RetainedThreshold > 100 {
		return errThreshold(d.RetainedThreshold)
	}

	return nil
}

type errNotExist string

func (e errNotExist) Error() string {
	return "filter: file does not exist '" + string(e) + "'"
}

type errRequired string

func (e errRequired) Error() string {
	return "filter: " + string(e) + " must be specified either in the filter_dto.xml or on the command line"
}

type errThreshold int

func (e errThreshold) Error() string {
	return "filter: retained threshold must be a percentage between 0 and 100, found " + strconv.Itoa(int(e))
}
