package filter

import (
	"context"

	"github.com/TGenNorth/orthofilter/command"
	"github.com/TGenNorth/orthofilter/genomes"
	"github.com/TGenNorth/orthofilter/pipeline"
	"github.com/TGenNorth/orthofilter/pool"
	"github.com/TGenNorth/orthofilter/translatorx"
)

var cmd = &command.Command{
	UsageLine: "filter --genomes FILE --orthologs-zip FILE --retained-threshold PERC --trimmed-zip FILE --concatemer-zip FILE --stats FILE",
	Short:     "filter, align and trim orthologs into concatemers per genome",
	Long: `
Filter cleans up the single-copy ortholog (SICO) clusters produced by OrthoMCL
and turns them into one concatenated gene sequence per genome.

	1. Optionally drop SICOs whose genes carry conflicting COG annotations, and
	   transfer the COG of the others to their unannotated genes.
	2. Align the DNA of each SICO at the codon level with TranslatorX.
	3. Trim each alignment to the span between the first and the last codon
	   present in every genome.
	4. Drop alignments that retain less than --retained-threshold percent.
	5. Concatenate the remaining trimmed genes per genome.

Given the --dto-file flag, all other flags are optional overrides.

--dto-file               Path to the filter_dto.xml file
--genomes                File with a genome identifier on each line
--orthologs-zip          Archive of orthologous genes in FASTA format
--filter-multiple-cogs   Filter orthologs with multiple COG annotations among genes
--filter-recombination   Accepted for compatibility; recombination is not filtered
--retained-threshold     Filter orthologs that retain less than PERC % of sequence after trimming
--trimmed-zip            Destination path for the archive of aligned & trimmed orthologs
--concatemer-zip         Destination path for the archive of concatemers per genome
--stats                  Destination path for the trimming statistics file
--translatorx            Path to the TranslatorX executable (default: translatorx)
--translation-table      NCBI genetic code passed to TranslatorX (default: 11)
--num-threads            Max number of alignments processed simultaneously (default: all CPUs)
--progress               Show a progress bar while aligning and trimming
	`,
}

var (
	dtoFile  string
	flags    Parameters
	progress bool
)

func init() {
	cmd.Run = runFilter
	cmd.Flag.StringVar(&dtoFile, "dto-file", "", "Path to the filter_dto.xml file")
	cmd.Flag.StringVar(&flags.Genomes, "genomes", "", "File with a genome identifier on each line")
	cmd.Flag.StringVar(&flags.OrthologsZip, "orthologs-zip", "", "Archive of orthologous genes in FASTA format")
	cmd.Flag.BoolVar(&flags.FilterMultipleCogs, "filter-multiple-cogs", false, "Filter orthologs with multiple COG annotations among genes")
	cmd.Flag.BoolVar(&flags.FilterRecombination, "filter-recombination", false, "Accepted for compatibility; recombination is not filtered")
	cmd.Flag.IntVar(&flags.RetainedThreshold, "retained-threshold", unset, "Filter orthologs that retain less than PERC % of sequence after trimming")
	cmd.Flag.StringVar(&flags.TrimmedZip, "trimmed-zip", "", "Destination path for the archive of aligned & trimmed orthologs")
	cmd.Flag.StringVar(&flags.ConcatemerZip, "concatemer-zip", "", "Destination path for the archive of concatemers per genome")
	cmd.Flag.StringVar(&flags.Stats, "stats", "", "Destination path for the trimming statistics file")
	cmd.Flag.StringVar(&flags.TranslatorX, "translatorx", "", "Path to the TranslatorX executable")
	cmd.Flag.StringVar(&flags.TranslationTable, "translation-table", "", "NCBI genetic code passed to TranslatorX")
	cmd.Flag.IntVar(&flags.NumThreads, "num-threads", unset, "Max number of alignments processed simultaneously")
	cmd.Flag.BoolVar(&progress, "progress", false, "Show a progress bar while aligning and trimming")

	command.Register(cmd)
}

func runFilter(cmd *command.Command, args []string) error {
	dto, err := NewDto(dtoFile, flags)
	if err != nil {
		return err
	}

	return pipeline.Run(context.Background(), dto.Options(progress))
}

// Options translates the run description into pipeline options.
func (d *Dto) Options(progress bool) pipeline.Options {
	return pipeline.Options{
		Genomes:             genomes.NewFileSource(d.Genomes),
		OrthologsZip:        d.OrthologsZip,
		FilterCOGs:          d.FilterMultipleCogs,
		FilterRecombination: d.FilterRecombination,
		RetainedThreshold:   d.RetainedThreshold,
		TrimmedZip:          d.TrimmedZip,
		ConcatemerZip:       d.ConcatemerZip,
		Stats:               d.Stats,
		Aligner:             translatorx.New(d.TranslatorX, d.TranslationTable),
		Pool: pool.Options{
			Workers:  d.NumThreads,
			Policy:   pool.FailFast,
			Progress: progress,
		},
	}
}
