package trim

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/TGenNorth/orthofilter/command"
	"github.com/TGenNorth/orthofilter/concatemer"
	"github.com/TGenNorth/orthofilter/genomes"
	"github.com/TGenNorth/orthofilter/pipeline"
	"github.com/TGenNorth/orthofilter/pool"
)

var cmd = &command.Command{
	UsageLine: "trim --out-dir DIR [--stats FILE] [--retained-threshold PERC] [alignment.fasta ...]",
	Short:     "trim codon alignments to the codons shared by every genome",
	Long: `
Trim removes the leading and trailing columns of each DNA alignment up to the
first and after the last codon present in every sequence. The trimmed
alignments are written to DIR under their original file name.

A statistics file lists the percentage of each alignment retained after
trimming. Alignments retaining less than PERC percent are counted as filtered.

Given --genomes, the retained alignments are also concatenated into one
sequence per genome in --concatemer-dir.

--out-dir              Folder for the trimmed alignments
--stats                Destination path for the statistics file (default: DIR/trim-stats.txt)
--retained-threshold   Minimum percentage of an alignment retained after trimming (default: 0)
--genomes              File with a genome identifier on each line
--concatemer-dir       Folder for the concatemers (default: DIR/concatemers)
--num-threads          Max number of alignments trimmed simultaneously (default: all CPUs)
	`,
}

var (
	outDirFlag        string
	statsFlag         string
	thresholdFlag     int
	genomesFlag       string
	concatemerDirFlag string
	numThreadsFlag    int
)

func init() {
	cmd.Run = runTrim
	cmd.Flag.StringVar(&outDirFlag, "out-dir", "", "Folder for the trimmed alignments")
	cmd.Flag.StringVar(&statsFlag, "stats", "", "Destination path for the statistics file")
	cmd.Flag.IntVar(&thresholdFlag, "retained-threshold", 0, "Minimum percentage of an alignment retained after trimming")
	cmd.Flag.StringVar(&genomesFlag, "genomes", "", "File with a genome identifier on each line")
	cmd.Flag.StringVar(&concatemerDirFlag, "concatemer-dir", "", "Folder for the concatemers")
	cmd.Flag.IntVar(&numThreadsFlag, "num-threads", 0, "Max number of alignments trimmed simultaneously")

	command.Register(cmd)
}

func runTrim(cmd *command.Command, args []string) error {
	if outDirFlag == "" {
		return errors.New("trim: no output folder specified")
	}
	if len(args) < 1 {
		return errors.New("trim: no alignment files specified")
	}
	if thresholdFlag < 0 || thresholdFlag > 100 {
		return errors.New("trim: retained threshold must be a percentage between 0 and 100")
	}

	stats := statsFlag
	if stats == "" {
		stats = filepath.Join(outDirFlag, "trim-stats.txt")
	}

	retained, err := pipeline.Trim(context.Background(), args, outDirFlag, stats, thresholdFlag, pool.Options{Workers: numThreadsFlag})
	if err != nil {
		return err
	}

	if genomesFlag == "" {
		return nil
	}

	genomeIDs, err := genomes.ReadFile(genomesFlag)
	if err != nil {
		return err
	}

	dir := concatemerDirFlag
	if dir == "" {
		dir = filepath.Join(outDirFlag, "concatemers")
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	concatemers, err := concatemer.Build(genomeIDs, retained, dir)
	if err != nil {
		return err
	}
	log.Printf("Wrote %d concatemers to %s\n", len(concatemers), dir)
	return nil
}
