// Package pipeline runs the ortholog filtering stages in an isolated working
// directory: COG filtering, codon alignment, trimming, and concatemer assembly.
package pipeline

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/TGenNorth/orthofilter/archive"
	"github.com/TGenNorth/orthofilter/cog"
	"github.com/TGenNorth/orthofilter/concatemer"
	"github.com/TGenNorth/orthofilter/genomes"
	"github.com/TGenNorth/orthofilter/pool"
	"github.com/TGenNorth/orthofilter/sico"
	"github.com/TGenNorth/orthofilter/translatorx"
	"github.com/TGenNorth/orthofilter/trim"
	"github.com/pkg/errors"
)

const (
	runDirPrefix  = "filter_run_"
	orthologsDir  = "orthologs"
	alignmentsDir = "alignments"
	trimmedDir    = "trimmed"
	concatemerDir = "concatemers"
	statsFile     = "trim-stats.txt"
)

type Options struct {
	Genomes      genomes.Source
	OrthologsZip string

	// FilterCOGs drops SICOs whose genes carry more than one COG and transfers
	// the COG of the others to their unannotated genes.
	FilterCOGs bool
	// FilterRecombination is accepted for compatibility; there is no
	// recombination filter.
	FilterRecombination bool
	// RetainedThreshold is the minimum percentage of an alignment that must
	// survive trimming for the SICO to be part of the concatemers.
	RetainedThreshold int

	TrimmedZip    string
	ConcatemerZip string
	Stats         string

	Aligner translatorx.Aligner
	Pool    pool.Options
}

func (o Options) validate() error {
	if o.Genomes == nil {
		return errors.New("pipeline: no genome list")
	}
	if o.Aligner == nil {
		return errors.New("pipeline: no aligner")
	}
	if o.RetainedThreshold < 0 || o.RetainedThreshold > 100 {
		return errors.Errorf("pipeline: retained threshold %d is outside 0-100", o.RetainedThreshold)
	}
	return nil
}

// Run executes every stage. The working directory is removed when Run
// returns, whether or not it succeeded.
func Run(ctx context.Context, opts Options) error {
	t0 := time.Now()
	defer func() {
		log.Println(time.Now().Sub(t0))
	}()

	if err := opts.validate(); err != nil {
		return err
	}

	genomeIDs, err := opts.Genomes.GenomeIDs()
	if err != nil {
		return err
	}

	runDir, err := os.MkdirTemp("", runDirPrefix)
	if err != nil {
		return err
	}
	defer os.RemoveAll(runDir)

	sicoFiles, err := archive.Extract(opts.OrthologsZip, filepath.Join(runDir, orthologsDir))
	if err != nil {
		return err
	}
	log.Printf("Extracted %d SICOs from %s\n", len(sicoFiles), opts.OrthologsZip)

	if opts.FilterCOGs {
		if sicoFiles, _, err = FilterCOGs(sicoFiles, true); err != nil {
			return err
		}
	}

	if opts.FilterRecombination {
		log.Println("Recombination filtering is not implemented; no SICOs were removed")
	}

	alignments, err := translatorx.AlignAll(ctx, opts.Aligner, sicoFiles, filepath.Join(runDir, alignmentsDir), opts.Pool)
	if err != nil {
		return err
	}

	statsPath := filepath.Join(runDir, statsFile)
	retained, err := Trim(ctx, alignments, filepath.Join(runDir, trimmedDir), statsPath, opts.RetainedThreshold, opts.Pool)
	if err != nil {
		return err
	}

	concatemerPath := filepath.Join(runDir, concatemerDir)
	if err := os.Mkdir(concatemerPath, 0777); err != nil {
		return err
	}
	concatemers, err := concatemer.Build(genomeIDs, retained, concatemerPath)
	if err != nil {
		return err
	}

	if err := archive.Create(opts.TrimmedZip, retained); err != nil {
		return err
	}
	if err := archive.Create(opts.ConcatemerZip, concatemers); err != nil {
		return err
	}
	if err := moveFile(statsPath, opts.Stats); err != nil {
		return errors.Wrapf(err, "pipeline: moving statistics to %s", opts.Stats)
	}

	log.Printf("Produced:\n%s\n%s\n%s\n", opts.TrimmedZip, opts.ConcatemerZip, opts.Stats)
	return nil
}

// FilterCOGs reads the SICO files, drops those with conflicting COGs and
// returns the remaining paths in their original order. With rewrite set,
// files that received a transferred COG are overwritten.
func FilterCOGs(paths []string, rewrite bool) ([]string, *cog.Resolution, error) {
	clusters := make([]*sico.Cluster, len(paths))
	for i, path := range paths {
		c, err := sico.ReadCluster(path)
		if err != nil {
			return nil, nil, err
		}
		clusters[i] = c
	}

	resolution, err := cog.Resolve(clusters)
	if err != nil {
		return nil, nil, err
	}

	if rewrite {
		for _, c := range resolution.Rewritten() {
			if err := c.WriteFile(c.Path); err != nil {
				return nil, nil, err
			}
		}
	}

	resolution.Log(log.Default(), rewrite)

	kept := make([]string, len(resolution.Kept))
	for i, c := range resolution.Kept {
		kept[i] = c.Path
	}
	return kept, resolution, nil
}

// Trim trims every alignment into outDir, writes the statistics report to
// statsPath and returns the paths of the trimmed alignments that retained at
// least threshold percent, sorted.
func Trim(ctx context.Context, alignments []string, outDir, statsPath string, threshold int, opts pool.Options) ([]string, error) {
	if err := os.MkdirAll(outDir, 0777); err != nil {
		return nil, err
	}

	results, err := trim.Files(ctx, alignments, outDir, opts)
	if err != nil {
		return nil, err
	}

	report := trim.Report{Results: results, Threshold: threshold}
	report.Log(log.Default())
	if err := writeReport(statsPath, report); err != nil {
		return nil, err
	}

	retained, _ := trim.Filter(results, threshold)
	return trim.Paths(retained), nil
}

func writeReport(path string, report trim.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := report.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
