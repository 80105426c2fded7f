package align

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/TGenNorth/orthofilter/command"
	"github.com/TGenNorth/orthofilter/pool"
	"github.com/TGenNorth/orthofilter/translatorx"
)

var cmd = &command.Command{
	UsageLine: "align --out-dir DIR [--translatorx PATH] [sico.fasta ...]",
	Short:     "codon align SICO clusters with TranslatorX",
	Long: `
Align runs TranslatorX on each SICO cluster file given as an argument. The DNA
alignment of a cluster named sico_1.fasta is written to

	DIR/sico_1/sico_1.nt_ali.fasta

along with the other TranslatorX outputs. The path of every alignment is
printed on standard output in the order of the arguments.

--out-dir             Folder for the alignments
--translatorx         Path to the TranslatorX executable (default: translatorx)
--translation-table   NCBI genetic code passed to TranslatorX (default: 11)
--num-threads         Max number of clusters aligned simultaneously (default: all CPUs)
--progress            Show a progress bar
	`,
}

var (
	outDirFlag           string
	translatorxFlag      string
	translationTableFlag string
	numThreadsFlag       int
	progressFlag         bool
)

func init() {
	cmd.Run = runAlign
	cmd.Flag.StringVar(&outDirFlag, "out-dir", "", "Folder for the alignments")
	cmd.Flag.StringVar(&translatorxFlag, "translatorx", "", "Path to the TranslatorX executable")
	cmd.Flag.StringVar(&translationTableFlag, "translation-table", "", "NCBI genetic code passed to TranslatorX")
	cmd.Flag.IntVar(&numThreadsFlag, "num-threads", 0, "Max number of clusters aligned simultaneously")
	cmd.Flag.BoolVar(&progressFlag, "progress", false, "Show a progress bar")

	command.Register(cmd)
}

func runAlign(cmd *command.Command, args []string) error {
	if outDirFlag == "" {
		return errors.New("align: no output folder specified")
	}
	if len(args) < 1 {
		return errors.New("align: no SICO files specified")
	}

	if err := os.MkdirAll(outDirFlag, 0777); err != nil {
		return err
	}

	aligner := translatorx.New(translatorxFlag, translationTableFlag)
	if _, err := aligner.Executable(); err != nil {
		return err
	}

	alignments, err := translatorx.AlignAll(context.Background(), aligner, args, outDirFlag, pool.Options{
		Workers:  numThreadsFlag,
		Policy:   pool.WaitAll,
		Progress: progressFlag,
	})
	if err != nil {
		return err
	}

	for _, path := range alignments {
		fmt.Println(path)
	}
	return nil
}
