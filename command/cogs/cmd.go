package cogs

import (
	"errors"
	"fmt"

	"github.com/TGenNorth/orthofilter/command"
	"github.com/TGenNorth/orthofilter/pipeline"
)

var cmd = &command.Command{
	UsageLine: "cogs [--rewrite] [sico.fasta ...]",
	Short:     "report and resolve the COG annotations of SICO clusters",
	Long: `
Cogs classifies each SICO cluster by the COG annotations of its genes:

	consistent     every gene carries the same COG
	missing        no gene carries a COG
	transferable   one COG is shared by the annotated genes, others have none
	conflicted     the genes carry more than one distinct COG

Conflicted clusters are reported on standard error. The paths of the remaining
clusters are printed on standard output.

--rewrite   Transfer the COG of transferable clusters to their unannotated
            genes, overwriting the cluster files
	`,
}

var rewriteFlag bool

func init() {
	cmd.Run = runCogs
	cmd.Flag.BoolVar(&rewriteFlag, "rewrite", false, "Transfer COGs to unannotated genes in place")

	command.Register(cmd)
}

func runCogs(cmd *command.Command, args []string) error {
	if len(args) < 1 {
		return errors.New("cogs: no SICO files specified")
	}

	kept, _, err := pipeline.FilterCOGs(args, rewriteFlag)
	if err != nil {
		return err
	}

	for _, path := range kept {
		fmt.Println(path)
	}
	return nil
}
