package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"text/template"

	"github.com/TGenNorth/orthofilter/command"
	_ "github.com/TGenNorth/orthofilter/command/align"
	_ "github.com/TGenNorth/orthofilter/command/cogs"
	_ "github.com/TGenNorth/orthofilter/command/filter"
	_ "github.com/TGenNorth/orthofilter/command/trim"
)

// version is set at compile time when built with the following command:
// go build -ldflags "-X main.version=$(git rev-parse --short HEAD)"
var version string
var versionFlag bool

var commands = command.Commands

func init() {
	flag.BoolVar(&versionFlag, "version", false, "print the version and exit")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	log.SetFlags(0)

	if versionFlag {
		log.Printf("%s", version)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		return
	}

	if args[0] == "help" {
		help(args[1:])
		return
	}

	if cmd := command.Lookup(args[0]); cmd != nil {
		cmd.Flag.Usage = func() { cmd.Usage(nil) }
		cmd.Flag.Parse(args[1:])
		args = cmd.Flag.Args()
		if err := cmd.Run(cmd, args); err != nil {
			cmd.Usage(err)
		}
		return
	}

	log.Fatalf("orthofilter: unknown subcommand %q\nRun 'orthofilter help' for usage.\n", args[0])
}

var usageTemplate = `orthofilter filters single-copy ortholog (SICO) clusters, aligns them at the
codon level, trims the alignments and concatenates the retained genes into one
sequence per genome for phylogenetic analysis.

Usage:

	orthofilter command [arguments]

The commands are:
{{range .}}
	{{.Name | printf "%-11s"}} {{.Short}}{{end}}

Use "orthofilter help [command]" for more information about a command.
`

var helpTemplate = `usage: orthofilter {{.UsageLine}}

{{.Long | trim}}
`

// tmpl executes the given template text on data, writing the result to w.
func tmpl(w io.Writer, text string, data interface{}) {
	t := template.Must(template.New("root").Funcs(template.FuncMap{"trim": strings.TrimSpace}).Parse(text))
	err := t.Execute(w, data)
	if err != nil {
		panic(err)
	}
}

func printUsage(w io.Writer) {
	bw := bufio.NewWriter(w)
	tmpl(bw, usageTemplate, commands)
	bw.Flush()
}

func usage() {
	printUsage(os.Stderr)
}

// help implements the 'help' command.
func help(args []string) {
	if len(args) == 0 {
		printUsage(os.Stdout)
		return
	}

	if len(args) != 1 {
		log.Fatal("usage: orthofilter help command\n\nToo many arguments given.")
	}

	if cmd := command.Lookup(args[0]); cmd != nil {
		tmpl(os.Stdout, helpTemplate, cmd)
		return
	}

	log.Fatalf("Unknown help topic %#q.  Run 'orthofilter help'.\n", args[0])
}
