package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/midbel/cli"

	"github.com/shapestone/smarter-csv/pkg/csv"
)

var errFail = errors.New("fail")

var (
	summary = "smartercsv"
	help    = "inspect and convert delimited text files"
)

// sampleSize is how much of a file "-s auto" looks at.
const sampleSize = 4096

func main() {
	var (
		set  = cli.NewFlagSet("smartercsv")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"print"}, &printCmd)
	root.Register([]string{"headers"}, &headersCmd)
	root.Register([]string{"check"}, &checkCmd)
	root.Register([]string{"convert"}, &convertCmd)

	return root
}

var printCmd = cli.Command{
	Name:    "print",
	Alias:   []string{"view", "show", "dump"},
	Summary: "print the rows of a file",
	Usage:   "print [-s sep] [-q quote] [-e escape] [-H] [-w width] [-n] <file>",
	Handler: &PrintRowsCommand{},
}

var headersCmd = cli.Command{
	Name:    "headers",
	Alias:   []string{"columns"},
	Summary: "print the column names of a file",
	Usage:   "headers [-s sep] [-q quote] [-e escape] [-H] <file>",
	Handler: &PrintHeadersCommand{},
}

var checkCmd = cli.Command{
	Name:    "check",
	Alias:   []string{"validate"},
	Summary: "check that one or more files are well formed",
	Usage:   "check [-s sep] [-q quote] [-e escape] [-H] <file> [<file>,...]",
	Handler: &CheckFileCommand{},
}

var convertCmd = cli.Command{
	Name:    "convert",
	Summary: "rewrite a file with another dialect",
	Usage:   "convert [-s sep] [-q quote] [-e escape] [-H] [-c sep] [-o file] <file>",
	Handler: &ConvertFileCommand{},
}

type flagSet interface {
	StringVar(p *string, name, value, usage string)
	BoolVar(p *bool, name string, value bool, usage string)
}

// Dialect holds the flags shared by every command.
type Dialect struct {
	Sep       string
	Quote     string
	Escape    string
	NoHeaders bool
}

func (d *Dialect) Register(set flagSet) {
	set.StringVar(&d.Sep, "s", "", "field separator, auto to detect it")
	set.StringVar(&d.Quote, "q", "", "quote character")
	set.StringVar(&d.Escape, "e", "", "escape character")
	set.BoolVar(&d.NoHeaders, "H", false, "do not use the first row as header")
}

// Options builds the parsing options for the file at path.
func (d Dialect) Options(path string) (csv.Options, error) {
	opts := csv.DefaultOptions()
	switch d.Sep {
	case "":
	case "auto":
		sample, err := readSample(path)
		if err != nil {
			return opts, err
		}
		opts = csv.SniffOptions(sample)
	default:
		sep, err := csv.Delimiter(d.Sep)
		if err != nil {
			return opts, err
		}
		opts.Separator = sep
	}
	if d.Quote != "" {
		q, err := csv.Delimiter(d.Quote)
		if err != nil {
			return opts, err
		}
		opts.Quote = q
	}
	if d.Escape != "" {
		e, err := csv.Delimiter(d.Escape)
		if err != nil {
			return opts, err
		}
		opts.Escape = e
	}
	if d.NoHeaders {
		opts.HasHeaders = false
	}
	return opts, opts.Validate()
}

func readSample(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, sampleSize))
	if err != nil {
		return "", err
	}
	// Drop the last line, it is likely cut.
	if len(buf) == sampleSize {
		if i := strings.LastIndexByte(string(buf), '\n'); i > 0 {
			buf = buf[:i+1]
		}
	}
	return string(buf), nil
}

type PrintRowsCommand struct {
	Dialect
	Width int
	Lino  bool
}

func (c PrintRowsCommand) Run(args []string) error {
	set := cli.NewFlagSet("print")
	c.Dialect.Register(set)
	set.IntVar(&c.Width, "w", 12, "column width")
	set.BoolVar(&c.Lino, "n", false, "print line number")
	if err := set.Parse(args); err != nil {
		return err
	}
	opts, err := c.Options(set.Arg(0))
	if err != nil {
		return err
	}
	if c.Width <= 0 {
		c.Width = 16
	}
	var printed bool
	_, err = csv.EachRowInFile(set.Arg(0), opts, func(row *csv.Row) {
		if !printed && opts.HasHeaders {
			c.printLine(0, row.Headers())
		}
		printed = true
		c.printLine(row.Line(), row.Fields())
	})
	return err
}

func (c PrintRowsCommand) printLine(lino int, values []string) {
	if c.Lino {
		if lino > 0 {
			fmt.Fprintf(os.Stdout, "%-5d ", lino)
		} else {
			fmt.Fprint(os.Stdout, "      ")
		}
		fmt.Fprint(os.Stdout, "|")
	}
	for i, v := range values {
		if i > 0 {
			fmt.Fprint(os.Stdout, "|")
		}
		fmt.Fprintf(os.Stdout, " %-*s ", c.Width, strings.ReplaceAll(v, "\n", `\n`))
	}
	fmt.Fprintln(os.Stdout)
}

type PrintHeadersCommand struct {
	Dialect
}

func (c PrintHeadersCommand) Run(args []string) error {
	set := cli.NewFlagSet("headers")
	c.Dialect.Register(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	opts, err := c.Options(set.Arg(0))
	if err != nil {
		return err
	}
	st, err := csv.EachRowInFile(set.Arg(0), opts, nil)
	if err != nil {
		return err
	}
	for i, h := range st.Headers() {
		fmt.Fprintf(os.Stdout, "%3d %s", i, h)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

type CheckFileCommand struct {
	Dialect
}

func (c CheckFileCommand) Run(args []string) error {
	set := cli.NewFlagSet("check")
	c.Dialect.Register(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	var failed bool
	for _, file := range set.Args() {
		if err := c.Check(file); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", file, err)
			fmt.Fprintln(os.Stderr)
			failed = true
		}
	}
	if failed {
		return errFail
	}
	return nil
}

func (c CheckFileCommand) Check(file string) error {
	opts, err := c.Options(file)
	if err != nil {
		return err
	}
	var (
		rows  int
		width int
	)
	st, err := csv.EachRowInFile(file, opts, func(row *csv.Row) {
		rows++
		width = max(width, row.Len())
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: %d rows, %d columns, widest row %d", file, rows, len(st.Headers()), width)
	fmt.Fprintln(os.Stdout)
	return nil
}

type ConvertFileCommand struct {
	Dialect
	OutFile string
	OutSep  string
}

func (c ConvertFileCommand) Run(args []string) error {
	set := cli.NewFlagSet("convert")
	c.Dialect.Register(set)
	set.StringVar(&c.OutFile, "o", "", "write result to output file")
	set.StringVar(&c.OutSep, "c", ",", "separator of the output")
	if err := set.Parse(args); err != nil {
		return err
	}
	opts, err := c.Options(set.Arg(0))
	if err != nil {
		return err
	}
	table, err := csv.ReadFile(set.Arg(0), opts)
	if err != nil {
		return err
	}

	out := opts
	if out.Separator, err = csv.Delimiter(c.OutSep); err != nil {
		return err
	}
	data, err := csv.Render(table, out)
	if err != nil {
		return err
	}
	if c.OutFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(c.OutFile, data, 0644)
}
