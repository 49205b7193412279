// jdoc inspects JSON documents from the command line.
//
// With no options it pretty-prints a document, streaming it so that files
// larger than memory can be displayed:
//
//	jdoc -file results.json
//
// With -fields it extracts named top-level or dotted-path fields in one
// pass:
//
//	jdoc -file results.json -fields metadata.name,duration
//
// With -path it streams the elements of a nested array, one per line:
//
//	jdoc -file results.json -path results.item
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arnodel/docstream"
	"github.com/arnodel/docstream/docpath"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	var filename string
	var indent int
	var fields string
	var pathExpr string
	var colorizer *docstream.Colorizer

	if isatty.IsTerminal(os.Stdout.Fd()) {
		colorizer = &defaultColorizer
	}

	flag.BoolFunc("colors", "force using colors", func(s string) error {
		colorizer = &defaultColorizer
		return nil
	})
	flag.BoolFunc("nocolors", "disable colors", func(s string) error {
		colorizer = nil
		return nil
	})

	flag.StringVar(&filename, "file", "", "json input filename (stdin if omitted, pretty-printing only)")
	flag.IntVar(&indent, "indent", 2, "indent step for json output (negative means no new lines)")
	flag.StringVar(&fields, "fields", "", "comma-separated field names to extract")
	flag.StringVar(&pathExpr, "path", "", "path expression addressing a nested array to stream")
	flag.Parse()

	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	switch {
	case pathExpr != "":
		if filename == "" {
			fatalError("-path requires -file")
		}
		expr, err := docpath.Parse(pathExpr)
		if err != nil {
			fatalError("error: %s", err)
		}
		cur, err := docstream.OpenCursor(filename, expr)
		if err != nil {
			fatalError("error: %s", err)
		}
		defer cur.Close()
		for cur.Next() {
			printValue(out, cur.Value(), -1)
		}
		if err := cur.Err(); err != nil {
			fatalError("error: %s", err)
		}
	case fields != "":
		if filename == "" {
			fatalError("-fields requires -file")
		}
		doc, err := docstream.ReadFields(filename, strings.Split(fields, ",")...)
		if err != nil {
			fatalError("error: %s", err)
		}
		printValue(out, doc, indent)
	default:
		var input io.Reader = os.Stdin
		if filename != "" {
			f, err := os.Open(filename)
			if err != nil {
				fatalError("error opening %q: %s", filename, err)
			}
			defer f.Close()
			input = f
		}
		dec := docstream.NewDecoder(input)
		encoder := &docstream.Encoder{
			Printer:   &docstream.DefaultPrinter{Writer: out, IndentSize: indent},
			Colorizer: colorizer,
		}
		if err := encoder.Encode(dec); err != nil {
			fatalError("error: %s", err)
		}
		if err := dec.Err(); err != nil {
			fatalError("error while parsing: %s", err)
		}
	}
}

func printValue(out *bufio.Writer, v any, indent int) {
	opts := []json.Options{json.WithMarshalers(docstream.Marshalers())}
	if indent > 0 {
		opts = append(opts, jsontext.WithIndent(strings.Repeat(" ", indent)))
	}
	encoded, err := json.Marshal(v, opts...)
	if err != nil {
		fatalError("error: %s", err)
	}
	out.Write(encoded)
	out.WriteByte('\n')
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

// Some color ANSI codes
var (
	reset = []byte("\033[0m")

	white      = []byte("\033[37m")
	green      = []byte("\033[32m")
	yellow     = []byte("\033[33m")
	dimWhite   = []byte("\033[37;2m")
	brightBlue = []byte("\033[34;1m")
)

var defaultColorizer = docstream.Colorizer{
	ScalarColorCodes: [4][]byte{dimWhite, yellow, white, green},
	KeyColorCode:     brightBlue,
	ResetCode:        reset,
}
