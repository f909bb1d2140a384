// Command snot2xml streams a SNOT document's raw parse events straight to
// an XML-ish printer, without building a tree first. It mirrors the
// minimal example front end shipped with the original C library.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ezequias2d/snot/pkgs/snot"
	"github.com/ezequias2d/snot/pkgs/snotio"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: snot2xml <file>")
		os.Exit(1)
	}
	filename := os.Args[1]

	file, err := os.Open(filename)
	if err != nil {
		fmt.Printf("cannot open %s\n", filename)
		os.Exit(1)
	}
	defer file.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	sink := snot.FuncSink{
		OnStartSection: func(p *snot.Parser, id int) {
			fmt.Fprintf(w, "<%s>\n", p.Value(id))
		},
		OnEndSection: func(p *snot.Parser, id int) {
			fmt.Fprintf(w, "</%s>\n", p.Value(id))
		},
		OnString: func(p *snot.Parser, id int) {
			fmt.Fprintf(w, "%s\n", p.Value(id))
		},
		OnNumber: func(p *snot.Parser, id int) {
			fmt.Fprintf(w, "%s\n", p.Value(id))
		},
	}

	parser := snot.NewParser(sink)
	if err := snotio.Feed(file, parser); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}
