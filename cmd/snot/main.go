package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezequias2d/snot/pkgs/snot"
	"github.com/ezequias2d/snot/pkgs/snotio"
	"github.com/spf13/cobra"
)

// Build-time variables - can be set via ldflags
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

// Global flags
var (
	inputFile string
	indented  bool
	output    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snot [flags]",
	Short: "Work with SNOT (Simple Notation) documents",
	Long: `snot reads, validates, and reformats SNOT documents: a textual,
hierarchical data format of sections, strings, and numbers.
By default, it reads from the file given by --file, or stdin if omitted.`,
}

var formatCmd = &cobra.Command{
	Use:   "format [flags]",
	Short: "Parse a SNOT document and print it back out",
	Long: `Parses the input and re-serializes it, normalizing whitespace and
quoting. Use --indent to print one section per line.`,
	Args: cobra.NoArgs,
	RunE: formatCommand,
}

var validateCmd = &cobra.Command{
	Use:   "validate [flags]",
	Short: "Check that a SNOT document parses without error",
	Long:  `Parses the input and reports the first error found, with its line and column.`,
	Args:  cobra.NoArgs,
	RunE:  validateCommand,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [flags]",
	Short: "Print the raw parse events for a SNOT document",
	Long: `Streams start_section/end_section/string/number events straight from
the tokenizer, without building a tree. Useful for debugging the grammar
itself.`,
	Args: cobra.NoArgs,
	RunE: dumpCommand,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display version, build time, and git commit information for snot.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("snot %s\n", Version)
		fmt.Printf("Built: %s\n", BuildTime)
		fmt.Printf("Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "Path to a SNOT document (default: stdin)")

	formatCmd.Flags().BoolVar(&indented, "indent", false, "Print one section per line, indented")
	formatCmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: stdout)")

	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)
}

func openInput() (*os.File, func(), error) {
	if inputFile == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", inputFile, err)
	}
	return f, func() { f.Close() }, nil
}

func formatCommand(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput()
	if err != nil {
		return err
	}
	defer closeIn()

	doc, err := snotio.Parse(in)
	if err != nil {
		return fmt.Errorf("%s: %w", sourceName(), err)
	}

	var out *os.File = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("%s: %w", output, err)
		}
		defer f.Close()
		out = f
	}
	return snot.Serialize(out, doc.Tree, indented)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput()
	if err != nil {
		return err
	}
	defer closeIn()

	var buf strings.Builder
	tee := io.TeeReader(in, &buf)

	if _, err := snotio.Parse(tee); err != nil {
		lines := strings.Split(buf.String(), "\n")
		fmt.Fprintln(os.Stderr, snotio.FormatSourceError(err, lines))
		return fmt.Errorf("%s: invalid document", sourceName())
	}

	fmt.Printf("%s: ok\n", sourceName())
	return nil
}

func dumpCommand(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput()
	if err != nil {
		return err
	}
	defer closeIn()

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
			fmt.Fprintf(w, "string %q\n", p.Value(id))
		},
		OnNumber: func(p *snot.Parser, id int) {
			kind, _ := p.NumberKindOf(id)
			fmt.Fprintf(w, "number(%s) %s\n", kind, p.Value(id))
		},
	}

	p := snot.NewParser(sink)
	if err := snotio.Feed(in, p); err != nil {
		return fmt.Errorf("%s: %w", sourceName(), err)
	}
	return nil
}

func sourceName() string {
	if inputFile == "" {
		return "<stdin>"
	}
	return inputFile
}
