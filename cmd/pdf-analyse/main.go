// Command pdf-analyse prints the summary, vocabulary and keyword matches of
// a single PDF file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cangvel/pdf-analyser/internal/config"
	"github.com/cangvel/pdf-analyser/internal/logging"
	"github.com/cangvel/pdf-analyser/internal/pdf"
	"github.com/cangvel/pdf-analyser/internal/pdf/wrapper"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// report is everything printed for one file
type report struct {
	Summary   *pdf.DocumentSummary `json:"summary"`
	WordCount int                  `json:"word_count"`
	Words     []string             `json:"words,omitempty"`
	Keywords  []string             `json:"keywords"`
	Matches   []string             `json:"matches"`
	Text      string               `json:"text,omitempty"`
}

type options struct {
	format       string
	keywords     []string
	keywordsFile string
	extensions   []string
	imageBackend string
	showWords    bool
	showText     bool
	logLevel     string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("pdf-analyse", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVar(&opts.format, "format", formatText, "Output format: text, json")
	flags.StringSliceVar(&opts.keywords, "keywords", nil, "Keywords to match, comma separated")
	flags.StringVar(&opts.keywordsFile, "keywords-file", "", "YAML file with keywords to match")
	flags.StringSliceVar(&opts.extensions, "extensions", pdf.DefaultAllowedExtensions, "Allowed file extensions")
	flags.StringVar(&opts.imageBackend, "image-backend", config.BackendAuto, "Image detection backend (auto, pdfcpu, ledongthuc)")
	flags.BoolVar(&opts.showWords, "words", false, "Include the distinct words")
	flags.BoolVar(&opts.showText, "text", false, "Include the extracted text")
	flags.StringVar(&opts.logLevel, "loglevel", "error", "Log level (debug, info, warn, error)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pdf-analyse [options] <file.pdf>\n\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: exactly one PDF file path required\n\n")
		flags.Usage()
		return 2
	}
	if opts.format != formatText && opts.format != formatJSON {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", opts.format)
		return 2
	}

	logger, err := logging.NewConsole(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	rep, err := analyse(flags.Arg(0), opts, logger)
	if rep != nil {
		if writeErr := writeReport(stdout, rep, opts.format); writeErr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", writeErr)
			return 1
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// analyse builds the report. A file whose text cannot be read still gets its
// summary reported alongside the error.
func analyse(path string, opts options, logger *zap.Logger) (*report, error) {
	keywords := opts.keywords
	if opts.keywordsFile != "" {
		fromFile, err := config.LoadKeywords(opts.keywordsFile)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, fromFile...)
	}

	factory, err := wrapper.NewPDFLibraryFactoryWithConfig(wrapper.FactoryConfig{
		ImageLibrary: wrapper.LibraryType(opts.imageBackend),
	})
	if err != nil {
		return nil, err
	}
	analyser := pdf.NewAnalyser(pdf.AnalyserConfig{
		AllowedExtensions: opts.extensions,
		Opener:            factory,
		Logger:            logger,
	})

	summary, err := analyser.GetDocumentSummary(path)
	if err != nil {
		return nil, err
	}
	rep := &report{Summary: summary}

	text, err := analyser.ReadTextContent(path)
	if err != nil {
		return rep, err
	}

	words := analyser.NormalizeToWords(text)
	rep.WordCount = words.Len()
	if opts.showWords {
		rep.Words = words.Sorted()
	}
	if opts.showText {
		rep.Text = text
	}
	if keywords != nil {
		keywordSet := pdf.NewStringSet(keywords...)
		rep.Keywords = keywordSet.Sorted()
		rep.Matches = analyser.IntersectKeywords(keywordSet, words).Sorted()
	}

	return rep, nil
}

func writeReport(w io.Writer, rep *report, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", rep.Summary.Path)
	fmt.Fprintf(&b, "Size: %d bytes\n", rep.Summary.SizeBytes)
	fmt.Fprintf(&b, "Has Images: %t\n", rep.Summary.HasImage)
	if rep.Summary.Degraded {
		fmt.Fprintf(&b, "Degraded: %s\n", rep.Summary.DegradedReason)
	}
	fmt.Fprintf(&b, "Distinct Words: %d\n", rep.WordCount)
	if rep.Keywords != nil {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(rep.Keywords, ", "))
		fmt.Fprintf(&b, "Matches: %s\n", strings.Join(rep.Matches, ", "))
	}
	if rep.Words != nil {
		fmt.Fprintf(&b, "\nWords:\n%s\n", strings.Join(rep.Words, " "))
	}
	if rep.Text != "" {
		fmt.Fprintf(&b, "\nContent:\n%s\n", rep.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
