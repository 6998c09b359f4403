// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrogolib/arch"
)

// ParseFlags parses command line flags and returns the program and analyzer options
func ParseFlags() (options.Program, options.Analyzer, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, options.Analyzer{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Analyzer{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Analyzer{}, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	analyzerOptions, err := createAnalyzerOptions(opts)
	if err != nil {
		return opts, options.Analyzer{}, err
	}
	return opts, analyzerOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrodoc [options] <file to analyze>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to analyze, please pass the file to analyze as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.System = strings.ToLower(opts.System)
	if opts.System == "" {
		return nil
	}

	system, _ := arch.SystemFromString(opts.System)
	if system != arch.NES && system != arch.CHIP8System {
		return fmt.Errorf("unsupported system: %s. Valid options: %s, %s",
			opts.System, arch.NES, arch.CHIP8System)
	}
	return nil
}

// createAnalyzerOptions creates analyzer options based on program options
func createAnalyzerOptions(opts options.Program) (options.Analyzer, error) {
	analyzerOptions := options.NewAnalyzer()
	analyzerOptions.Strings = opts.Strings
	analyzerOptions.Unofficial = opts.Unofficial

	if opts.Entry != "" {
		entry, err := ParseAddress(opts.Entry)
		if err != nil {
			return options.Analyzer{}, fmt.Errorf("parsing entry address: %w", err)
		}
		analyzerOptions.Entry = entry
		analyzerOptions.HasEntry = true
	}
	return analyzerOptions, nil
}

// ParseAddress parses an address given as decimal, 0x prefixed or $ prefixed
// hexadecimal number.
func ParseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "$"); ok {
		s = "0x" + rest
	}
	value, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return value, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input file")
	flags.StringVar(&opts.Output, "o", "", "name of the output listing file, printed on console if no name given")
	flags.StringVar(&opts.Database, "db", "", "SQLite database file to store the document in, kept in memory if no name given")
	flags.StringVar(&opts.System, "s", "", "system of the input file (nes, chip8) - if not auto-detected from file extension")
	flags.Uint64Var(&opts.Base, "base", 0, "logical address of the first byte of a raw binary, overrides the system default")
	flags.StringVar(&opts.Entry, "entry", "", "address to start the code analysis at, for example $8000")
	flags.BoolVar(&opts.Strings, "strings", false, "detect NUL terminated strings in unreferenced data")
	flags.BoolVar(&opts.Unofficial, "unofficial", false, "decode unofficial 6502 opcodes")
	flags.BoolVar(&opts.Offsets, "offsets", false, "output file offsets in comments")
	flags.BoolVar(&opts.Xrefs, "xrefs", false, "output cross-references of labels")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
