// Package main implements the Weft front-end driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/weft-lang/weft/internal/compiler"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/lintd"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/watch"
)

// Compiler flags
var (
	emitTokens        = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST           = flag.Bool("emit-ast", false, "Output AST")
	astFormat         = flag.String("ast-format", "text", "AST output format (text or json)")
	emitSymbols       = flag.Bool("emit-symbols", false, "Output the symbol table after analysis")
	edition           = flag.String("edition", "", "Language edition (default: all features)")
	noInterfaces      = flag.Bool("no-interfaces", false, "Disable structural interfaces")
	noClasses         = flag.Bool("no-classes", false, "Disable classes and templates")
	noTemplateStrings = flag.Bool("no-template-strings", false, "Disable template string literals")
	maxDiagnostics    = flag.Int("max-diagnostics", diag.DefaultMaxDiagnostics, "Diagnostics retained per file (negative: unlimited)")
	logFile           = flag.String("log-file", "", "Append diagnostics to file")
	jobs              = flag.Int("j", runtime.NumCPU(), "Files compiled in parallel")
	watchMode         = flag.Bool("watch", false, "Recompile files when they change")
	serveAddr         = flag.String("serve", "", "Serve diagnostics over HTTP/3 on UDP address")
	version           = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Weft Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: weftc [options] <file.wf>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("weftc version %s (edition %s)\n", Version, syntax.LatestEdition)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	opts, err := options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *serveAddr != "" {
		os.Exit(runServe(*serveAddr, opts))
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: weftc [options] <file.wf>...")
		os.Exit(1)
	}

	switch {
	case *emitTokens:
		os.Exit(runEmitTokens(args[0]))
	case *emitAST:
		os.Exit(runEmitAST(args[0], opts))
	case *emitSymbols:
		os.Exit(runEmitSymbols(args[0], opts))
	case *watchMode:
		os.Exit(runWatch(args, opts))
	}
	os.Exit(runCheck(args, opts))
}

// options builds compiler options from the flags.
func options() (compiler.Options, error) {
	opts := compiler.DefaultOptions()
	if *edition != "" {
		f, err := syntax.FeaturesForEdition(*edition)
		if err != nil {
			return opts, err
		}
		opts.Features = f
	}
	if *noInterfaces {
		opts.Features.StructuralInterfaces = false
	}
	if *noClasses {
		opts.Features.ClassTemplates = false
	}
	if *noTemplateStrings {
		opts.Features.TemplateStrings = false
	}
	opts.Diag = diag.Config{
		MaxDiagnostics: *maxDiagnostics,
		LogToFile:      *logFile,
	}
	return opts, nil
}

// runCheck compiles every file and prints their diagnostics.
func runCheck(paths []string, opts compiler.Options) int {
	results, err := compiler.CompileFiles(context.Background(), paths, opts, *jobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	code := 0
	for _, r := range results {
		printDiagnostics(os.Stderr, r)
		if !r.Success {
			code = 1
		}
	}
	return code
}

// printDiagnostics writes the diagnostics of r followed by a summary line
// when anything was reported.
func printDiagnostics(w io.Writer, r *compiler.Result) {
	for _, d := range r.Diagnostics {
		fmt.Fprintln(w, d)
	}
	if r.Elided > 0 {
		fmt.Fprintf(w, "%s: %d more diagnostics not shown\n", r.Filename, r.Elided)
	}
	if r.Errors > 0 || r.Warnings > 0 {
		fmt.Fprintf(w, "%s: %d errors, %d warnings\n", r.Filename, r.Errors, r.Warnings)
	}
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	text, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var errors []string
	errh := func(line, col uint32, msg string) {
		errors = append(errors, fmt.Sprintf("%s:%d:%d: %s", filename, line, col, msg))
	}

	s := syntax.NewScanner(filename, strings.NewReader(string(text)), errh)

	// Print header
	fmt.Printf("%-20s %-12s %-12s %s\n", "POSITION", "TOKEN", "KIND", "LITERAL")
	fmt.Printf("%-20s %-12s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %-12s %s\n", tok.Pos, tok.Tok, tok.Kind(), formatLiteral(tok.Lit))
		if tok.Kind() == syntax.KindEOF {
			break
		}
	}

	if len(errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
		return 1
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string, opts compiler.Options) int {
	text, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	c, err := compiler.NewContext(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer c.Close()

	prog := c.Parse(c.Tokenize(filename, string(text)))

	// Print errors first
	for _, d := range c.Sink().Diagnostics() {
		fmt.Fprintln(os.Stderr, d)
	}

	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, prog); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.Fprint(os.Stdout, prog)
	}

	if c.Sink().HasErrors() {
		return 1
	}
	return 0
}

// runEmitSymbols compiles the input file and prints the resulting scope tree.
func runEmitSymbols(filename string, opts compiler.Options) int {
	text, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	c, err := compiler.NewContext(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer c.Close()

	r := c.Compile(filename, string(text))
	printDiagnostics(os.Stderr, r)
	fmt.Print(c.Table().Global())

	if !r.Success {
		return 1
	}
	return 0
}

// runWatch compiles the files and recompiles them on change until interrupted.
func runWatch(paths []string, opts compiler.Options) int {
	w, err := watch.New(paths, opts, func(r *compiler.Result) {
		printDiagnostics(os.Stderr, r)
		if r.Success {
			fmt.Fprintf(os.Stderr, "%s: ok\n", r.Filename)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	w.Logger = log.New(os.Stderr, "weftc: ", 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runServe serves diagnostics over HTTP/3 until interrupted.
func runServe(addr string, opts compiler.Options) int {
	s := lintd.NewServer(opts, log.New(os.Stderr, "lintd: ", log.LstdFlags))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.ListenAndServe(ctx, addr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
