// Package compiler drives the Weft front end. A Context owns the state of
// one compilation unit (the diagnostics sink, the symbol table and the type
// registry) and runs the lexer, parser and semantic analyzer over it.
package compiler

import (
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/sema"
	"github.com/weft-lang/weft/internal/symbols"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// Options configures a Context.
type Options struct {
	Features syntax.Features
	Diag     diag.Config
}

// DefaultOptions enables every grammar flavor with the default sink
// configuration.
func DefaultOptions() Options {
	return Options{Features: syntax.AllFeatures()}
}

// Result is the outcome of compiling one source text.
type Result struct {
	Filename string
	Tokens   []syntax.Token
	Program  *syntax.Program // nil if the source was not parsed
	Analysis sema.Result
	Info     *sema.Info // nil if the program was not analyzed

	Diagnostics []diag.Diagnostic
	Errors      int
	Warnings    int
	Elided      int
	Success     bool
}

// A Context compiles sources into one set of front-end tables.
// It is not safe for concurrent use; use one Context per goroutine.
type Context struct {
	opts     Options
	sink     *diag.Sink
	table    *symbols.Table
	reg      *types.Registry
	analyzer *sema.Analyzer
}

// NewContext returns a Context configured by opts. It fails only if the
// diagnostic log file cannot be opened.
func NewContext(opts Options) (*Context, error) {
	sink := diag.NewSink()
	if err := sink.Configure(opts.Diag); err != nil {
		return nil, err
	}
	table := symbols.NewTable()
	reg := types.NewRegistry()
	return &Context{
		opts:     opts,
		sink:     sink,
		table:    table,
		reg:      reg,
		analyzer: sema.NewAnalyzer(sink, table, reg),
	}, nil
}

func (c *Context) Sink() *diag.Sink          { return c.sink }
func (c *Context) Table() *symbols.Table     { return c.table }
func (c *Context) Registry() *types.Registry { return c.reg }
func (c *Context) Features() syntax.Features { return c.opts.Features }

// Tokenize scans text into tokens, reporting lexical errors to the sink.
func (c *Context) Tokenize(filename, text string) []syntax.Token {
	return syntax.Tokenize(filename, text, c.sink)
}

// Parse parses tokens with the context's grammar features.
func (c *Context) Parse(tokens []syntax.Token) *syntax.Program {
	return syntax.NewParser(tokens, c.opts.Features, c.sink).Parse()
}

// Analyze checks prog against the context's symbol table and registry.
// Declarations accumulate across calls until Clear.
func (c *Context) Analyze(prog *syntax.Program) sema.Result {
	return c.analyzer.Analyze(prog)
}

// Info returns the facts recorded by the last Analyze.
func (c *Context) Info() *sema.Info {
	return c.analyzer.Info()
}

// Compile clears the context and runs every stage over text. Each stage
// runs on whatever the previous one produced, so a syntax error does not
// hide semantic errors elsewhere in the file.
func (c *Context) Compile(filename, text string) *Result {
	c.Clear()

	r := &Result{Filename: filename}
	r.Tokens = c.Tokenize(filename, text)
	r.Program = c.Parse(r.Tokens)
	r.Analysis = c.Analyze(r.Program)
	r.Info = c.Info()

	r.Diagnostics = c.sink.Diagnostics()
	r.Errors = c.sink.ErrorCount()
	r.Warnings = c.sink.WarningCount()
	r.Elided = c.sink.Elided()
	r.Success = r.Errors == 0
	return r
}

// Clear resets the sink, the symbol table and the registry.
func (c *Context) Clear() {
	c.sink.Clear()
	c.table.Clear()
	c.reg.Clear()
}

// Close releases the sink's log file.
func (c *Context) Close() error {
	return c.sink.Close()
}
