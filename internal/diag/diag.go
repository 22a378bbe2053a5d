// Package diag collects the categorized, positioned errors and warnings
// produced while compiling one Weft compilation unit.
package diag

import (
	"fmt"
	"log"
	"os"

	"github.com/weft-lang/weft/internal/src"
)

// Severity is the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Category identifies the pipeline stage that produced a diagnostic.
type Category int

const (
	Lexical  Category = iota // malformed token
	Syntax                   // grammar violation
	Semantic                 // undeclared identifier, redeclaration, scope violation
	Type                     // incompatible assignment, wrong constructor arity
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Type:
		return "type"
	default:
		return "unknown"
	}
}

// Diagnostic is a single error or warning record.
type Diagnostic struct {
	Severity Severity
	Category Category
	Msg      string
	Pos      src.Pos
}

// String formats the diagnostic as "pos: category severity: msg".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Category, d.Severity, d.Msg)
}

// Sink accumulates diagnostics for one compilation unit.
// Diagnostics are only ever appended; Clear wipes them.
// A Sink is not safe for concurrent use; give each compilation its own.
type Sink struct {
	cfg Config

	diags    []Diagnostic
	errors   int
	warnings int
	elided   int // reports counted but not retained past MaxDiagnostics

	console *log.Logger
	color   bool
	file    *os.File
	fileLog *log.Logger
}

// NewSink returns a Sink with the default configuration:
// DefaultMaxDiagnostics retained records and no logging.
func NewSink() *Sink {
	return &Sink{cfg: Config{MaxDiagnostics: DefaultMaxDiagnostics}}
}

// Report records a diagnostic. Once the configured maximum is reached the
// record itself is dropped, but it is still counted.
func (s *Sink) Report(sev Severity, cat Category, pos src.Pos, msg string) {
	switch sev {
	case Error:
		s.errors++
	case Warning:
		s.warnings++
	}

	d := Diagnostic{Severity: sev, Category: cat, Msg: msg, Pos: pos}
	if max := s.cfg.MaxDiagnostics; max >= 0 && len(s.diags) >= max {
		s.elided++
		return
	}
	s.diags = append(s.diags, d)
	s.log(d)
}

// Reportf is like Report but formats the message.
func (s *Sink) Reportf(sev Severity, cat Category, pos src.Pos, format string, args ...interface{}) {
	s.Report(sev, cat, pos, fmt.Sprintf(format, args...))
}

// ReportLexicalError records a malformed-token error.
func (s *Sink) ReportLexicalError(pos src.Pos, msg string) {
	s.Report(Error, Lexical, pos, msg)
}

// ReportSyntaxError records a grammar violation.
func (s *Sink) ReportSyntaxError(pos src.Pos, msg string) {
	s.Report(Error, Syntax, pos, msg)
}

// ReportSemanticError records a name-resolution or scoping error.
func (s *Sink) ReportSemanticError(pos src.Pos, msg string) {
	s.Report(Error, Semantic, pos, msg)
}

// ReportTypeError records a type compatibility error.
func (s *Sink) ReportTypeError(pos src.Pos, msg string) {
	s.Report(Error, Type, pos, msg)
}

// Warn records a warning.
func (s *Sink) Warn(cat Category, pos src.Pos, msg string) {
	s.Report(Warning, cat, pos, msg)
}

// HasErrors reports whether any Error-severity diagnostic was reported.
func (s *Sink) HasErrors() bool {
	return s.errors > 0
}

// ErrorCount returns the number of errors reported, including elided ones.
func (s *Sink) ErrorCount() int {
	return s.errors
}

// WarningCount returns the number of warnings reported, including elided ones.
func (s *Sink) WarningCount() int {
	return s.warnings
}

// Elided returns the number of reports whose details were dropped
// because MaxDiagnostics was reached.
func (s *Sink) Elided() int {
	return s.elided
}

// Diagnostics returns a copy of the retained diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diags...)
}

// Filter returns the retained diagnostics for which keep returns true.
func (s *Sink) Filter(keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.diags {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of retained diagnostics matching pred.
func (s *Sink) Count(pred func(Diagnostic) bool) int {
	n := 0
	for _, d := range s.diags {
		if pred(d) {
			n++
		}
	}
	return n
}

// InCategory returns a predicate matching errors of category cat.
func InCategory(cat Category) func(Diagnostic) bool {
	return func(d Diagnostic) bool {
		return d.Severity == Error && d.Category == cat
	}
}

// Clear discards all diagnostics and resets the counters.
// The configuration, including open log destinations, is kept.
func (s *Sink) Clear() {
	s.diags = nil
	s.errors = 0
	s.warnings = 0
	s.elided = 0
}
