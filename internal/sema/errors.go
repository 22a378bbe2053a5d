package sema

import (
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/src"
)

// errorf reports a semantic error: a problem with names, declarations or
// the structure of the program.
func (a *Analyzer) errorf(pos src.Pos, format string, args ...interface{}) {
	a.sink.Reportf(diag.Error, diag.Semantic, pos, format, args...)
}

// typeErrorf reports a type error.
func (a *Analyzer) typeErrorf(pos src.Pos, format string, args ...interface{}) {
	a.sink.Reportf(diag.Error, diag.Type, pos, format, args...)
}

// warnf reports a semantic warning.
func (a *Analyzer) warnf(pos src.Pos, format string, args ...interface{}) {
	a.sink.Reportf(diag.Warning, diag.Semantic, pos, format, args...)
}
