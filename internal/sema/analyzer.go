// Package sema implements semantic analysis for Weft programs: name
// resolution against the scoped symbol table, declaration checking and
// type checking of every expression and statement.
//
// Analysis runs in two passes. The first pass declares every top-level
// name (types first, then function signatures and globals) so that
// declarations may refer to each other in any order. The second pass
// checks initializers, class and interface bodies and function bodies.
package sema

import (
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/symbols"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// Result summarizes one call to Analyze.
type Result struct {
	Success      bool // no error was reported during the analysis
	SymbolsFound int  // symbols declared during the analysis, in all scopes
}

// Info holds the facts recorded during analysis.
type Info struct {
	// Types maps expressions, including type expressions, to their type.
	// Expressions that failed to check or have no value are absent.
	Types map[syntax.Expr]types.Type

	// Defs maps declaring names to the symbols they declare.
	Defs map[*syntax.Name]*symbols.Symbol

	// Uses maps referring names to the symbols they denote.
	Uses map[*syntax.Name]*symbols.Symbol
}

// Analyzer checks parsed programs. It declares symbols into a symbols.Table,
// creates types through a types.Registry and reports problems to a
// diag.Sink; all three are owned by the caller.
type Analyzer struct {
	sink  *diag.Sink
	table *symbols.Table
	reg   *types.Registry
	check *types.Checker
	info  Info

	// Declarations keyed by AST node.
	// Lifecycle: rebuilt by every Analyze call.
	classes  map[*syntax.ClassDecl]*types.Class
	ifaces   map[*syntax.InterfaceDecl]*types.Interface
	funcs    map[*syntax.FuncDecl]*types.Func
	tparams  map[syntax.Node][]*types.TypeParam
	globals  map[*syntax.VarDecl]*symbols.Symbol
	fields   map[*syntax.VarDecl]*types.Member
	defined  map[*types.Class]bool
	ctorDecl map[*types.Class]*syntax.FuncDecl

	// Checking context
	class     *types.Class         // enclosing class, or nil
	tenv      [][]*types.TypeParam // template parameters in scope, innermost last
	fn        *funcContext         // enclosing function, or nil
	loopDepth int                  // nested loop depth (for break/continue validation)
}

// funcContext describes the function whose body is being checked.
type funcContext struct {
	name         string
	sig          *types.Func
	returnsValue bool // a return statement with a value was seen
}

// NewAnalyzer returns an Analyzer that declares into table, creates types
// in reg and reports to sink.
func NewAnalyzer(sink *diag.Sink, table *symbols.Table, reg *types.Registry) *Analyzer {
	return &Analyzer{
		sink:  sink,
		table: table,
		reg:   reg,
		check: types.NewChecker(reg, sink),
	}
}

// Analyze checks prog. Top-level names are declared in the table's
// current scope, which is normally the global scope.
//
// Analyze panics if prog is nil.
func (a *Analyzer) Analyze(prog *syntax.Program) Result {
	if prog == nil {
		panic("sema: Analyze called with a nil program")
	}
	errors := a.sink.ErrorCount()
	count := a.table.Count()

	a.reset()
	a.collectDecls(prog.Decls)
	a.checkDecls(prog.Decls)

	return Result{
		Success:      a.sink.ErrorCount() == errors,
		SymbolsFound: a.table.Count() - count,
	}
}

// Info returns the facts recorded by the last call to Analyze.
func (a *Analyzer) Info() *Info {
	return &a.info
}

// TypeOf returns the type recorded for e, or nil.
func (a *Analyzer) TypeOf(e syntax.Expr) types.Type {
	return a.info.Types[e]
}

func (a *Analyzer) reset() {
	a.info = Info{
		Types: make(map[syntax.Expr]types.Type),
		Defs:  make(map[*syntax.Name]*symbols.Symbol),
		Uses:  make(map[*syntax.Name]*symbols.Symbol),
	}
	a.classes = make(map[*syntax.ClassDecl]*types.Class)
	a.ifaces = make(map[*syntax.InterfaceDecl]*types.Interface)
	a.funcs = make(map[*syntax.FuncDecl]*types.Func)
	a.tparams = make(map[syntax.Node][]*types.TypeParam)
	a.globals = make(map[*syntax.VarDecl]*symbols.Symbol)
	a.fields = make(map[*syntax.VarDecl]*types.Member)
	a.defined = make(map[*types.Class]bool)
	a.ctorDecl = make(map[*types.Class]*syntax.FuncDecl)
	a.class = nil
	a.tenv = nil
	a.fn = nil
	a.loopDepth = 0
}

// declare declares sym in the current scope and records the definition.
// It reports duplicates and conflicting forward declarations and returns
// nil for them.
func (a *Analyzer) declare(sym *symbols.Symbol, name *syntax.Name) *symbols.Symbol {
	got, err := a.table.Declare(sym)
	if err != nil {
		a.errorf(sym.Pos, "%s", err)
		return nil
	}
	a.info.Defs[name] = got
	return got
}

// openScope opens a scope of the given kind.
func (a *Analyzer) openScope(kind symbols.ScopeKind) {
	a.table.PushScope(kind)
}

// closeScope closes the current scope. Leaving a function or block scope
// reports locals that were declared and never used.
func (a *Analyzer) closeScope() {
	s := a.table.PopScope()
	if s.Kind() != symbols.FunctionScope && s.Kind() != symbols.BlockScope {
		return
	}
	for _, sym := range s.Symbols() {
		if sym.Kind == symbols.Variable && !sym.Used {
			a.warnf(sym.Pos, "%s declared and not used", sym.Name)
		}
	}
}

// pushTypeParams makes list visible to type resolution until the matching
// popTypeParams.
func (a *Analyzer) pushTypeParams(list []*types.TypeParam) {
	a.tenv = append(a.tenv, list)
}

func (a *Analyzer) popTypeParams() {
	a.tenv = a.tenv[:len(a.tenv)-1]
}

// lookupTypeParam finds a template parameter in scope by name.
func (a *Analyzer) lookupTypeParam(name string) *types.TypeParam {
	for i := len(a.tenv) - 1; i >= 0; i-- {
		for _, tp := range a.tenv[i] {
			if tp.Name() == name {
				return tp
			}
		}
	}
	return nil
}

// declareTypeParams declares template parameters as symbols of the
// current scope.
func (a *Analyzer) declareTypeParams(names []*syntax.Name, list []*types.TypeParam) {
	for i, n := range names {
		if i >= len(list) || n.Value == "_" {
			continue
		}
		a.declare(&symbols.Symbol{
			Name: n.Value,
			Kind: symbols.TypeParam,
			Type: list[i],
			Pos:  n.Pos(),
			Used: true,
			Node: n,
		}, n)
	}
}

// origin returns the template of a class instance, or c itself.
func origin(c *types.Class) *types.Class {
	if o := c.Origin(); o != nil {
		return o
	}
	return c
}

// within reports whether c is the class whose body is being checked.
func (a *Analyzer) within(c *types.Class) bool {
	return a.class != nil && origin(a.class) == origin(c)
}
