// Package enumvalidator reports string literals written into enum-typed fields.
//
// An enum is a named string type whose package declares at least one constant of that
// type, such as domain.EventType or model.IntakeStatus. Writing
//
//	msg.Status = "procesed"
//
// compiles but silently skips the constant set; the analyzer asks for the constant instead.
package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var Analyzer = &analysis.Analyzer{
	Name:     "enumvalidator",
	Doc:      "reports string literals assigned to enum-typed struct fields",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	filter := []ast.Node{
		(*ast.AssignStmt)(nil),
		(*ast.CompositeLit)(nil),
	}
	insp.Preorder(filter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.AssignStmt:
			checkAssign(pass, node)
		case *ast.CompositeLit:
			checkCompositeLit(pass, node)
		}
	})
	return nil, nil
}

func checkAssign(pass *analysis.Pass, stmt *ast.AssignStmt) {
	if len(stmt.Lhs) != len(stmt.Rhs) {
		return
	}
	for i, lhs := range stmt.Lhs {
		sel, ok := lhs.(*ast.SelectorExpr)
		if !ok || !isStringLiteral(stmt.Rhs[i]) {
			continue
		}
		if named, ok := enumType(pass.TypesInfo.TypeOf(sel)); ok {
			report(pass, stmt.Rhs[i], sel.Sel.Name, named)
		}
	}
}

func checkCompositeLit(pass *analysis.Pass, lit *ast.CompositeLit) {
	t := pass.TypesInfo.TypeOf(lit)
	if t == nil {
		return
	}
	if _, ok := t.Underlying().(*types.Struct); !ok {
		return
	}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok || !isStringLiteral(kv.Value) {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		if named, ok := enumType(pass.TypesInfo.TypeOf(key)); ok {
			report(pass, kv.Value, key.Name, named)
		}
	}
}

func report(pass *analysis.Pass, at ast.Node, field string, named *types.Named) {
	pass.Reportf(at.Pos(), "enum field %s assigned string literal, use a %s constant", field, named.Obj().Name())
}

func isStringLiteral(e ast.Expr) bool {
	lit, ok := ast.Unparen(e).(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}

// enumType reports whether t is a named string type with constants declared alongside it.
func enumType(t types.Type) (*types.Named, bool) {
	if t == nil {
		return nil, false
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsString == 0 {
		return nil, false
	}
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil, false
	}
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
			return named, true
		}
	}
	return nil, false
}
