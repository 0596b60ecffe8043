package transpiler

import (
	"goex/pkg/parser"
)

// UsesExceptions reports whether any node in the tree uses the exception
// machinery: a try statement, a throw statement, or a call to the
// NewException constructor. The walk is an explicit type switch over every
// node kind so a new AST node fails loudly here instead of being skipped.
func UsesExceptions(node parser.Node) bool {
	switch n := node.(type) {
	case nil:
		return false

	case *parser.Program:
		for _, decl := range n.Declarations {
			if UsesExceptions(decl) {
				return true
			}
		}
		return false

	case *parser.ImportDecl:
		return false

	case *parser.FuncDecl:
		return blockUses(n.Body)
	case *parser.VarDecl:
		return exprUses(n.Value)
	case *parser.ConstDecl:
		return exprUses(n.Value)
	case *parser.TypeDecl, *parser.StructDecl, *parser.InterfaceDecl:
		return false

	case *parser.ClassDecl:
		for _, field := range n.Fields {
			if exprUses(field.Value) {
				return true
			}
		}
		if n.Constructor != nil && blockUses(n.Constructor.Body) {
			return true
		}
		for _, method := range n.Methods {
			if blockUses(method.Body) {
				return true
			}
		}
		return false

	case *parser.BlockStmt:
		return blockUses(n)
	case *parser.ExpressionStmt:
		return exprUses(n.Expression)
	case *parser.VarStmt:
		return exprUses(n.Value)
	case *parser.AssignStmt:
		return exprUses(n.Target) || exprUses(n.Value)
	case *parser.IncDecStmt:
		return exprUses(n.Target)
	case *parser.IfStmt:
		return exprUses(n.Condition) || stmtUses(n.Then) || stmtUses(n.Else)
	case *parser.ForStmt:
		return stmtUses(n.Init) || exprUses(n.Condition) || stmtUses(n.Update) || stmtUses(n.Body)
	case *parser.RangeStmt:
		return exprUses(n.Iterable) || stmtUses(n.Body)
	case *parser.SwitchStmt:
		if exprUses(n.Expression) {
			return true
		}
		for _, c := range n.Cases {
			for _, v := range c.Values {
				if exprUses(v) {
					return true
				}
			}
			for _, stmt := range c.Body {
				if stmtUses(stmt) {
					return true
				}
			}
		}
		if n.Default != nil {
			for _, stmt := range n.Default.Body {
				if stmtUses(stmt) {
					return true
				}
			}
		}
		return false
	case *parser.ReturnStmt:
		return exprUses(n.Value)
	case *parser.BreakStmt, *parser.ContinueStmt:
		return false
	case *parser.GoStmt:
		return exprUses(n.Call)
	case *parser.DeferStmt:
		return exprUses(n.Call)
	case *parser.TryStmt, *parser.ThrowStmt:
		return true

	case *parser.BinaryExpr:
		return exprUses(n.Left) || exprUses(n.Right)
	case *parser.UnaryExpr:
		return exprUses(n.Operand)
	case *parser.CallExpr:
		if ident, ok := n.Function.(*parser.Identifier); ok && ident.Name == "NewException" {
			return true
		}
		if exprUses(n.Function) {
			return true
		}
		for _, arg := range n.Args {
			if exprUses(arg) {
				return true
			}
		}
		return false
	case *parser.IndexExpr:
		return exprUses(n.Object) || exprUses(n.Index)
	case *parser.SelectorExpr:
		return exprUses(n.Object)
	case *parser.NewExpr:
		for _, arg := range n.Args {
			if exprUses(arg) {
				return true
			}
		}
		return false
	case *parser.ArrayLiteral:
		for _, el := range n.Elements {
			if exprUses(el) {
				return true
			}
		}
		return false
	case *parser.MapLiteral:
		for _, entry := range n.Entries {
			if exprUses(entry.Key) || exprUses(entry.Value) {
				return true
			}
		}
		return false
	case *parser.StructLiteral:
		for _, field := range n.Fields {
			if exprUses(field.Value) {
				return true
			}
		}
		return false
	case *parser.Identifier, *parser.Literal, *parser.ThisExpr, *parser.SuperExpr:
		return false
	}

	return false
}

func blockUses(block *parser.BlockStmt) bool {
	if block == nil {
		return false
	}
	for _, stmt := range block.Statements {
		if UsesExceptions(stmt) {
			return true
		}
	}
	return false
}

func stmtUses(stmt parser.Statement) bool {
	if stmt == nil {
		return false
	}
	return UsesExceptions(stmt)
}

func exprUses(expr parser.Expression) bool {
	if expr == nil {
		return false
	}
	return UsesExceptions(expr)
}
