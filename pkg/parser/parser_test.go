package parser

import (
	"strings"
	"testing"

	"goex/pkg/lexer"
)

func parseSource(t *testing.T, input string) *Program {
	t.Helper()
	tokens, err := lexer.NewLexer(input).Tokenize()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	program, err := NewParser(tokens).ParseProgram()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	return program
}

func TestPackageAndImports(t *testing.T) {
	input := `package main

import "fmt"
import str "strings"

func main() {
}
`
	program := parseSource(t, input)

	if program.Package != "main" {
		t.Errorf("package name wrong. got=%q", program.Package)
	}
	if len(program.Imports) != 2 {
		t.Fatalf("expected 2 imports. got=%d", len(program.Imports))
	}
	if program.Imports[0].Path != "fmt" || program.Imports[0].Alias != "" {
		t.Errorf("import 0 wrong. got=%q alias=%q", program.Imports[0].Path, program.Imports[0].Alias)
	}
	if program.Imports[1].Path != "strings" || program.Imports[1].Alias != "str" {
		t.Errorf("import 1 wrong. got=%q alias=%q", program.Imports[1].Path, program.Imports[1].Alias)
	}
}

func TestClassDeclaration(t *testing.T) {
	input := `package main

class Person {
	name string
	age int = 0

	Person(name string, age int) {
		this.name = name
		this.age = age
	}

	func Greet() string {
		return "Hello, " + this.name
	}

	func Birthday() {
		this.age = this.age + 1
	}
}
`
	program := parseSource(t, input)

	if len(program.Declarations) != 1 {
		t.Fatalf("expected 1 declaration. got=%d", len(program.Declarations))
	}
	class, ok := program.Declarations[0].(*ClassDecl)
	if !ok {
		t.Fatalf("declaration is not *ClassDecl. got=%T", program.Declarations[0])
	}

	if class.Name != "Person" {
		t.Errorf("class name wrong. got=%q", class.Name)
	}
	if class.Extends != "" {
		t.Errorf("expected no parent. got=%q", class.Extends)
	}
	if len(class.Fields) != 2 {
		t.Fatalf("expected 2 fields. got=%d", len(class.Fields))
	}
	if class.Fields[0].Name != "name" || class.Fields[0].Type != "string" {
		t.Errorf("field 0 wrong. got=%s %s", class.Fields[0].Name, class.Fields[0].Type)
	}
	if class.Fields[1].Value == nil {
		t.Errorf("field 1 should carry an initializer")
	}
	if class.Constructor == nil {
		t.Fatalf("constructor missing")
	}
	if len(class.Constructor.Params) != 2 {
		t.Errorf("expected 2 constructor params. got=%d", len(class.Constructor.Params))
	}
	if len(class.Methods) != 2 {
		t.Fatalf("expected 2 methods. got=%d", len(class.Methods))
	}
	if class.Methods[0].Name != "Greet" || class.Methods[0].ReturnType != "string" {
		t.Errorf("method 0 wrong. got=%s %s", class.Methods[0].Name, class.Methods[0].ReturnType)
	}
}

func TestClassInheritance(t *testing.T) {
	input := `package main

class Student extends Person {
	school string

	Student(name string, school string) {
		super.Person(name, 18)
		this.school = school
	}
}
`
	program := parseSource(t, input)

	class := program.Declarations[0].(*ClassDecl)
	if class.Extends != "Person" {
		t.Errorf("parent wrong. got=%q", class.Extends)
	}
	if class.Constructor == nil {
		t.Fatalf("constructor missing")
	}

	first := class.Constructor.Body.Statements[0]
	exprStmt, ok := first.(*ExpressionStmt)
	if !ok {
		t.Fatalf("first constructor statement is not *ExpressionStmt. got=%T", first)
	}
	call, ok := exprStmt.Expression.(*CallExpr)
	if !ok {
		t.Fatalf("expected call. got=%T", exprStmt.Expression)
	}
	sel, ok := call.Function.(*SelectorExpr)
	if !ok {
		t.Fatalf("expected selector. got=%T", call.Function)
	}
	if _, ok := sel.Object.(*SuperExpr); !ok {
		t.Errorf("expected super receiver. got=%T", sel.Object)
	}
	if sel.Field != "Person" {
		t.Errorf("super target wrong. got=%q", sel.Field)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a == b && c < d", "((a == b) && (c < d))"},
		{"a || b && c", "(a || (b && c))"},
		{"1 + 2 + 3", "((1 + 2) + 3)"},
		{"-a * b", "((-a) * b)"},
		{"!ok || x > 0", "((!ok) || (x > 0))"},
		{"a % 2 == 0", "((a % 2) == 0)"},
	}

	for _, tt := range tests {
		program := parseSource(t, "package main\nfunc main() {\nx = "+tt.input+"\n}\n")
		fn := program.Declarations[0].(*FuncDecl)
		assign, ok := fn.Body.Statements[0].(*AssignStmt)
		if !ok {
			t.Fatalf("input %q: expected assignment. got=%T", tt.input, fn.Body.Statements[0])
		}
		if got := assign.Value.String(); got != tt.expected {
			t.Errorf("input %q: wrong grouping. got=%q want=%q", tt.input, got, tt.expected)
		}
	}
}

func TestRangedFor(t *testing.T) {
	input := `package main

func main() {
	for i, v := range items {
		process(i, v)
	}
	for k := range lookup {
		process(k)
	}
}
`
	program := parseSource(t, input)
	fn := program.Declarations[0].(*FuncDecl)

	first, ok := fn.Body.Statements[0].(*RangeStmt)
	if !ok {
		t.Fatalf("statement 0 is not *RangeStmt. got=%T", fn.Body.Statements[0])
	}
	if first.Key != "i" || first.Value != "v" {
		t.Errorf("range bindings wrong. got key=%q value=%q", first.Key, first.Value)
	}

	second, ok := fn.Body.Statements[1].(*RangeStmt)
	if !ok {
		t.Fatalf("statement 1 is not *RangeStmt. got=%T", fn.Body.Statements[1])
	}
	if second.Key != "k" || second.Value != "" {
		t.Errorf("key-only range wrong. got key=%q value=%q", second.Key, second.Value)
	}
}

func TestCountedForFallback(t *testing.T) {
	// Starts with an identifier, so the ranged parse is attempted first
	// and must rewind cleanly.
	input := `package main

func main() {
	for i := 0; i < 10; i++ {
		process(i)
	}
}
`
	program := parseSource(t, input)
	fn := program.Declarations[0].(*FuncDecl)

	stmt, ok := fn.Body.Statements[0].(*ForStmt)
	if !ok {
		t.Fatalf("expected *ForStmt. got=%T", fn.Body.Statements[0])
	}
	if stmt.Init == nil || stmt.Condition == nil {
		t.Errorf("three-clause form incomplete: init=%v cond=%v",
			stmt.Init != nil, stmt.Condition != nil)
	}
	update, ok := stmt.Update.(*IncDecStmt)
	if !ok {
		t.Fatalf("update is not *IncDecStmt. got=%T", stmt.Update)
	}
	if update.Operator != "++" {
		t.Errorf("update operator wrong. got=%q", update.Operator)
	}
}

func TestTryCatchFinally(t *testing.T) {
	input := `package main

func main() {
	try {
		risky()
	} catch (ValidationError e) {
		report(e)
	} catch (e) {
		log(e)
	} finally {
		cleanup()
	}
}
`
	program := parseSource(t, input)
	fn := program.Declarations[0].(*FuncDecl)

	try, ok := fn.Body.Statements[0].(*TryStmt)
	if !ok {
		t.Fatalf("expected *TryStmt. got=%T", fn.Body.Statements[0])
	}
	if len(try.Catches) != 2 {
		t.Fatalf("expected 2 catch blocks. got=%d", len(try.Catches))
	}
	if try.Catches[0].ExceptionType != "ValidationError" || try.Catches[0].ExceptionVar != "e" {
		t.Errorf("catch 0 wrong. got type=%q var=%q", try.Catches[0].ExceptionType, try.Catches[0].ExceptionVar)
	}
	if try.Catches[1].ExceptionType != "" || try.Catches[1].ExceptionVar != "e" {
		t.Errorf("catch-all wrong. got type=%q var=%q", try.Catches[1].ExceptionType, try.Catches[1].ExceptionVar)
	}
	if try.Finally == nil {
		t.Errorf("finally block missing")
	}
}

func TestThrowStatement(t *testing.T) {
	input := `package main

func main() {
	throw NewException("boom")
}
`
	program := parseSource(t, input)
	fn := program.Declarations[0].(*FuncDecl)

	throw, ok := fn.Body.Statements[0].(*ThrowStmt)
	if !ok {
		t.Fatalf("expected *ThrowStmt. got=%T", fn.Body.Statements[0])
	}
	if _, ok := throw.Expression.(*CallExpr); !ok {
		t.Errorf("throw operand should be a call. got=%T", throw.Expression)
	}
}

func TestSwitchStatement(t *testing.T) {
	input := `package main

func main() {
	switch code {
	case 1, 2:
		low()
	case 3:
		mid()
	default:
		high()
	}
}
`
	program := parseSource(t, input)
	fn := program.Declarations[0].(*FuncDecl)

	sw, ok := fn.Body.Statements[0].(*SwitchStmt)
	if !ok {
		t.Fatalf("expected *SwitchStmt. got=%T", fn.Body.Statements[0])
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases. got=%d", len(sw.Cases))
	}
	if len(sw.Cases[0].Values) != 2 {
		t.Errorf("case 0 should carry 2 values. got=%d", len(sw.Cases[0].Values))
	}
	if sw.Default == nil {
		t.Errorf("default branch missing")
	}
}

func TestGoAndDeferRequireCall(t *testing.T) {
	for _, input := range []string{
		"package main\nfunc main() {\ngo count\n}\n",
		"package main\nfunc main() {\ndefer count\n}\n",
	} {
		tokens, err := lexer.NewLexer(input).Tokenize()
		if err != nil {
			t.Fatalf("lexing failed: %v", err)
		}
		if _, err := NewParser(tokens).ParseProgram(); err == nil {
			t.Errorf("input %q: expected error for non-call operand", input)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input  string
		errHas string
	}{
		{"func main() {}\n", "expected PACKAGE"},
		{"package main\nwhatever\n", "unrecognized declaration"},
		{"package main\nfunc main() {\nx = 1 +\n}\n", "unrecognized expression"},
		{"package main\nclass Dog {\nname\n}\n", "expected IDENT"},
	}

	for _, tt := range tests {
		tokens, err := lexer.NewLexer(tt.input).Tokenize()
		if err != nil {
			t.Fatalf("input %q: lexing failed: %v", tt.input, err)
		}
		_, err = NewParser(tokens).ParseProgram()
		if err == nil {
			t.Fatalf("input %q: expected syntax error, got none", tt.input)
		}
		if !strings.Contains(err.Error(), tt.errHas) {
			t.Errorf("input %q: error %q does not mention %q", tt.input, err.Error(), tt.errHas)
		}
	}
}
