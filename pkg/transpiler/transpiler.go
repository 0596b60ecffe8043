package transpiler

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"goex/pkg/errors"
	"goex/pkg/parser"
)

// Mode selects where exception support code comes from. In Standalone mode
// each output file carries its own Exception interface and constructor; in
// Project mode those live in a shared package generated once per project,
// so per-file emission is suppressed.
type Mode int

const (
	Standalone Mode = iota
	Project
)

// Transpiler turns one parsed program into Go source text. It runs two
// passes: a collection pass that gathers class declarations and detects
// exception usage, and an emission pass that writes the output.
//
// A Transpiler is single-use; create a new one per program.
type Transpiler struct {
	buf         bytes.Buffer
	indentLevel int
	mode        Mode

	classes        map[string]*parser.ClassDecl
	usesExceptions bool

	// receiver is the name 'this' rewrites to: "this" inside methods,
	// "obj" inside constructor bodies.
	receiver string

	err error
}

func NewTranspiler() *Transpiler {
	return NewTranspilerWithMode(Standalone)
}

func NewTranspilerWithMode(mode Mode) *Transpiler {
	return &Transpiler{
		mode:     mode,
		classes:  make(map[string]*parser.ClassDecl),
		receiver: "this",
	}
}

// UsesExceptions reports whether the last transpiled program used throw,
// try, or NewException.
func (t *Transpiler) UsesExceptions() bool {
	return t.usesExceptions
}

// Transpile generates Go source for the program. The first error
// encountered during emission is returned; output text is only meaningful
// when the error is nil.
func (t *Transpiler) Transpile(program *parser.Program) (string, error) {
	t.buf.Reset()
	t.indentLevel = 0
	t.err = nil

	t.collectClasses(program)
	t.usesExceptions = UsesExceptions(program)

	t.emitProgram(program)

	if t.err != nil {
		return "", t.err
	}
	return t.buf.String(), nil
}

func (t *Transpiler) collectClasses(program *parser.Program) {
	for _, decl := range program.Declarations {
		if class, ok := decl.(*parser.ClassDecl); ok {
			t.classes[class.Name] = class
		}
	}
}

// setErr records the first generation error; later ones are dropped.
func (t *Transpiler) setErr(format string, args ...interface{}) {
	if t.err == nil {
		t.err = &errors.GenerationError{Msg: fmt.Sprintf(format, args...)}
	}
}

// --- output helpers ---

func (t *Transpiler) writeIndent() {
	for i := 0; i < t.indentLevel; i++ {
		t.buf.WriteString("    ")
	}
}

// writeLine writes one indented line. Blank text produces a bare newline
// with no trailing spaces.
func (t *Transpiler) writeLine(text string) {
	if strings.TrimSpace(text) != "" {
		t.writeIndent()
		t.buf.WriteString(text)
	}
	t.buf.WriteByte('\n')
}

func (t *Transpiler) blankLine() {
	t.buf.WriteByte('\n')
}

func (t *Transpiler) indent() {
	t.indentLevel++
}

func (t *Transpiler) dedent() {
	if t.indentLevel > 0 {
		t.indentLevel--
	}
}

// --- program and declarations ---

func (t *Transpiler) emitProgram(program *parser.Program) {
	t.writeLine("package " + program.Package)
	t.blankLine()

	imports := make(map[string]bool)
	for _, imp := range program.Imports {
		if imp.Alias != "" {
			imports[imp.Alias+" "+`"`+imp.Path+`"`] = true
		} else {
			imports[`"`+imp.Path+`"`] = true
		}
	}
	// The standalone exception block needs fmt and errors. In project mode
	// that block lives in the shared exceptions package instead.
	if t.usesExceptions && t.mode == Standalone {
		imports[`"fmt"`] = true
		imports[`"errors"`] = true
	}

	if len(imports) > 0 {
		paths := make([]string, 0, len(imports))
		for imp := range imports {
			paths = append(paths, imp)
		}
		sort.Strings(paths)

		t.writeLine("import (")
		t.indent()
		for _, imp := range paths {
			t.writeLine(imp)
		}
		t.dedent()
		t.writeLine(")")
		t.blankLine()
	}

	if t.usesExceptions && t.mode == Standalone {
		t.emitExceptionTypes()
		t.blankLine()
	}

	for _, decl := range program.Declarations {
		t.emitDeclaration(decl)
		t.blankLine()
	}
}

// emitExceptionTypes writes the Exception interface and its default
// implementation. The "// Exception types" marker line doubles as the
// block's recognizable start for tooling.
func (t *Transpiler) emitExceptionTypes() {
	t.writeLine("// Exception types")
	t.writeLine("type Exception interface {")
	t.indent()
	t.writeLine("Error() string")
	t.writeLine("Type() string")
	t.dedent()
	t.writeLine("}")
	t.blankLine()

	t.writeLine("type BaseException struct {")
	t.indent()
	t.writeLine("message string")
	t.writeLine("exType string")
	t.dedent()
	t.writeLine("}")
	t.blankLine()

	t.writeLine("func (e *BaseException) Error() string {")
	t.indent()
	t.writeLine("return e.message")
	t.dedent()
	t.writeLine("}")
	t.blankLine()

	t.writeLine("func (e *BaseException) Type() string {")
	t.indent()
	t.writeLine("return e.exType")
	t.dedent()
	t.writeLine("}")
	t.blankLine()

	t.writeLine("func NewException(exType, message string) Exception {")
	t.indent()
	t.writeLine("return &BaseException{message: message, exType: exType}")
	t.dedent()
	t.writeLine("}")

	// Anchor the support imports so the generated file compiles even when
	// no try block ends up referencing them.
	t.blankLine()
	t.writeLine("var _ = errors.New")
	t.writeLine("var _ = fmt.Sprintf")
}

func (t *Transpiler) emitDeclaration(decl parser.Declaration) {
	switch d := decl.(type) {
	case *parser.FuncDecl:
		t.emitFuncDecl(d)
	case *parser.VarDecl:
		t.emitVarDecl(d)
	case *parser.ConstDecl:
		t.emitConstDecl(d)
	case *parser.TypeDecl:
		t.writeLine(fmt.Sprintf("type %s %s", d.Name, d.Type))
	case *parser.StructDecl:
		t.emitStructDecl(d)
	case *parser.InterfaceDecl:
		t.emitInterfaceDecl(d)
	case *parser.ClassDecl:
		t.emitClassDecl(d)
	default:
		t.setErr("unsupported declaration: %T", decl)
	}
}

func paramList(params []*parser.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

func (t *Transpiler) emitFuncDecl(decl *parser.FuncDecl) {
	params := paramList(decl.Params)
	if decl.ReturnType != "" {
		t.writeLine(fmt.Sprintf("func %s(%s) %s {", decl.Name, params, decl.ReturnType))
	} else {
		t.writeLine(fmt.Sprintf("func %s(%s) {", decl.Name, params))
	}
	t.indent()
	t.emitBlock(decl.Body)
	t.dedent()
	t.writeLine("}")
}

func (t *Transpiler) emitVarDecl(decl *parser.VarDecl) {
	switch {
	case decl.Type != "" && decl.Value != nil:
		t.writeLine(fmt.Sprintf("var %s %s = %s", decl.Name, decl.Type, t.exprString(decl.Value)))
	case decl.Type != "":
		t.writeLine(fmt.Sprintf("var %s %s", decl.Name, decl.Type))
	case decl.Value != nil:
		t.writeLine(fmt.Sprintf("var %s = %s", decl.Name, t.exprString(decl.Value)))
	default:
		t.setErr("variable %s needs a type or a value", decl.Name)
	}
}

func (t *Transpiler) emitConstDecl(decl *parser.ConstDecl) {
	value := t.exprString(decl.Value)
	if decl.Type != "" {
		t.writeLine(fmt.Sprintf("const %s %s = %s", decl.Name, decl.Type, value))
	} else {
		t.writeLine(fmt.Sprintf("const %s = %s", decl.Name, value))
	}
}

func (t *Transpiler) emitStructDecl(decl *parser.StructDecl) {
	t.writeLine(fmt.Sprintf("type %s struct {", decl.Name))
	t.indent()
	for _, field := range decl.Fields {
		t.writeLine(field.Name + " " + field.Type)
	}
	t.dedent()
	t.writeLine("}")
}

func (t *Transpiler) emitInterfaceDecl(decl *parser.InterfaceDecl) {
	t.writeLine(fmt.Sprintf("type %s interface {", decl.Name))
	t.indent()
	for _, method := range decl.Methods {
		params := paramList(method.Params)
		if method.ReturnType != "" {
			t.writeLine(fmt.Sprintf("%s(%s) %s", method.Name, params, method.ReturnType))
		} else {
			t.writeLine(fmt.Sprintf("%s(%s)", method.Name, params))
		}
	}
	t.dedent()
	t.writeLine("}")
}

// emitClassDecl lowers a class to a struct plus a NewX constructor function
// plus pointer-receiver methods. A parent class becomes an embedded field.
func (t *Transpiler) emitClassDecl(decl *parser.ClassDecl) {
	t.writeLine(fmt.Sprintf("type %s struct {", decl.Name))
	t.indent()
	if decl.Extends != "" {
		t.writeLine(decl.Extends)
	}
	for _, field := range decl.Fields {
		t.writeLine(field.Name + " " + field.Type)
	}
	t.dedent()
	t.writeLine("}")
	t.blankLine()

	if decl.Constructor != nil {
		t.emitConstructor(decl.Name, decl.Constructor, decl.Fields)
	} else {
		t.emitDefaultConstructor(decl.Name, decl.Fields)
	}
	t.blankLine()

	for _, method := range decl.Methods {
		t.emitMethod(decl.Name, method)
		t.blankLine()
	}
}

func (t *Transpiler) emitConstructor(className string, ctor *parser.ConstructorDecl, fields []*parser.ClassField) {
	t.writeLine(fmt.Sprintf("func New%s(%s) *%s {", className, paramList(ctor.Params), className))
	t.indent()

	t.writeLine(fmt.Sprintf("obj := &%s{}", className))

	// Field initializers run before the constructor body.
	for _, field := range fields {
		if field.Value != nil {
			t.writeLine(fmt.Sprintf("obj.%s = %s", field.Name, t.exprString(field.Value)))
		}
	}

	oldReceiver := t.receiver
	t.receiver = "obj"
	for _, stmt := range ctor.Body.Statements {
		t.emitStatement(stmt)
	}
	t.receiver = oldReceiver

	t.writeLine("return obj")
	t.dedent()
	t.writeLine("}")
}

func (t *Transpiler) emitDefaultConstructor(className string, fields []*parser.ClassField) {
	t.writeLine(fmt.Sprintf("func New%s() *%s {", className, className))
	t.indent()
	t.writeLine(fmt.Sprintf("obj := &%s{}", className))
	for _, field := range fields {
		if field.Value != nil {
			t.writeLine(fmt.Sprintf("obj.%s = %s", field.Name, t.exprString(field.Value)))
		}
	}
	t.writeLine("return obj")
	t.dedent()
	t.writeLine("}")
}

func (t *Transpiler) emitMethod(className string, method *parser.MethodDecl) {
	params := paramList(method.Params)
	if method.ReturnType != "" {
		t.writeLine(fmt.Sprintf("func (this *%s) %s(%s) %s {", className, method.Name, params, method.ReturnType))
	} else {
		t.writeLine(fmt.Sprintf("func (this *%s) %s(%s) {", className, method.Name, params))
	}
	t.indent()
	t.emitBlock(method.Body)
	t.dedent()
	t.writeLine("}")
}

// --- statements ---

func (t *Transpiler) emitBlock(block *parser.BlockStmt) {
	for _, stmt := range block.Statements {
		t.emitStatement(stmt)
	}
}

func (t *Transpiler) emitStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		t.writeLine("{")
		t.indent()
		t.emitBlock(s)
		t.dedent()
		t.writeLine("}")

	case *parser.ExpressionStmt:
		// super.Parent(args) in a constructor initializes the embedded
		// parent value in place.
		if call, ok := s.Expression.(*parser.CallExpr); ok {
			if sel, ok := call.Function.(*parser.SelectorExpr); ok {
				if _, ok := sel.Object.(*parser.SuperExpr); ok {
					args := t.argStrings(call.Args)
					t.writeLine(fmt.Sprintf("%s.%s = *New%s(%s)", t.receiver, sel.Field, sel.Field, args))
					return
				}
			}
		}
		t.writeLine(t.exprString(s.Expression))

	case *parser.VarStmt:
		switch {
		case s.Type != "" && s.Value != nil:
			t.writeLine(fmt.Sprintf("var %s %s = %s", s.Name, s.Type, t.exprString(s.Value)))
		case s.Type != "":
			t.writeLine(fmt.Sprintf("var %s %s", s.Name, s.Type))
		case s.Value != nil:
			t.writeLine(fmt.Sprintf("%s := %s", s.Name, t.exprString(s.Value)))
		default:
			t.setErr("variable %s needs a type or a value", s.Name)
		}

	case *parser.AssignStmt:
		t.writeLine(fmt.Sprintf("%s %s %s", t.exprString(s.Target), s.Operator, t.exprString(s.Value)))

	case *parser.IncDecStmt:
		t.writeLine(t.exprString(s.Target) + s.Operator)

	case *parser.IfStmt:
		t.writeLine(fmt.Sprintf("if %s {", t.exprString(s.Condition)))
		t.indent()
		t.emitStatement(s.Then)
		t.dedent()
		if s.Else != nil {
			t.writeLine("} else {")
			t.indent()
			t.emitStatement(s.Else)
			t.dedent()
		}
		t.writeLine("}")

	case *parser.ForStmt:
		parts := []string{"", "", ""}
		if s.Init != nil {
			parts[0] = t.stmtString(s.Init)
		}
		if s.Condition != nil {
			parts[1] = t.exprString(s.Condition)
		}
		if s.Update != nil {
			parts[2] = t.stmtString(s.Update)
		}
		t.writeLine(fmt.Sprintf("for %s {", strings.Join(parts, "; ")))
		t.indent()
		t.emitStatement(s.Body)
		t.dedent()
		t.writeLine("}")

	case *parser.RangeStmt:
		iterable := t.exprString(s.Iterable)
		switch {
		case s.Key != "" && s.Value != "":
			t.writeLine(fmt.Sprintf("for %s, %s := range %s {", s.Key, s.Value, iterable))
		case s.Key != "":
			t.writeLine(fmt.Sprintf("for %s := range %s {", s.Key, iterable))
		default:
			t.writeLine(fmt.Sprintf("for range %s {", iterable))
		}
		t.indent()
		t.emitStatement(s.Body)
		t.dedent()
		t.writeLine("}")

	case *parser.SwitchStmt:
		if s.Expression != nil {
			t.writeLine(fmt.Sprintf("switch %s {", t.exprString(s.Expression)))
		} else {
			t.writeLine("switch {")
		}
		t.indent()
		for _, c := range s.Cases {
			t.writeLine("case " + t.argStrings(c.Values) + ":")
			t.indent()
			for _, body := range c.Body {
				t.emitStatement(body)
			}
			t.dedent()
		}
		if s.Default != nil {
			t.writeLine("default:")
			t.indent()
			for _, body := range s.Default.Body {
				t.emitStatement(body)
			}
			t.dedent()
		}
		t.dedent()
		t.writeLine("}")

	case *parser.ReturnStmt:
		if s.Value != nil {
			t.writeLine("return " + t.exprString(s.Value))
		} else {
			t.writeLine("return")
		}

	case *parser.BreakStmt:
		t.writeLine("break")

	case *parser.ContinueStmt:
		t.writeLine("continue")

	case *parser.GoStmt:
		t.writeLine("go " + t.exprString(s.Call))

	case *parser.DeferStmt:
		t.writeLine("defer " + t.exprString(s.Call))

	case *parser.TryStmt:
		t.emitTryStmt(s)

	case *parser.ThrowStmt:
		t.writeLine(fmt.Sprintf("panic(%s)", t.exprString(s.Expression)))

	default:
		t.setErr("unsupported statement: %T", stmt)
	}
}

// emitTryStmt lowers try/catch/finally to an immediately invoked function.
// The catch logic lives in a deferred recover closure registered first, the
// finally body in a closure registered second; Go runs deferred calls in
// reverse order, so at an unwind the finally body runs before catch
// dispatch.
func (t *Transpiler) emitTryStmt(stmt *parser.TryStmt) {
	t.writeLine("func() {")
	t.indent()

	if len(stmt.Catches) > 0 {
		t.writeLine("defer func() {")
		t.indent()
		t.writeLine("if r := recover(); r != nil {")
		t.indent()

		// Normalize whatever was panicked into an Exception.
		t.writeLine("var ex Exception")
		t.writeLine("if e, ok := r.(Exception); ok {")
		t.indent()
		t.writeLine("ex = e")
		t.dedent()
		t.writeLine("} else {")
		t.indent()
		t.writeLine(`ex = NewException("RuntimeError", fmt.Sprintf("%v", r))`)
		t.dedent()
		t.writeLine("}")
		t.blankLine()

		// Dispatch: first matching category wins; a catch with no
		// category matches anything.
		for i, catch := range stmt.Catches {
			if i > 0 {
				t.writeLine("} else ")
			}
			if catch.ExceptionType != "" {
				t.writeLine(fmt.Sprintf("if ex.Type() == %q {", catch.ExceptionType))
			} else {
				t.writeLine("if true {")
			}
			t.indent()
			if catch.ExceptionVar != "" {
				t.writeLine(fmt.Sprintf("%s := ex", catch.ExceptionVar))
			}
			t.emitBlock(catch.Body)
			t.dedent()
		}

		t.writeLine("}")
		t.dedent()
		t.writeLine("}")
		t.dedent()
		t.writeLine("}()")
	}

	if stmt.Finally != nil {
		t.writeLine("defer func() {")
		t.indent()
		t.emitBlock(stmt.Finally.Body)
		t.dedent()
		t.writeLine("}()")
	}

	t.emitBlock(stmt.Body)

	t.dedent()
	t.writeLine("}()")
}

// stmtString renders the statement forms legal in for-loop init and update
// clauses.
func (t *Transpiler) stmtString(stmt parser.Statement) string {
	switch s := stmt.(type) {
	case *parser.VarStmt:
		switch {
		case s.Type != "" && s.Value != nil:
			return fmt.Sprintf("var %s %s = %s", s.Name, s.Type, t.exprString(s.Value))
		case s.Value != nil:
			return fmt.Sprintf("%s := %s", s.Name, t.exprString(s.Value))
		default:
			return fmt.Sprintf("var %s %s", s.Name, s.Type)
		}
	case *parser.AssignStmt:
		return fmt.Sprintf("%s %s %s", t.exprString(s.Target), s.Operator, t.exprString(s.Value))
	case *parser.IncDecStmt:
		return t.exprString(s.Target) + s.Operator
	case *parser.ExpressionStmt:
		return t.exprString(s.Expression)
	}
	t.setErr("statement not usable in a for clause: %T", stmt)
	return ""
}

// --- expressions ---

func (t *Transpiler) argStrings(args []parser.Expression) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = t.exprString(arg)
	}
	return strings.Join(parts, ", ")
}

func (t *Transpiler) exprString(expr parser.Expression) string {
	switch e := expr.(type) {
	case *parser.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", t.exprString(e.Left), e.Operator, t.exprString(e.Right))

	case *parser.UnaryExpr:
		return e.Operator + t.exprString(e.Operand)

	case *parser.CallExpr:
		return fmt.Sprintf("%s(%s)", t.exprString(e.Function), t.argStrings(e.Args))

	case *parser.IndexExpr:
		return fmt.Sprintf("%s[%s]", t.exprString(e.Object), t.exprString(e.Index))

	case *parser.SelectorExpr:
		return t.exprString(e.Object) + "." + e.Field

	case *parser.Identifier:
		return e.Name

	case *parser.Literal:
		if e.Kind == parser.LiteralString {
			return quoteString(e.Value)
		}
		return e.Value

	case *parser.NewExpr:
		return fmt.Sprintf("New%s(%s)", e.ClassName, t.argStrings(e.Args))

	case *parser.ThisExpr:
		return t.receiver

	case *parser.SuperExpr:
		// Embedding handles inheritance; a bare super reads as the
		// receiver itself.
		return t.receiver
	}

	t.setErr("unsupported expression: %T", expr)
	return ""
}

// quoteString re-escapes a decoded string literal for Go source.
func quoteString(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(value[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
