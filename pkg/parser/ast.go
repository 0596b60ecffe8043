package parser

import (
	"bytes"
	"strings"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	String() string // Returns a string representation of the node (for debugging)
}

// Declaration represents a top-level declaration node in the AST.
type Declaration interface {
	Node
	declarationNode() // Dummy method for distinguishing declaration types
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode() // Dummy method for distinguishing statement types
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode() // Dummy method for distinguishing expression types
}

// --- Program Node ---

// Program is the root node of one translation unit.
type Program struct {
	Package      string
	Imports      []*ImportDecl
	Declarations []Declaration
}

func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("package " + p.Package + "\n")
	for _, imp := range p.Imports {
		out.WriteString(imp.String() + "\n")
	}
	for _, d := range p.Declarations {
		out.WriteString(d.String() + "\n")
	}
	return out.String()
}

// ImportDecl represents one import clause.
type ImportDecl struct {
	Path  string
	Alias string // Optional alias, empty when absent
}

func (id *ImportDecl) String() string {
	if id.Alias != "" {
		return "import " + id.Alias + " \"" + id.Path + "\""
	}
	return "import \"" + id.Path + "\""
}

// --- Declaration Nodes ---

// Parameter is one name/type pair in a function, method, or constructor
// signature.
type Parameter struct {
	Name string
	Type string
}

func (p *Parameter) String() string { return p.Name + " " + p.Type }

func paramList(params []*Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// FuncDecl represents a top-level function declaration.
type FuncDecl struct {
	Name       string
	Params     []*Parameter
	ReturnType string // Empty when the function returns nothing
	Body       *BlockStmt
}

func (fd *FuncDecl) declarationNode() {}
func (fd *FuncDecl) String() string {
	var out bytes.Buffer
	out.WriteString("func " + fd.Name + "(" + paramList(fd.Params) + ")")
	if fd.ReturnType != "" {
		out.WriteString(" " + fd.ReturnType)
	}
	out.WriteString(" " + fd.Body.String())
	return out.String()
}

// VarDecl represents a top-level variable declaration.
type VarDecl struct {
	Name  string
	Type  string // Empty when inferred from Value
	Value Expression
}

func (vd *VarDecl) declarationNode() {}
func (vd *VarDecl) String() string {
	var out bytes.Buffer
	out.WriteString("var " + vd.Name)
	if vd.Type != "" {
		out.WriteString(" " + vd.Type)
	}
	if vd.Value != nil {
		out.WriteString(" = " + vd.Value.String())
	}
	return out.String()
}

// ConstDecl represents a top-level constant declaration.
type ConstDecl struct {
	Name  string
	Type  string // Empty when inferred from Value
	Value Expression
}

func (cd *ConstDecl) declarationNode() {}
func (cd *ConstDecl) String() string {
	var out bytes.Buffer
	out.WriteString("const " + cd.Name)
	if cd.Type != "" {
		out.WriteString(" " + cd.Type)
	}
	out.WriteString(" = " + cd.Value.String())
	return out.String()
}

// TypeDecl represents a type alias declaration.
type TypeDecl struct {
	Name string
	Type string
}

func (td *TypeDecl) declarationNode() {}
func (td *TypeDecl) String() string   { return "type " + td.Name + " " + td.Type }

// StructField is one field of a struct declaration.
type StructField struct {
	Name string
	Type string
}

func (sf *StructField) String() string { return sf.Name + " " + sf.Type }

// StructDecl represents a struct declaration.
type StructDecl struct {
	Name   string
	Fields []*StructField
}

func (sd *StructDecl) declarationNode() {}
func (sd *StructDecl) String() string {
	var out bytes.Buffer
	out.WriteString("struct " + sd.Name + " {\n")
	for _, f := range sd.Fields {
		out.WriteString("  " + f.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// MethodSignature is one method of an interface declaration.
type MethodSignature struct {
	Name       string
	Params     []*Parameter
	ReturnType string
}

func (ms *MethodSignature) String() string {
	s := ms.Name + "(" + paramList(ms.Params) + ")"
	if ms.ReturnType != "" {
		s += " " + ms.ReturnType
	}
	return s
}

// InterfaceDecl represents an interface declaration.
type InterfaceDecl struct {
	Name    string
	Methods []*MethodSignature
}

func (id *InterfaceDecl) declarationNode() {}
func (id *InterfaceDecl) String() string {
	var out bytes.Buffer
	out.WriteString("interface " + id.Name + " {\n")
	for _, m := range id.Methods {
		out.WriteString("  " + m.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// --- Class Extension Nodes ---

// ClassField is one field of a class, optionally with an initializer applied
// by the generated constructor.
type ClassField struct {
	Name  string
	Type  string
	Value Expression // Optional initializer
}

func (cf *ClassField) String() string {
	s := cf.Name + " " + cf.Type
	if cf.Value != nil {
		s += " = " + cf.Value.String()
	}
	return s
}

// MethodDecl is one method of a class.
type MethodDecl struct {
	Name       string
	Params     []*Parameter
	ReturnType string
	Body       *BlockStmt
}

func (md *MethodDecl) String() string {
	var out bytes.Buffer
	out.WriteString("func " + md.Name + "(" + paramList(md.Params) + ")")
	if md.ReturnType != "" {
		out.WriteString(" " + md.ReturnType)
	}
	out.WriteString(" " + md.Body.String())
	return out.String()
}

// ConstructorDecl is the optional constructor of a class, written as a
// method literally named after the class.
type ConstructorDecl struct {
	Params []*Parameter
	Body   *BlockStmt
}

func (cd *ConstructorDecl) String() string {
	return "constructor(" + paramList(cd.Params) + ") " + cd.Body.String()
}

// ClassDecl represents a class declaration. Extends, when non-empty, names a
// parent class resolved at emission time.
type ClassDecl struct {
	Name        string
	Extends     string // Optional parent class name
	Fields      []*ClassField
	Methods     []*MethodDecl
	Constructor *ConstructorDecl // Optional
}

func (cd *ClassDecl) declarationNode() {}
func (cd *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class " + cd.Name)
	if cd.Extends != "" {
		out.WriteString(" extends " + cd.Extends)
	}
	out.WriteString(" {\n")
	for _, f := range cd.Fields {
		out.WriteString("  " + f.String() + "\n")
	}
	if cd.Constructor != nil {
		out.WriteString("  " + cd.Constructor.String() + "\n")
	}
	for _, m := range cd.Methods {
		out.WriteString("  " + m.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// --- Statement Nodes ---

// BlockStmt represents a brace-delimited sequence of statements.
type BlockStmt struct {
	Statements []Statement
}

func (bs *BlockStmt) statementNode() {}
func (bs *BlockStmt) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range bs.Statements {
		out.WriteString(s.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// ExpressionStmt wraps an expression used in statement position.
type ExpressionStmt struct {
	Expression Expression
}

func (es *ExpressionStmt) statementNode() {}
func (es *ExpressionStmt) String() string { return es.Expression.String() }

// VarStmt represents a var declaration inside a function body.
type VarStmt struct {
	Name  string
	Type  string // Empty when inferred from Value
	Value Expression
}

func (vs *VarStmt) statementNode() {}
func (vs *VarStmt) String() string {
	var out bytes.Buffer
	out.WriteString("var " + vs.Name)
	if vs.Type != "" {
		out.WriteString(" " + vs.Type)
	}
	if vs.Value != nil {
		out.WriteString(" = " + vs.Value.String())
	}
	return out.String()
}

// AssignStmt represents an assignment; Operator records the literal spelling
// (=, :=, +=, -=, *=, /=, %=).
type AssignStmt struct {
	Target   Expression
	Value    Expression
	Operator string
}

func (as *AssignStmt) statementNode() {}
func (as *AssignStmt) String() string {
	return as.Target.String() + " " + as.Operator + " " + as.Value.String()
}

// IncDecStmt represents a postfix increment or decrement statement.
type IncDecStmt struct {
	Target   Expression
	Operator string // "++" or "--"
}

func (ids *IncDecStmt) statementNode() {}
func (ids *IncDecStmt) String() string { return ids.Target.String() + ids.Operator }

// IfStmt represents an if statement with an optional else branch.
type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement // Optional
}

func (is *IfStmt) statementNode() {}
func (is *IfStmt) String() string {
	var out bytes.Buffer
	out.WriteString("if " + is.Condition.String() + " " + is.Then.String())
	if is.Else != nil {
		out.WriteString(" else " + is.Else.String())
	}
	return out.String()
}

// ForStmt represents the three-clause counted for form. All three clauses
// are optional.
type ForStmt struct {
	Init      Statement
	Condition Expression
	Update    Statement
	Body      Statement
}

func (fs *ForStmt) statementNode() {}
func (fs *ForStmt) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	if fs.Init != nil {
		out.WriteString(fs.Init.String())
	}
	out.WriteString("; ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(fs.Update.String())
	}
	out.WriteString(" " + fs.Body.String())
	return out.String()
}

// RangeStmt represents the ranged iteration form, binding one or two names
// to successive elements of a collection.
type RangeStmt struct {
	Key      string // Optional
	Value    string // Optional, only meaningful with Key
	Iterable Expression
	Body     Statement
}

func (rs *RangeStmt) statementNode() {}
func (rs *RangeStmt) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	if rs.Key != "" {
		out.WriteString(rs.Key)
		if rs.Value != "" {
			out.WriteString(", " + rs.Value)
		}
		out.WriteString(" := ")
	}
	out.WriteString("range " + rs.Iterable.String() + " " + rs.Body.String())
	return out.String()
}

// CaseStmt is one case clause of a switch statement.
type CaseStmt struct {
	Values []Expression
	Body   []Statement
}

func (cs *CaseStmt) statementNode() {}
func (cs *CaseStmt) String() string {
	var out bytes.Buffer
	parts := make([]string, len(cs.Values))
	for i, v := range cs.Values {
		parts[i] = v.String()
	}
	out.WriteString("case " + strings.Join(parts, ", ") + ":")
	for _, s := range cs.Body {
		out.WriteString("\n" + s.String())
	}
	return out.String()
}

// DefaultStmt is the default clause of a switch statement.
type DefaultStmt struct {
	Body []Statement
}

func (ds *DefaultStmt) statementNode() {}
func (ds *DefaultStmt) String() string {
	var out bytes.Buffer
	out.WriteString("default:")
	for _, s := range ds.Body {
		out.WriteString("\n" + s.String())
	}
	return out.String()
}

// SwitchStmt represents a switch statement with an optional subject
// expression.
type SwitchStmt struct {
	Expression Expression // Optional
	Cases      []*CaseStmt
	Default    *DefaultStmt // Optional
}

func (ss *SwitchStmt) statementNode() {}
func (ss *SwitchStmt) String() string {
	var out bytes.Buffer
	out.WriteString("switch")
	if ss.Expression != nil {
		out.WriteString(" " + ss.Expression.String())
	}
	out.WriteString(" {\n")
	for _, c := range ss.Cases {
		out.WriteString(c.String() + "\n")
	}
	if ss.Default != nil {
		out.WriteString(ss.Default.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// ReturnStmt represents a return with an optional value.
type ReturnStmt struct {
	Value Expression // Optional
}

func (rs *ReturnStmt) statementNode() {}
func (rs *ReturnStmt) String() string {
	if rs.Value != nil {
		return "return " + rs.Value.String()
	}
	return "return"
}

// BreakStmt represents a break statement.
type BreakStmt struct{}

func (bs *BreakStmt) statementNode() {}
func (bs *BreakStmt) String() string { return "break" }

// ContinueStmt represents a continue statement.
type ContinueStmt struct{}

func (cs *ContinueStmt) statementNode() {}
func (cs *ContinueStmt) String() string { return "continue" }

// GoStmt represents a goroutine launch.
type GoStmt struct {
	Call *CallExpr
}

func (gs *GoStmt) statementNode() {}
func (gs *GoStmt) String() string { return "go " + gs.Call.String() }

// DeferStmt represents a deferred call.
type DeferStmt struct {
	Call *CallExpr
}

func (ds *DeferStmt) statementNode() {}
func (ds *DeferStmt) String() string { return "defer " + ds.Call.String() }

// --- Exception Extension Statements ---

// CatchStmt is one catch clause of a try statement. An empty ExceptionType
// matches any exception and is only meaningful as the last clause.
type CatchStmt struct {
	ExceptionType string // Optional category to match
	ExceptionVar  string // Optional binding for the caught exception
	Body          *BlockStmt
}

func (cs *CatchStmt) statementNode() {}
func (cs *CatchStmt) String() string {
	var out bytes.Buffer
	out.WriteString("catch")
	if cs.ExceptionType != "" || cs.ExceptionVar != "" {
		out.WriteString(" (")
		if cs.ExceptionType != "" {
			out.WriteString(cs.ExceptionType)
			if cs.ExceptionVar != "" {
				out.WriteString(" ")
			}
		}
		out.WriteString(cs.ExceptionVar + ")")
	}
	out.WriteString(" " + cs.Body.String())
	return out.String()
}

// FinallyStmt is the optional finally clause of a try statement.
type FinallyStmt struct {
	Body *BlockStmt
}

func (fs *FinallyStmt) statementNode() {}
func (fs *FinallyStmt) String() string { return "finally " + fs.Body.String() }

// TryStmt represents a try statement with catch clauses and an optional
// finally clause.
type TryStmt struct {
	Body    *BlockStmt
	Catches []*CatchStmt
	Finally *FinallyStmt // Optional
}

func (ts *TryStmt) statementNode() {}
func (ts *TryStmt) String() string {
	var out bytes.Buffer
	out.WriteString("try " + ts.Body.String())
	for _, c := range ts.Catches {
		out.WriteString(" " + c.String())
	}
	if ts.Finally != nil {
		out.WriteString(" " + ts.Finally.String())
	}
	return out.String()
}

// ThrowStmt raises an exception value.
type ThrowStmt struct {
	Expression Expression
}

func (ts *ThrowStmt) statementNode() {}
func (ts *ThrowStmt) String() string { return "throw " + ts.Expression.String() }

// --- Expression Nodes ---

// BinaryExpr records the literal operator spelling for direct re-emission.
type BinaryExpr struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpr) expressionNode() {}
func (be *BinaryExpr) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// UnaryExpr records the literal operator spelling for direct re-emission.
type UnaryExpr struct {
	Operator string
	Operand  Expression
}

func (ue *UnaryExpr) expressionNode() {}
func (ue *UnaryExpr) String() string  { return ue.Operator + ue.Operand.String() }

// CallExpr represents a function or method call.
type CallExpr struct {
	Function Expression
	Args     []Expression
}

func (ce *CallExpr) expressionNode() {}
func (ce *CallExpr) String() string {
	parts := make([]string, len(ce.Args))
	for i, a := range ce.Args {
		parts[i] = a.String()
	}
	return ce.Function.String() + "(" + strings.Join(parts, ", ") + ")"
}

// IndexExpr represents array/slice/map index access.
type IndexExpr struct {
	Object Expression
	Index  Expression
}

func (ie *IndexExpr) expressionNode() {}
func (ie *IndexExpr) String() string  { return ie.Object.String() + "[" + ie.Index.String() + "]" }

// SelectorExpr represents field or method selection (obj.field).
type SelectorExpr struct {
	Object Expression
	Field  string
}

func (se *SelectorExpr) expressionNode() {}
func (se *SelectorExpr) String() string  { return se.Object.String() + "." + se.Field }

// Identifier represents a bare name.
type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

// Literal kinds, recorded so the generator can re-emit the value with the
// right quoting.
const (
	LiteralInt    = "int"
	LiteralFloat  = "float"
	LiteralString = "string"
	LiteralBool   = "bool"
)

// Literal represents a number, string, or boolean literal. Value holds the
// raw digits for numbers, the unescaped content for strings, and "true" or
// "false" for booleans.
type Literal struct {
	Value string
	Kind  string
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string {
	if l.Kind == LiteralString {
		return "\"" + l.Value + "\""
	}
	return l.Value
}

// ArrayLiteral represents a typed array/slice literal.
type ArrayLiteral struct {
	Type     string // Optional element type
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode() {}
func (al *ArrayLiteral) String() string {
	parts := make([]string, len(al.Elements))
	for i, e := range al.Elements {
		parts[i] = e.String()
	}
	return "[]" + al.Type + "{" + strings.Join(parts, ", ") + "}"
}

// MapEntry is one key/value pair of a map literal.
type MapEntry struct {
	Key   Expression
	Value Expression
}

// MapLiteral represents a typed map literal.
type MapLiteral struct {
	KeyType   string // Optional
	ValueType string // Optional
	Entries   []MapEntry
}

func (ml *MapLiteral) expressionNode() {}
func (ml *MapLiteral) String() string {
	parts := make([]string, len(ml.Entries))
	for i, e := range ml.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "map[" + ml.KeyType + "]" + ml.ValueType + "{" + strings.Join(parts, ", ") + "}"
}

// StructEntry is one field/value pair of a struct literal.
type StructEntry struct {
	Name  string
	Value Expression
}

// StructLiteral represents a struct composite literal.
type StructLiteral struct {
	Type   string
	Fields []StructEntry
}

func (sl *StructLiteral) expressionNode() {}
func (sl *StructLiteral) String() string {
	parts := make([]string, len(sl.Fields))
	for i, f := range sl.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return sl.Type + "{" + strings.Join(parts, ", ") + "}"
}

// NewExpr represents instantiation of a class via the new keyword.
type NewExpr struct {
	ClassName string
	Args      []Expression
}

func (ne *NewExpr) expressionNode() {}
func (ne *NewExpr) String() string {
	parts := make([]string, len(ne.Args))
	for i, a := range ne.Args {
		parts[i] = a.String()
	}
	return "new " + ne.ClassName + "(" + strings.Join(parts, ", ") + ")"
}

// ThisExpr refers to the active receiver inside a method or constructor.
type ThisExpr struct{}

func (te *ThisExpr) expressionNode() {}
func (te *ThisExpr) String() string  { return "this" }

// SuperExpr refers to the parent class inside a method or constructor.
type SuperExpr struct{}

func (se *SuperExpr) expressionNode() {}
func (se *SuperExpr) String() string  { return "super" }
