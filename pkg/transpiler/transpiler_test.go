package transpiler

import (
	"strings"
	"testing"

	"goex/pkg/lexer"
	"goex/pkg/parser"
)

func transpileSource(t *testing.T, mode Mode, input string) string {
	t.Helper()
	tokens, err := lexer.NewLexer(input).Tokenize()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	program, err := parser.NewParser(tokens).ParseProgram()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	output, err := NewTranspilerWithMode(mode).Transpile(program)
	if err != nil {
		t.Fatalf("transpiling failed: %v", err)
	}
	return output
}

func wantContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q.\noutput:\n%s", fragment, output)
		}
	}
}

func TestClassLowering(t *testing.T) {
	input := `package main

import "fmt"

class Person {
	name string
	age int = 18

	Person(name string) {
		this.name = name
	}

	func Greet() string {
		return "Hello, " + this.name
	}
}

func main() {
	p := new Person("Ana")
	fmt.Println(p.Greet())
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		"type Person struct {",
		"name string",
		"age int",
		"func NewPerson(name string) *Person {",
		"obj := &Person{}",
		"obj.age = 18",
		"obj.name = name",
		"return obj",
		"func (this *Person) Greet() string {",
		`return ("Hello, " + this.name)`,
		`p := NewPerson("Ana")`,
	)
}

func TestInheritanceLowering(t *testing.T) {
	input := `package main

class Animal {
	name string

	Animal(name string) {
		this.name = name
	}

	func Speak() string {
		return this.name
	}
}

class Dog extends Animal {
	breed string

	Dog(name string, breed string) {
		super.Animal(name)
		this.breed = breed
	}
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		"type Dog struct {\n    Animal\n",
		"func NewDog(name string, breed string) *Dog {",
		"obj.Animal = *NewAnimal(name)",
		"obj.breed = breed",
	)
}

func TestDefaultConstructor(t *testing.T) {
	input := `package main

class Counter {
	count int = 0
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		"func NewCounter() *Counter {",
		"obj := &Counter{}",
		"obj.count = 0",
		"return obj",
	)
}

func TestThrowBecomesPanic(t *testing.T) {
	input := `package main

func validate(age int) {
	if age < 0 {
		throw NewException("ValidationError", "age must not be negative")
	}
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		`panic(NewException("ValidationError", "age must not be negative"))`,
	)
}

func TestTryCatchLowering(t *testing.T) {
	input := `package main

func main() {
	try {
		risky()
	} catch (ValidationError e) {
		handle(e)
	} catch (e) {
		log(e)
	} finally {
		cleanup()
	}
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		"func() {",
		"defer func() {",
		"if r := recover(); r != nil {",
		"var ex Exception",
		"if e, ok := r.(Exception); ok {",
		`ex = NewException("RuntimeError", fmt.Sprintf("%v", r))`,
		`if ex.Type() == "ValidationError" {`,
		"e := ex",
		"if true {",
		"cleanup()",
		"risky()",
	)

	// The finally closure is registered after the catch closure, so at an
	// unwind it runs first.
	catchDefer := strings.Index(output, "if r := recover()")
	finallyDefer := strings.Index(output, "cleanup()")
	if catchDefer < 0 || finallyDefer < 0 || finallyDefer < catchDefer {
		t.Errorf("finally closure should be registered after the catch closure.\noutput:\n%s", output)
	}
}

func TestStandaloneExceptionBlock(t *testing.T) {
	input := `package main

func main() {
	throw NewException("Boom", "bang")
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		"// Exception types",
		"type Exception interface {",
		"type BaseException struct {",
		"func NewException(exType, message string) Exception {",
		`"errors"`,
		`"fmt"`,
	)
}

func TestProjectModeSuppressesExceptionBlock(t *testing.T) {
	input := `package main

func main() {
	throw NewException("Boom", "bang")
}
`
	output := transpileSource(t, Project, input)

	for _, fragment := range []string{"// Exception types", "type Exception interface", `"errors"`, `"fmt"`} {
		if strings.Contains(output, fragment) {
			t.Errorf("project mode output should not contain %q.\noutput:\n%s", fragment, output)
		}
	}
	wantContains(t, output, `panic(NewException("Boom", "bang"))`)
}

func TestImportMerge(t *testing.T) {
	input := `package main

import "strings"
import "fmt"
import str "strconv"

func main() {
	throw NewException("Boom", "bang")
}
`
	output := transpileSource(t, Standalone, input)

	importBlock := output[strings.Index(output, "import ("):strings.Index(output, ")")]
	for _, imp := range []string{`"errors"`, `"fmt"`, `"strings"`, `str "strconv"`} {
		if !strings.Contains(importBlock, imp) {
			t.Errorf("import block missing %s.\ngot:\n%s", imp, importBlock)
		}
	}
	if strings.Count(importBlock, `"fmt"`) != 1 {
		t.Errorf("fmt should appear once.\ngot:\n%s", importBlock)
	}

	lines := strings.Split(strings.TrimSpace(importBlock), "\n")[1:]
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i-1]) > strings.TrimSpace(lines[i]) {
			t.Errorf("imports not sorted:\n%s", importBlock)
		}
	}
}

func TestStatementForms(t *testing.T) {
	input := `package main

func main() {
	for i := 0; i < 3; i++ {
		use(i)
	}
	for k, v := range table {
		use(k)
		use(v)
	}
	switch n {
	case 1, 2:
		low()
	default:
		high()
	}
	go worker()
	defer shutdown()
}
`
	output := transpileSource(t, Standalone, input)

	wantContains(t, output,
		"for i := 0; (i < 3); i++ {",
		"for k, v := range table {",
		"switch n {",
		"case 1, 2:",
		"default:",
		"go worker()",
		"defer shutdown()",
	)
}

func TestStringEscaping(t *testing.T) {
	input := "package main\n\nfunc main() {\n\tprint(\"line\\nnext\\t\\\"quoted\\\"\")\n}\n"
	output := transpileSource(t, Standalone, input)
	wantContains(t, output, `print("line\nnext\t\"quoted\"")`)
}

func TestGenerationErrorOnBareVar(t *testing.T) {
	program := &parser.Program{
		Package: "main",
		Declarations: []parser.Declaration{
			&parser.VarDecl{Name: "x"},
		},
	}
	if _, err := NewTranspiler().Transpile(program); err == nil {
		t.Fatalf("expected generation error for var with neither type nor value")
	}
}

func TestUsesExceptionsDetection(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"package main\nfunc main() {\nfmt.Println(1)\n}\n", false},
		{"package main\nfunc main() {\nthrow x\n}\n", true},
		{"package main\nfunc main() {\ntry {\nf()\n}\n}\n", true},
		{"package main\nfunc main() {\nx := NewException(\"E\", \"m\")\nuse(x)\n}\n", true},
		{"package main\nclass A {\nfunc M() {\nthrow y\n}\n}\n", true},
	}

	for _, tt := range tests {
		tokens, err := lexer.NewLexer(tt.input).Tokenize()
		if err != nil {
			t.Fatalf("input %q: lexing failed: %v", tt.input, err)
		}
		program, err := parser.NewParser(tokens).ParseProgram()
		if err != nil {
			t.Fatalf("input %q: parsing failed: %v", tt.input, err)
		}
		if got := UsesExceptions(program); got != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, got, tt.want)
		}
	}
}
