package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goex/pkg/errors"
	"goex/pkg/source"
)

func TestTranspileSource(t *testing.T) {
	src := source.NewEvalSource(`package main

import "fmt"

class Greeter {
	name string

	Greeter(name string) {
		this.name = name
	}

	func Hello() {
		fmt.Println("Hello, " + this.name)
	}
}

func main() {
	g := new Greeter("world")
	g.Hello()
}
`)

	output, err := TranspileSource(src)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	for _, fragment := range []string{
		"type Greeter struct {",
		"func NewGreeter(name string) *Greeter {",
		`g := NewGreeter("world")`,
	} {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, output)
		}
	}
}

func TestTranspileSourceErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  string
	}{
		{"lexical", "package main\nfunc main() {\nx := \"unclosed\n}\n", "Lexical"},
		{"syntax", "package main\nfunc main() {\nif {\n}\n", "Syntax"},
	}

	for _, tt := range tests {
		_, err := TranspileSource(source.NewEvalSource(tt.input))
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		goexErr, ok := err.(errors.GoexError)
		if !ok {
			t.Fatalf("%s: expected GoexError. got=%T: %v", tt.name, err, err)
		}
		if goexErr.Kind() != tt.kind {
			t.Errorf("%s: kind=%q, want %q", tt.name, goexErr.Kind(), tt.kind)
		}
	}
}

func TestTranspileFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "hello.gox")
	input := "package main\n\nfunc main() {\n}\n"
	if err := os.WriteFile(inputPath, []byte(input), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	outputPath, err := TranspileFile(inputPath, "")
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	if outputPath != filepath.Join(dir, "hello.go") {
		t.Errorf("derived output path wrong: %s", outputPath)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(content), "package main") {
		t.Errorf("output wrong:\n%s", content)
	}
}

func TestTranspileIdempotence(t *testing.T) {
	input := `package main

func main() {
	try {
		risky()
	} catch (e) {
		log(e)
	}
}
`
	first, err := TranspileSource(source.NewEvalSource(input))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := TranspileSource(source.NewEvalSource(input))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if first != second {
		t.Errorf("output not byte-identical across runs")
	}
}
