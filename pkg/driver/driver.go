// Package driver ties the pipeline together: lex, parse, generate, and
// write output, for single files and for whole projects.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"goex/pkg/errors"
	"goex/pkg/lexer"
	"goex/pkg/parser"
	"goex/pkg/project"
	"goex/pkg/source"
	"goex/pkg/transpiler"
)

// TranspileSource runs the standalone pipeline over in-memory source text
// and returns the generated Go code.
func TranspileSource(src *source.SourceFile) (string, error) {
	tokens, err := lexer.NewLexerWithSource(src).Tokenize()
	if err != nil {
		return "", err
	}

	program, err := parser.NewParserWithSource(tokens, src).ParseProgram()
	if err != nil {
		return "", err
	}

	return transpiler.NewTranspiler().Transpile(program)
}

// ParseSource stops the pipeline after parsing. Used by AST dumping and
// the REPL.
func ParseSource(src *source.SourceFile) (*parser.Program, error) {
	tokens, err := lexer.NewLexerWithSource(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return parser.NewParserWithSource(tokens, src).ParseProgram()
}

// TranspileFile transpiles one .gox file to outputPath. An empty
// outputPath derives the name from the input by swapping the extension
// for .go.
func TranspileFile(inputPath, outputPath string) (string, error) {
	src, err := source.ReadFile(inputPath)
	if err != nil {
		return "", err
	}

	goCode, err := TranspileSource(src)
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".go"
	}
	if err := os.WriteFile(outputPath, []byte(goCode), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// BuildProject transpiles the project rooted at root.
func BuildProject(root string) error {
	return project.NewManager(root).TranspileProject()
}

// RunProject builds the project, then locates the generated main unit and
// executes it with the Go toolchain.
func RunProject(root string) error {
	m := project.NewManager(root)
	if err := m.TranspileProject(); err != nil {
		return err
	}

	buildDir := filepath.Join(root, m.Config.OutputDir)
	mainFile, err := findMainFile(buildDir)
	if err != nil {
		return err
	}

	fmt.Printf("Running %s...\n", mainFile)
	cmd := exec.Command("go", "run", filepath.Base(mainFile))
	cmd.Dir = filepath.Dir(mainFile)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// findMainFile scans the build tree for the unit declaring package main
// with a main function.
func findMainFile(buildDir string) (string, error) {
	var mainFile string
	err := filepath.Walk(buildDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".go") || mainFile != "" {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text := string(content)
		if strings.Contains(text, "package main") && strings.Contains(text, "func main()") {
			mainFile = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if mainFile == "" {
		return "", fmt.Errorf("main file not found under %s", buildDir)
	}
	return mainFile, nil
}

// ShowProjectInfo prints the project layout for root.
func ShowProjectInfo(root string) error {
	return project.NewManager(root).ShowInfo()
}

// Report prints any pipeline error with source context when available.
func Report(err error) {
	if goexErr, ok := err.(errors.GoexError); ok {
		errors.DisplayErrors([]errors.GoexError{goexErr})
		return
	}
	errors.DisplayError(err)
}
