package project

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goexerrors "goex/pkg/errors"
	"goex/pkg/lexer"
	"goex/pkg/parser"
	"goex/pkg/source"
	"goex/pkg/transpiler"
)

// File is one discovered source unit: its parsed program plus the package
// and import metadata the resolver orders by.
type File struct {
	Path       string // absolute path
	RelPath    string // slash-separated, relative to the project root
	Package    string
	Imports    []string // same-project imports only
	Program    *parser.Program
	Transpiled bool
}

// Manager discovers a project's source units, orders them by dependency
// and drives the generator over each one.
type Manager struct {
	Root   string
	Config *Config

	Files    map[string]*File   // rel path -> file
	Packages map[string][]*File // package name -> files

	// Graph holds an edge unit -> dependency for every same-project
	// import that some discovered unit's package satisfies.
	Graph map[string]map[string]bool

	out io.Writer
}

func NewManager(root string) *Manager {
	return &Manager{
		Root:     root,
		Files:    make(map[string]*File),
		Packages: make(map[string][]*File),
		Graph:    make(map[string]map[string]bool),
		out:      os.Stdout,
	}
}

// SetOutput redirects progress and diagnostic prints.
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

func (m *Manager) logf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format+"\n", args...)
}

func (m *Manager) loadConfig() error {
	if m.Config != nil {
		return nil
	}
	cfg, err := LoadConfig(m.Root)
	if err != nil {
		return err
	}
	m.Config = cfg
	return nil
}

// stdlibPackages is the allow-list of import roots treated as library
// imports. Anything else is assumed to name another unit's package.
var stdlibPackages = map[string]bool{
	"fmt": true, "os": true, "io": true, "net": true, "http": true,
	"json": true, "time": true, "strings": true, "strconv": true,
	"math": true, "sort": true, "sync": true, "context": true,
	"errors": true, "bufio": true, "bytes": true, "crypto": true,
	"encoding": true, "flag": true, "log": true, "path": true,
	"regexp": true, "runtime": true, "testing": true, "unicode": true,
}

func isStdlibImport(importPath string) bool {
	root := importPath
	if i := strings.IndexByte(importPath, '/'); i >= 0 {
		root = importPath[:i]
	}
	return stdlibPackages[root]
}

// DiscoverFiles walks the source directory (the project root when no
// source directory exists) and analyzes every .gox unit found. A unit that
// fails to lex or parse is reported and skipped; the rest of the project
// is unaffected.
func (m *Manager) DiscoverFiles() error {
	if err := m.loadConfig(); err != nil {
		return err
	}

	sourceDir := filepath.Join(m.Root, m.Config.SourceDir)
	if _, err := os.Stat(sourceDir); err != nil {
		sourceDir = m.Root
	}

	return filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".gox") {
			return nil
		}
		m.analyzeFile(path)
		return nil
	})
}

func (m *Manager) analyzeFile(path string) {
	src, err := source.ReadFile(path)
	if err != nil {
		m.logf("Error analyzing %s: %v", path, err)
		return
	}

	tokens, err := lexer.NewLexerWithSource(src).Tokenize()
	if err != nil {
		m.logf("Error analyzing %s: %v", path, err)
		return
	}
	program, err := parser.NewParserWithSource(tokens, src).ParseProgram()
	if err != nil {
		m.logf("Error analyzing %s: %v", path, err)
		return
	}

	var localImports []string
	for _, imp := range program.Imports {
		if !isStdlibImport(imp.Path) {
			localImports = append(localImports, imp.Path)
		}
	}

	rel, err := filepath.Rel(m.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	file := &File{
		Path:    path,
		RelPath: rel,
		Package: program.Package,
		Imports: localImports,
		Program: program,
	}
	m.Files[rel] = file
	m.Packages[program.Package] = append(m.Packages[program.Package], file)
}

// BuildDependencyGraph links every unit to the units whose package it
// imports.
func (m *Manager) BuildDependencyGraph() {
	m.Graph = make(map[string]map[string]bool)

	for rel, file := range m.Files {
		deps := make(map[string]bool)
		for _, importPath := range file.Imports {
			for otherRel, other := range m.Files {
				if other.Package == importPath {
					deps[otherRel] = true
				}
			}
		}
		m.Graph[rel] = deps
	}
}

// TranspileOrder returns the units in dependency order, dependencies
// first. A dependency cycle aborts with a CycleError naming the unit where
// it was detected.
func (m *Manager) TranspileOrder() ([]string, error) {
	visited := make(map[string]bool)
	inProgress := make(map[string]bool)
	var order []string

	var visit func(rel string) error
	visit = func(rel string) error {
		if inProgress[rel] {
			return &goexerrors.CycleError{
				Unit: rel,
				Msg:  fmt.Sprintf("circular dependency detected involving %s", rel),
			}
		}
		if visited[rel] {
			return nil
		}

		inProgress[rel] = true
		for _, dep := range sortedKeys(m.Graph[rel]) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(inProgress, rel)

		visited[rel] = true
		order = append(order, rel)
		return nil
	}

	for _, rel := range sortedFileKeys(m.Files) {
		if err := visit(rel); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFileKeys(files map[string]*File) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UsesExceptionsAnywhere reports whether any discovered unit uses the
// exception machinery. The answer decides whether the shared exceptions
// module is generated.
func (m *Manager) UsesExceptionsAnywhere() bool {
	for _, file := range m.Files {
		if transpiler.UsesExceptions(file.Program) {
			return true
		}
	}
	return false
}

// TranspileProject builds the whole project into the configured output
// directory: units in dependency order, one shared exceptions module when
// needed, and a go.mod for the generated tree. A cycle produces no output
// files at all.
func (m *Manager) TranspileProject() error {
	if err := m.loadConfig(); err != nil {
		return err
	}
	m.logf("Transpiling project: %s", m.Config.Name)

	if err := m.DiscoverFiles(); err != nil {
		return err
	}
	m.logf("Found %d .gox files", len(m.Files))

	m.BuildDependencyGraph()

	order, err := m.TranspileOrder()
	if err != nil {
		return err
	}

	outputDir := filepath.Join(m.Root, m.Config.OutputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	globalExceptions := m.UsesExceptionsAnywhere()
	if globalExceptions {
		if err := m.generateExceptionsFile(outputDir); err != nil {
			return err
		}
	}

	for _, rel := range order {
		file := m.Files[rel]
		m.logf("Transpiling %s (package %s)", rel, file.Package)

		// Units that use exceptions pull them from the shared module.
		if globalExceptions && transpiler.UsesExceptions(file.Program) {
			file.Program.Imports = append(file.Program.Imports, &parser.ImportDecl{
				Path: m.Config.GoModName + "/exceptions",
			})
		}

		goCode, err := transpiler.NewTranspilerWithMode(transpiler.Project).Transpile(file.Program)
		if err != nil {
			return err
		}

		outputPath := filepath.Join(outputDir, filepath.FromSlash(strings.TrimSuffix(rel, ".gox")+".go"))
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, []byte(goCode), 0o644); err != nil {
			return err
		}

		file.Transpiled = true
		m.logf("Generated: %s -> %s", rel, outputPath)
	}

	if err := m.generateGoMod(outputDir); err != nil {
		return err
	}

	m.logf("Project successfully transpiled to %s", outputDir)
	return nil
}

const exceptionsModule = `package exceptions

import (
    "errors"
    "fmt"
)

// Exception types
type Exception interface {
    Error() string
    Type() string
}

type BaseException struct {
    message string
    exType string
}

func (e *BaseException) Error() string {
    return e.message
}

func (e *BaseException) Type() string {
    return e.exType
}

func NewException(exType, message string) Exception {
    return &BaseException{message: message, exType: exType}
}

var _ = errors.New
var _ = fmt.Sprintf
`

func (m *Manager) generateExceptionsFile(outputDir string) error {
	exceptionsDir := filepath.Join(outputDir, "exceptions")
	if err := os.MkdirAll(exceptionsDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(exceptionsDir, "exceptions.go")
	if err := os.WriteFile(path, []byte(exceptionsModule), 0o644); err != nil {
		return err
	}
	m.logf("Generated exceptions file: %s", path)
	return nil
}

func (m *Manager) generateGoMod(outputDir string) error {
	path := filepath.Join(outputDir, "go.mod")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := fmt.Sprintf("module %s\n\ngo 1.19\n", m.Config.GoModName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	m.logf("Generated %s", path)
	return nil
}

// ShowInfo prints the project layout: files, packages and the dependency
// edges the resolver found.
func (m *Manager) ShowInfo() error {
	if err := m.loadConfig(); err != nil {
		return err
	}
	if err := m.DiscoverFiles(); err != nil {
		return err
	}
	m.BuildDependencyGraph()

	m.logf("Project Information: %s", m.Config.Name)
	m.logf("%s", strings.Repeat("=", 50))
	m.logf("Version: %s", m.Config.Version)
	m.logf("Main package: %s", m.Config.MainPackage)
	m.logf("Source directory: %s", m.Config.SourceDir)
	m.logf("Output directory: %s", m.Config.OutputDir)
	m.logf("Go module: %s", m.Config.GoModName)
	m.logf("")

	m.logf("Files:")
	for _, rel := range sortedFileKeys(m.Files) {
		file := m.Files[rel]
		m.logf("  %s (package %s)", rel, file.Package)
		if len(file.Imports) > 0 {
			m.logf("    Imports: %s", strings.Join(file.Imports, ", "))
		}
	}
	m.logf("")

	m.logf("Packages:")
	pkgs := make([]string, 0, len(m.Packages))
	for pkg := range m.Packages {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	for _, pkg := range pkgs {
		m.logf("  %s: %d file(s)", pkg, len(m.Packages[pkg]))
	}
	m.logf("")

	m.logf("Dependencies:")
	for _, rel := range sortedFileKeys(m.Files) {
		deps := sortedKeys(m.Graph[rel])
		if len(deps) > 0 {
			m.logf("  %s -> %s", rel, strings.Join(deps, ", "))
		}
	}
	return nil
}

const exampleUnit = `package main

import "fmt"

class HelloWorld {
    message string = "Hello, goex!"

    func SayHello() {
        fmt.Println(this.message)
    }
}

func main() {
    hello := new HelloWorld()
    hello.SayHello()
}
`

// InitProject scaffolds a fresh project: source and output directories,
// a manifest, and an example unit.
func (m *Manager) InitProject(name, goMod string) error {
	if goMod == "" {
		goMod = "github.com/user/" + name
	}

	m.Config = DefaultConfig(name)
	m.Config.GoModName = goMod

	if err := os.MkdirAll(filepath.Join(m.Root, m.Config.SourceDir), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(m.Root, m.Config.OutputDir), 0o755); err != nil {
		return err
	}
	if err := m.Config.Save(m.Root); err != nil {
		return err
	}

	examplePath := filepath.Join(m.Root, m.Config.SourceDir, "main.gox")
	if _, err := os.Stat(examplePath); os.IsNotExist(err) {
		if err := os.WriteFile(examplePath, []byte(exampleUnit), 0o644); err != nil {
			return err
		}
		m.logf("Example file created: %s", examplePath)
	}

	m.logf("Project '%s' initialized in %s", name, m.Root)
	m.logf("Configuration saved in: %s", ConfigFileName)
	return nil
}
