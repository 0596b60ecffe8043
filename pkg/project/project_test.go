package project

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goexerrors "goex/pkg/errors"
)

func writeUnit(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func newTestManager(t *testing.T, root string) *Manager {
	t.Helper()
	m := NewManager(root)
	m.SetOutput(io.Discard)
	return m
}

func TestDependencyOrdering(t *testing.T) {
	root := t.TempDir()
	writeUnit(t, root, "src/a.gox", "package apkg\n\nimport \"bpkg\"\n\nfunc A() {\nB()\n}\n")
	writeUnit(t, root, "src/b.gox", "package bpkg\n\nimport \"cpkg\"\n\nfunc B() {\nC()\n}\n")
	writeUnit(t, root, "src/c.gox", "package cpkg\n\nfunc C() {\n}\n")

	m := newTestManager(t, root)
	if err := m.DiscoverFiles(); err != nil {
		t.Fatalf("discover: %v", err)
	}
	m.BuildDependencyGraph()

	order, err := m.TranspileOrder()
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	pos := make(map[string]int)
	for i, rel := range order {
		pos[rel] = i
	}
	if !(pos["src/c.gox"] < pos["src/b.gox"] && pos["src/b.gox"] < pos["src/a.gox"]) {
		t.Errorf("wrong order: %v", order)
	}
}

func TestCycleAbortsBuild(t *testing.T) {
	root := t.TempDir()
	writeUnit(t, root, "src/a.gox", "package apkg\n\nimport \"bpkg\"\n\nfunc A() {\n}\n")
	writeUnit(t, root, "src/b.gox", "package bpkg\n\nimport \"apkg\"\n\nfunc B() {\n}\n")

	m := newTestManager(t, root)
	err := m.TranspileProject()
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if _, ok := err.(*goexerrors.CycleError); !ok {
		t.Fatalf("expected *CycleError. got=%T: %v", err, err)
	}

	// No partial output on a cycle.
	buildDir := filepath.Join(root, "build")
	var emitted []string
	filepath.Walk(buildDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && info != nil && !info.IsDir() && strings.HasSuffix(path, ".go") {
			emitted = append(emitted, path)
		}
		return nil
	})
	if len(emitted) > 0 {
		t.Errorf("cycle should emit nothing. got=%v", emitted)
	}
}

func TestMalformedUnitIsDropped(t *testing.T) {
	root := t.TempDir()
	writeUnit(t, root, "src/good.gox", "package main\n\nfunc main() {\n}\n")
	writeUnit(t, root, "src/bad.gox", "package broken\n\nclass {\n")

	m := newTestManager(t, root)
	if err := m.DiscoverFiles(); err != nil {
		t.Fatalf("discover: %v", err)
	}

	if len(m.Files) != 1 {
		t.Fatalf("expected 1 surviving unit. got=%d", len(m.Files))
	}
	if _, ok := m.Files["src/good.gox"]; !ok {
		t.Errorf("good unit missing from %v", m.Files)
	}
}

func TestProjectBuildWithExceptions(t *testing.T) {
	root := t.TempDir()
	writeUnit(t, root, "src/main.gox", `package main

import "fmt"

func main() {
	try {
		risky()
	} catch (e) {
		fmt.Println(e.Error())
	}
}

func risky() {
	throw NewException("Boom", "bang")
}
`)

	m := newTestManager(t, root)
	if err := m.TranspileProject(); err != nil {
		t.Fatalf("build: %v", err)
	}

	mainGo, err := os.ReadFile(filepath.Join(root, "build", "src", "main.go"))
	if err != nil {
		t.Fatalf("output unit missing: %v", err)
	}
	output := string(mainGo)

	if strings.Contains(output, "// Exception types") {
		t.Errorf("unit should not carry a local exception block:\n%s", output)
	}
	if !strings.Contains(output, `"github.com/user/`+filepath.Base(root)+`/exceptions"`) {
		t.Errorf("unit should import the shared exceptions module:\n%s", output)
	}
	if !strings.Contains(output, `panic(NewException("Boom", "bang"))`) {
		t.Errorf("throw not lowered:\n%s", output)
	}

	shared, err := os.ReadFile(filepath.Join(root, "build", "exceptions", "exceptions.go"))
	if err != nil {
		t.Fatalf("shared exceptions module missing: %v", err)
	}
	if !strings.Contains(string(shared), "func NewException(exType, message string) Exception {") {
		t.Errorf("shared module incomplete:\n%s", shared)
	}

	goMod, err := os.ReadFile(filepath.Join(root, "build", "go.mod"))
	if err != nil {
		t.Fatalf("go.mod missing: %v", err)
	}
	if !strings.Contains(string(goMod), "module github.com/user/") {
		t.Errorf("go.mod wrong:\n%s", goMod)
	}
}

func TestProjectBuildWithoutExceptions(t *testing.T) {
	root := t.TempDir()
	writeUnit(t, root, "src/main.gox", "package main\n\nfunc main() {\n}\n")

	m := newTestManager(t, root)
	if err := m.TranspileProject(); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "build", "exceptions")); !os.IsNotExist(err) {
		t.Errorf("exceptions module should not be generated")
	}
}

func TestInitProject(t *testing.T) {
	root := t.TempDir()

	m := newTestManager(t, root)
	if err := m.InitProject("demo", "example.com/demo"); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "demo" || cfg.GoModName != "example.com/demo" {
		t.Errorf("config wrong: %+v", cfg)
	}

	if _, err := os.Stat(filepath.Join(root, "src", "main.gox")); err != nil {
		t.Errorf("example unit missing: %v", err)
	}

	// The scaffold must build as-is.
	if err := newTestManager(t, root).TranspileProject(); err != nil {
		t.Errorf("scaffold build failed: %v", err)
	}
}

func TestStdlibAllowList(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"fmt", true},
		{"net/http", true},
		{"encoding/json", true},
		{"models", false},
		{"github.com/user/demo/exceptions", false},
	}
	for _, tt := range tests {
		if got := isStdlibImport(tt.path); got != tt.want {
			t.Errorf("isStdlibImport(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestConfigDefaultsWrittenOnLoad(t *testing.T) {
	root := t.TempDir()

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SourceDir != "src" || cfg.OutputDir != "build" || cfg.Version != "1.0.0" {
		t.Errorf("defaults wrong: %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(root, ConfigFileName)); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}
