package source

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceFile represents one Go-Extended translation unit with its content
// and metadata.
type SourceFile struct {
	Name    string   // Display name (e.g., "main.gox", "<repl>")
	Path    string   // Full file path (empty for REPL/eval input)
	Content string   // The source code content
	lines   []string // Cached split lines (lazy initialization)
}

// NewSourceFile creates a new source file.
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for eval input.
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<eval>",
		Content: content,
	}
}

// NewReplSource creates a source file for REPL input.
func NewReplSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<repl>",
		Content: content,
	}
}

// FromFile creates a SourceFile from a file path and content.
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// ReadFile loads a SourceFile from disk.
func ReadFile(filePath string) (*SourceFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromFile(filePath, string(data)), nil
}

// Lines returns the source split into lines (cached).
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name).
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file on disk.
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}
