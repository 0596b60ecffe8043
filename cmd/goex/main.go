package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"goex/pkg/driver"
	"goex/pkg/lexer"
	"goex/pkg/parser"
	"goex/pkg/project"
	"goex/pkg/source"
	"goex/pkg/transpiler"
)

const historyFile = ".goex_history"

func usage() {
	fmt.Fprintf(os.Stderr, `goex - transpiler for Go with classes and exceptions

Usage:
  goex transpile <input.gox> [-o output.go] [-v] [-ast]
  goex init <name> [-module <module-path>] [-dir <directory>]
  goex build [-dir <directory>]
  goex run [-dir <directory>]
  goex info [-dir <directory>]
  goex repl
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(64) // Exit code 64: command line usage error
	}

	switch os.Args[1] {
	case "transpile":
		cmdTranspile(os.Args[2:])
	case "init":
		cmdInit(os.Args[2:])
	case "build":
		cmdBuild(os.Args[2:])
	case "run":
		cmdRun(os.Args[2:])
	case "info":
		cmdInfo(os.Args[2:])
	case "repl":
		cmdRepl(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(64)
	}
}

func cmdTranspile(args []string) {
	fs := flag.NewFlagSet("transpile", flag.ExitOnError)
	outputFlag := fs.String("o", "", "Output Go file (default: <input>.go)")
	verboseFlag := fs.Bool("v", false, "Verbose mode")
	astFlag := fs.Bool("ast", false, "Show AST dump before generation")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: goex transpile <input.gox> [-o output.go] [-v] [-ast]\n")
		os.Exit(64)
	}
	inputPath := fs.Arg(0)

	src, err := source.ReadFile(inputPath)
	if err != nil {
		driver.Report(err)
		os.Exit(70) // Exit code 70: internal software error
	}
	if *verboseFlag {
		fmt.Printf("Reading file: %s\n", inputPath)
	}

	tokens, err := lexer.NewLexerWithSource(src).Tokenize()
	if err != nil {
		driver.Report(err)
		os.Exit(70)
	}
	if *verboseFlag {
		fmt.Printf("Generated tokens: %d\n", len(tokens))
	}

	program, err := parser.NewParserWithSource(tokens, src).ParseProgram()
	if err != nil {
		driver.Report(err)
		os.Exit(70)
	}
	if *verboseFlag {
		fmt.Println("AST generated successfully")
	}
	if *astFlag {
		fmt.Println(parser.DumpAST(program))
	}

	goCode, err := transpiler.NewTranspiler().Transpile(program)
	if err != nil {
		driver.Report(err)
		os.Exit(70)
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".go"
	}
	if err := os.WriteFile(outputPath, []byte(goCode), 0o644); err != nil {
		driver.Report(err)
		os.Exit(70)
	}
	fmt.Printf("Transpilation completed: %s -> %s\n", inputPath, outputPath)
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	moduleFlag := fs.String("module", "", "Go module path for the generated project")
	dirFlag := fs.String("dir", "", "Project directory (default: current directory)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: goex init <name> [-module <module-path>] [-dir <directory>]\n")
		os.Exit(64)
	}

	root := projectRoot(*dirFlag)
	if err := project.NewManager(root).InitProject(fs.Arg(0), *moduleFlag); err != nil {
		driver.Report(err)
		os.Exit(70)
	}
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	dirFlag := fs.String("dir", "", "Project directory (default: current directory)")
	fs.Parse(args)

	if err := driver.BuildProject(projectRoot(*dirFlag)); err != nil {
		driver.Report(err)
		os.Exit(70)
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dirFlag := fs.String("dir", "", "Project directory (default: current directory)")
	fs.Parse(args)

	if err := driver.RunProject(projectRoot(*dirFlag)); err != nil {
		driver.Report(err)
		os.Exit(70)
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dirFlag := fs.String("dir", "", "Project directory (default: current directory)")
	fs.Parse(args)

	if err := driver.ShowProjectInfo(projectRoot(*dirFlag)); err != nil {
		driver.Report(err)
		os.Exit(70)
	}
}

func projectRoot(dir string) string {
	if dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(70)
	}
	return cwd
}

// cmdRepl reads a whole unit interactively, then prints the generated Go.
// A line of ":go" ends the current unit, ":reset" discards it, ":ast"
// dumps the parse tree, ":quit" leaves.
func cmdRepl(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	fs.Parse(args)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("goex repl - enter a unit, then :go to transpile (:reset, :ast, :quit)")

	var buf strings.Builder
	for {
		prompt := "goex> "
		if buf.Len() > 0 {
			prompt = "....> "
		}

		line, err := ln.Prompt(prompt)
		if err != nil { // Ctrl+D or Ctrl+C
			fmt.Println()
			break
		}
		ln.AppendHistory(line)

		switch strings.TrimSpace(line) {
		case ":quit":
			saveHistory(ln, histPath)
			return
		case ":reset":
			buf.Reset()
			continue
		case ":ast":
			program, err := driver.ParseSource(source.NewReplSource(buf.String()))
			if err != nil {
				driver.Report(err)
				continue
			}
			fmt.Println(parser.DumpAST(program))
			continue
		case ":go":
			output, err := driver.TranspileSource(source.NewReplSource(buf.String()))
			if err != nil {
				driver.Report(err)
			} else {
				fmt.Print(output)
			}
			buf.Reset()
			continue
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	saveHistory(ln, histPath)
}

func saveHistory(ln *liner.State, histPath string) {
	if histPath == "" {
		return
	}
	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
}
