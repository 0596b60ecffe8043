package parser

import (
	"github.com/sanity-io/litter"
)

// DumpAST pretty-prints a parsed program for debugging. Position-free by
// construction, so the output is stable across reformatting of the input.
func DumpAST(program *Program) string {
	opts := litter.Options{
		HidePrivateFields: true,
		HomePackage:       "parser",
	}
	return opts.Sdump(program)
}
