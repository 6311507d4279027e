// Command aslc drives the whole pipeline over one source file: scan, parse,
// collect symbols, type-check, build t-code, and lower to LLVM IR.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jesperkha/aslc/koi"
	"github.com/jesperkha/aslc/koi/compile/targets"
	"github.com/jesperkha/aslc/koi/ir"
)

// Options mirrors the single hard-coded token.File the teacher's driver
// built inline, generalized to a real CLI surface.
type Options struct {
	SourcePath string
	DumpTcode  bool
	EmitLLVM   bool
	OutputPath string
}

func parseFlags(args []string) (Options, error) {
	fs := flag.NewFlagSet("aslc", flag.ContinueOnError)
	opts := Options{}
	fs.BoolVar(&opts.DumpTcode, "tcode", false, "print the t-code program instead of lowering it")
	fs.BoolVar(&opts.EmitLLVM, "emit-llvm", false, "print the lowered LLVM IR to stdout")
	fs.StringVar(&opts.OutputPath, "o", "", "write LLVM IR to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		return opts, fmt.Errorf("usage: aslc [-tcode] [-emit-llvm] [-o path] <source-file>")
	}
	opts.SourcePath = fs.Arg(0)
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	prog, err := koi.GenerateIR(opts.SourcePath, nil)
	if err != nil {
		log.Fatal(err)
	}

	if opts.DumpTcode {
		var buf bytes.Buffer
		ir.PrintProgram(&buf, prog)
		os.Stdout.Write(buf.Bytes())
		return
	}

	llvmText, err := targets.Lower(prog)
	if err != nil {
		log.Fatal(err)
	}

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(llvmText), 0644); err != nil {
			log.Fatal(err)
		}
		return
	}

	os.Stdout.WriteString(llvmText)
}
