// Command c0ic drives the scope analyzer and bytecode compiler over a
// source file (or stdin), printing either the compiled artifact's
// disassembly or the diagnostics that stopped it.
//
// A single flat main() does its own os.Args walk rather than reaching
// for the flag package, and isatty.IsTerminal/isatty.IsCygwinTerminal
// decide whether stdout is a real terminal before emitting
// interactive-only chrome (here: the "reading from stdin..." prompt).
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lispcore/c0i/internal/analyzer"
	"github.com/lispcore/c0i/internal/bytecode"
	"github.com/lispcore/c0i/internal/compiler"
	"github.com/lispcore/c0i/internal/config"
	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/ffi/stdffi"
	"github.com/lispcore/c0i/internal/reader"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// builtinPreamble defines the names every source file can assume exist
// without declaring them itself. "cons" in particular is not a builtin
// operator (analyzer.IsBuiltinOperator deliberately excludes it) — it
// resolves through ordinary name lookup to this compiled function,
// matching the worked end-to-end trace. Prepending it is a glue-layer
// decision (compiler.Options.SkipBuiltins documents this split), not
// something the analyzer or compiler packages know about.
const builtinPreamble = "(define (cons a b) (vector a b))\n"

func usage() {
	fmt.Fprintf(os.Stderr, `usage: c0ic [options] [file]

Reads a source file (or stdin when none is given), runs scope/capture
analysis and bytecode compilation, and prints the result.

options:
  -skip-builtins   do not prepend the builtin preamble before parsing
  -only-analyse    stop after analysis and dump the annotation tables
  -dump-bytecode   print the compiled program's disassembly
  -verbose         trace each function as compilation starts
  -config path     load toolchain options from a c0i.yaml file (default "c0i.yaml")
  -version         print the toolchain version and exit
`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts := compiler.Options{}
	verbose := false
	configPath := "c0i.yaml"
	var file string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "-help", "--help":
			usage()
			return 0
		case "-version", "--version":
			fmt.Println(config.Version)
			return 0
		case "-skip-builtins":
			opts.SkipBuiltins = true
		case "-only-analyse", "-only-analyze":
			opts.OnlyAnalyse = true
		case "-dump-bytecode":
			opts.DumpBytecode = true
		case "-verbose":
			verbose = true
		case "-config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "c0ic: -config requires a path argument")
				return 2
			}
			i++
			configPath = args[i]
		default:
			if file != "" {
				fmt.Fprintf(os.Stderr, "c0ic: unexpected extra argument %q\n", args[i])
				return 2
			}
			file = args[i]
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "c0ic: %s\n", err)
		return 1
	}
	if cfg.SkipBuiltins {
		opts.SkipBuiltins = true
	}
	if cfg.DumpBytecode {
		opts.DumpBytecode = true
	}
	if cfg.FFIManifest != "" {
		manifestPath := filepath.Join(filepath.Dir(configPath), cfg.FFIManifest)
		if _, err := os.Stat(manifestPath); err != nil {
			fmt.Fprintf(os.Stderr, "c0ic: ffi_manifest %s: %s\n", manifestPath, err)
			return 1
		}
	}

	if file != "" && !config.HasSourceExt(file) {
		fmt.Fprintf(os.Stderr, "c0ic: warning: %s has no recognized source extension (%v)\n", file, config.SourceFileExtensions)
	}

	src, srcName, err := readSource(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "c0ic: %s\n", err)
		return 1
	}

	if !opts.SkipBuiltins {
		src = builtinPreamble + src
	}

	program, err := reader.Parse(srcName, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "c0ic: parse error: %s\n", err)
		return 1
	}

	registry := ffi.NewRegistry()
	stdffi.Register(registry, os.Stdout)

	res, err := analyzer.Analyze(registry, program, cfg.ReservedOperators...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "c0ic: %s\n", err)
		return 1
	}
	if opts.OnlyAnalyse {
		out, err := yaml.Marshal(analyzer.Dump(program, res))
		if err != nil {
			fmt.Fprintf(os.Stderr, "c0ic: %s\n", err)
			return 1
		}
		os.Stdout.Write(out)
		return 0
	}

	if verbose {
		opts.Trace = func(depth int, chain []string) {
			fmt.Fprintf(os.Stderr, "%*scompiling %v\n", depth*2, "", chain)
		}
	}

	prog, labels, err := compiler.Compile(program, res, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "c0ic: %s\n", err)
		return 1
	}

	if opts.DumpBytecode {
		fmt.Print(bytecode.Disassemble(prog, labels))
	} else {
		fmt.Fprintf(os.Stderr, "c0ic: compiled %d functions, %d instructions\n", len(prog.Functions), len(prog.Code))
	}
	return 0
}

// readSource returns the source text and a display name for diagnostics.
// An empty path reads stdin, printing a one-line hint first when stdout
// is an interactive terminal (isatty.IsTerminal covers most platforms;
// IsCygwinTerminal covers MSYS/Cygwin ptys the first check misses).
func readSource(path string) (src string, name string, err error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		return string(data), path, nil
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "c0ic: reading from stdin, press ^D to finish")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", err
	}
	return string(data), "<stdin>", nil
}
